// Package results provides a portable result and error model for carrying
// success values or structured errors across process and transport
// boundaries.
//
// # Quick Start
//
//	r := results.Ok(42)
//	v, err := r.Value() // 42, nil
//
//	f := results.Fail[int](results.NewError("order not found").
//	    WithCode("ORDER_404").
//	    WithCategory(results.CategoryNotFound))
//	errs, _ := f.Errors()
//	errs.First().Category.HTTPStatus() // 404
//
// # Metadata
//
// Every Result and Error may carry a metadata.Object. Metadata is orthogonal
// to success and failure and survives transformations:
//
//	r := results.Ok("done").WithMetadataEntries(
//	    metadata.Pair("correlationId", metadata.String("c-1", metadata.SerializeAsCloudEventExtension)),
//	)
//
// Annotations on each metadata value decide which transports may serialize
// it. The cloudevents package writes values annotated with
// metadata.SerializeAsCloudEventExtension as CloudEvent extension attributes
// and values annotated with metadata.SerializeInCloudEventData inside the
// event payload. The httpbody package does the same for HTTP response bodies
// (metadata.SerializeInHTTPBody) and headers (metadata.SerializeInHTTPHeader).
//
// # Composition
//
// Map, Bind, Ensure, FailIf and MapError derive new results without mutating
// their input. Bind merges the metadata of both steps so tracing information
// contributed by either survives.
//
// # Errors
//
// An Errors value holds one or more Error values. A single error is stored
// inline; several errors share one owned slice. The zero Error is the absent
// sentinel and is never stored.
//
// # Subpackages
//
//   - metadata: the annotated metadata value model and merge engine
//   - cloudevents: CloudEvents JSON envelope reader and writer
//   - httpbody: HTTP response bodies and problem details
//   - codec: pluggable codecs for success values
//   - compress: content codings for serialized envelopes
//   - archive: compressed, checksummed envelope storage on a blobstore
//   - blobstore: memory, local, S3 and MinIO blob storage
//   - resource: concurrency and throughput limits for archive I/O
package results
