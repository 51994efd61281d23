// Package metadata provides the immutable metadata model attached to results
// and errors.
//
// # Values
//
// A Value is a small tagged union over seven kinds: null, bool, int64,
// double, string, array and object. Every value carries an Annotation bit-set
// that records which transport surfaces may serialize it:
//
//	v := metadata.String("req-42", metadata.SerializeInHTTPHeader|metadata.SerializeAsCloudEventExtension)
//	v.HasAnnotation(metadata.SerializeInHTTPHeader) // true
//
// One metadata object can therefore serve several wire formats at once; each
// writer projects only the entries annotated for its surface.
//
// # Objects and arrays
//
// Object keeps its keys sorted by ordinal byte comparison, so iteration is
// deterministic and lookups use binary search. Objects with more than eight
// entries build a hash index on first lookup. Both containers are immutable
// and safe to share between goroutines.
//
// Containers are assembled through single-use builders backed by pooled
// storage:
//
//	b := metadata.NewObjectBuilder(4)
//	defer b.Release()
//	_ = b.Add("source", metadata.String("urn:orders"))
//	_ = b.Add("attempt", metadata.Int64(3))
//	obj, err := b.Build()
//
// Build hands the pooled storage back; Release makes that guarantee on every
// other exit path.
//
// # Merging
//
// Merge combines two objects under a MergeStrategy. AddOrReplace merges
// nested objects field by field and replaces everything else wholesale;
// arrays are never merged element-wise.
package metadata
