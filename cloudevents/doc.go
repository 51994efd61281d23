// Package cloudevents maps results onto CloudEvents 1.0 JSON envelopes.
//
// A Writer serializes a result.Result into an envelope whose "lroutcome"
// extension attribute marks success or failure. Metadata annotated with
// metadata.SerializeAsCloudEventExtension becomes extension attributes and
// metadata annotated with metadata.SerializeInCloudEventData travels inside
// the data payload. A Reader performs the inverse mapping in a single
// forward pass over the envelope tokens.
//
// Attribute conversion (write side) and attribute parsing (read side) are
// pluggable through registries that are built once and shared afterwards.
package cloudevents
