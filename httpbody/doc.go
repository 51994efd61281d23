// Package httpbody maps results onto HTTP response bodies.
//
// Successful results become application/json bodies: a bare value, or
// {"value": ..., "metadata": {...}} when metadata is written. Failed results
// become RFC 9457 problem details (application/problem+json) with an
// "errors" member, either the rich array form or, for 400 and 422
// responses, the {"target": ["message"]} form with an "errorDetails" array.
//
// Only metadata annotated with metadata.SerializeInHTTPBody reaches the body.
// Primitive values annotated with metadata.SerializeInHTTPHeader become
// response headers named after their metadata key.
//
// A Reader performs the inverse mapping. Problem details without an
// "errors" member are read as a single error built from "detail" and the
// response status.
package httpbody
