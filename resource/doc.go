// Package resource provides admission control for archive I/O.
//
// A Controller bounds three things: the bytes held by caches, the number of
// concurrent storage operations, and the byte rate of storage traffic. All
// methods are safe on a nil *Controller, which admits everything.
package resource
