// Package pool provides pooled backing storage for metadata builders and
// envelope serialization.
//
// Builders borrow their key/value storage from power-of-two size classes and
// return it exactly once on Build or Release. Envelope writers borrow a
// ByteBuffer, append JSON tokens into it, copy the finished bytes out and put
// the buffer back.
package pool
