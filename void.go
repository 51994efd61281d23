package results

import "github.com/hupe1980/results/metadata"

// Unit is the value type of results that carry no value.
type Unit struct{}

// Void is a Result without a success value.
type Void = Result[Unit]

// OK returns a successful Void.
func OK() Void {
	return Void{}
}

// OKWithMetadata returns a successful Void carrying md.
func OKWithMetadata(md metadata.Object) Void {
	return Void{md: md}
}

// FailVoid returns a failed Void. It panics under the same conditions as Fail.
func FailVoid(e Error, more ...Error) Void {
	return Fail[Unit](e, more...)
}

// ToVoid drops the success value of r, keeping errors and metadata.
func ToVoid[T any](r Result[T]) Void {
	return Void{errs: r.errs, md: r.md}
}
