// Package main provides the resultctl CLI for CloudEvents result envelopes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/results/archive"
	"github.com/hupe1980/results/blobstore"
	"github.com/hupe1980/results/cloudevents"
	"github.com/hupe1980/results/compress"
	"github.com/hupe1980/results/httpbody"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps invalid input to exitUserError and everything else to
// exitSysError.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errUsage),
		errors.Is(err, cloudevents.ErrParse),
		errors.Is(err, cloudevents.ErrInvalidAttribute),
		errors.Is(err, httpbody.ErrInvalidResult),
		errors.Is(err, archive.ErrInvalidID),
		errors.Is(err, compress.ErrUnknownType),
		errors.Is(err, blobstore.ErrNotFound):
		return exitUserError
	default:
		return exitSysError
	}
}

// errUsage marks errors caused by bad flags or arguments.
var errUsage = errors.New("usage")

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}
