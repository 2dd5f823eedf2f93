// Package errs defines the fatal error kinds surfaced by the voxelmca
// pipeline, per the failure model: InputError, ResourceError, IOError,
// InternalError. The CLI maps each kind to an exit code.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInput Kind = iota
	KindResource
	KindIO
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "InputError"
	case KindResource:
		return "ResourceError"
	case KindIO:
		return "IOError"
	case KindInternal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// ExitCode maps a kind to the process exit code the CLI returns.
func (k Kind) ExitCode() int {
	switch k {
	case KindInput, KindIO:
		return 1
	case KindResource, KindInternal:
		return 2
	default:
		return 1
	}
}

// Error wraps an underlying error with a kind and, for IOError, a path.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Input(err error) error {
	return &Error{Kind: KindInput, Err: err}
}

func Resource(err error) error {
	return &Error{Kind: KindResource, Err: err}
}

func IO(path string, err error) error {
	return &Error{Kind: KindIO, Path: path, Err: err}
}

func Internal(err error) error {
	return &Error{Kind: KindInternal, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain, for
// callers that only need the kind/exit code of an arbitrary error
// returned by the pipeline.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
