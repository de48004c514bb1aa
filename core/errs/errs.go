// Package errs holds sentinel errors shared by the core packages.
// Callers match them with errors.Is; context is added by wrapping.
package errs

import "errors"

var (
	// ErrNotFound indicates a required input file or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMalformed indicates an input that cannot be parsed.
	ErrMalformed = errors.New("malformed input")

	// ErrNoAlignments indicates that no alignment files were given or discovered.
	ErrNoAlignments = errors.New("no alignment files")

	// ErrUnknownBackend indicates an aligner backend name with no registration.
	ErrUnknownBackend = errors.New("unknown aligner backend")
)
