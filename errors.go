package main

import (
	"errors"
	"fmt"
)

// Error taxonomy. Fetch paths swallow these at the fetcher boundary
// (logged, resolved to an empty or filtered result set); mutation paths
// return them to the caller so the presentation layer can react.
var (
	// ErrNotFound marks a referenced entity that does not exist or is not
	// owned by the acting identity.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a local precondition failure. Nothing remote has
	// happened when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNoViewer marks a mutation that requires a signed-in identity.
	ErrNoViewer = errors.New("sign-in required")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
