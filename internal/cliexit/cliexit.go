// Package cliexit centralizes the exit-code mapping every secdrift
// subcommand uses: 0 success, 2 validation error, 3 unexpected failure.
package cliexit

import (
	"fmt"
	"os"
)

// ValidationError marks an input error (bad flags, bad YAML, schema
// violation) that should exit 2 with every accumulated message printed.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation error"
	}
	return e.Errors[0]
}

// NewValidationError wraps a list of error strings produced by a
// validator (e.g. the canonical-terms compiler) into a ValidationError.
func NewValidationError(errs []string) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Run invokes fn and maps its result to a process exit code: 0 on nil
// error, 2 on *ValidationError (printing every message to stderr), 3 on
// any other error.
func Run(fn func() error) {
	os.Exit(code(fn()))
}

func code(err error) int {
	if err == nil {
		return 0
	}
	if verr, ok := err.(*ValidationError); ok {
		for _, e := range verr.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return 2
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 3
}
