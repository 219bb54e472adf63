package cli

import (
	"errors"

	"github.com/specialistvlad/modresolve/internal/option"
	"github.com/specialistvlad/modresolve/internal/platform"
)

// Exit codes.
const (
	ExitFailure = 1 // resolution, manifest or hook failure
	ExitUsage   = 2 // bad command line, profile or option value
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
}

// classify maps an error from a command onto an ExitError. Bad user input
// is a usage error; everything else is a failure.
func classify(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var (
		unknownOpt *option.UnknownOptionError
		invalid    *option.InvalidValueError
		unknownPl  *platform.UnknownPlatformError
	)
	if errors.As(err, &unknownOpt) || errors.As(err, &invalid) || errors.As(err, &unknownPl) || errors.Is(err, option.ErrInvalidArgument) {
		return usageError(err)
	}
	return &ExitError{Code: ExitFailure, Message: err.Error(), Err: err}
}
