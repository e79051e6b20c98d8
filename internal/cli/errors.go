package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1 // errors found, or changes pending in check mode
	ExitUsage  = 2 // usage error or missing required input
)

var (
	errModeConflict  = errors.New("flags are mutually exclusive")
	errPathsRequired = errors.New("at least one path is required")
	errTooManyArgs   = errors.New("too many arguments")
)

// ExitError carries an exit code out of [Command.Exec]. Err is printed
// when non-nil; a nil Err exits silently, for commands that already
// reported their findings.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// failed is the silent exit for findings that were already printed.
func failed() error {
	return &ExitError{Code: ExitFailed}
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}
