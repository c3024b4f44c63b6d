// Package exitcodes defines the process exit codes of sltrun
package exitcodes

import "errors"

// Exit code constants used by sltrun:
//
// * Success (0): all selected files passed or were skipped
// * TestFailure (1): one or more files failed
// * RuntimeErr (2): discovery, configuration or reference engine errors
const (
	Success     = 0 // All tests pass
	TestFailure = 1 // Test failures
	RuntimeErr  = 2 // Runtime errors
)

// Error attaches an exit code to an error
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FromError maps an error returned by a command to an exit code
func FromError(err error) int {
	if err == nil {
		return Success
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return RuntimeErr
}
