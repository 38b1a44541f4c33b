package cli

import "errors"

// Exit codes for the wsbump CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitDiagnostics indicates commits could not be used and --fail-on-diagnostics was set
	ExitDiagnostics = 1

	// ExitFailure indicates the workspace or history could not be read or written
	ExitFailure = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitInconsistentVersion indicates a hand-edited version that cannot be reconciled
	ExitInconsistentVersion = 6

	// ExitConfig indicates the configuration could not be loaded
	ExitConfig = 7
)

// ExitError carries the exit code a command failed with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
// Errors without an ExitError are usage errors reported by cobra.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInvalidArguments
}
