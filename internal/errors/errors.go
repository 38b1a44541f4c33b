// Package errors provides structured, operator-facing errors for the wsbump CLI.
// Every CLIError carries a category and the steps that usually resolve it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by invalid or missing configuration.
	Configuration
	// Workspace errors occur when manifests cannot be found or read.
	Workspace
	// History errors occur when the git history cannot be read.
	History
	// Version errors occur when a version change cannot be reconciled.
	Version
	// Runtime errors occur during command execution.
	Runtime
)

var categoryNames = [...]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Workspace:     "Workspace Error",
	History:       "History Error",
	Version:       "Version Error",
	Runtime:       "Runtime Error",
}

// String returns the label printed in front of the message.
func (c ErrorCategory) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Error"
	}
	return categoryNames[c]
}

// CLIError is an error shown to the operator: what failed, and what to try next.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists steps that usually resolve the error, printed as bullets.
	Remediation []string
	// Usage is the correct command syntax, set for argument errors.
	Usage string
	Cause error
}

func (e *CLIError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a CLIError of the given category.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    category,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentErrorWithUsage creates an Argument error that shows the correct syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	e := New(Argument, message, remediation...)
	e.Usage = usage
	return e
}

// Wrap turns err into a CLIError of category, keeping err's message. A nil err stays nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := New(category, err.Error(), remediation...)
	e.Cause = err
	return e
}

// WrapWithMessage is Wrap with message put in front of err's own.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	e := Wrap(err, category, remediation...)
	if e != nil {
		e.Message = fmt.Sprintf("%s: %v", message, err)
	}
	return e
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if !stderrors.As(err, &cliErr) {
		return nil
	}
	return cliErr
}
