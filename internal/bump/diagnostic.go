package bump

import "fmt"

// DiagnosticKind tags why a commit did not contribute to any decision.
type DiagnosticKind string

const (
	// DiagnosticUnknownCommit means the subject is not a conventional commit or its kind is unknown.
	DiagnosticUnknownCommit DiagnosticKind = "unknown_commit"
	// DiagnosticMissingScope means the kind requires a module scope and none was given.
	DiagnosticMissingScope DiagnosticKind = "missing_scope"
	// DiagnosticSkipped is informational: an unscoped commit of a kind that may be ignored.
	DiagnosticSkipped DiagnosticKind = "skipped"
	// DiagnosticUnresolvedModule means a scope names a module that does not exist.
	DiagnosticUnresolvedModule DiagnosticKind = "unresolved_module"
)

// Diagnostic describes a commit (or part of one) that was left out of aggregation.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind" yaml:"kind"`
	Commit Commit         `json:"commit" yaml:"commit"`
	Reason string         `json:"reason" yaml:"reason"`
}

// IsError reports whether the diagnostic should be surfaced as a problem.
func (d Diagnostic) IsError() bool {
	return d.Kind != DiagnosticSkipped
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Reason, shortID(d.Commit.ID))
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
