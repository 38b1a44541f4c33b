// Package bump turns conventional commits into per-module version upgrades.
//
// The pipeline is pure and runs in one direction:
//
//	Classify -> ResolveModule -> Aggregate -> Reconcile
//
// Commits that cannot be used produce Diagnostics instead of aborting the run. The only
// fatal condition is a hand-edited version from which no change magnitude can be derived
// (see semver.ErrInconsistentVersion). BuildPlan wires the stages together.
package bump

import (
	"strings"

	"github.com/ariel-frischer/wsbump/internal/semver"
)

// Commit is a single commit record as read from version control.
type Commit struct {
	ID      string `json:"id" yaml:"id"`
	Subject string `json:"subject" yaml:"subject"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`
}

// NewCommit splits a full commit message into subject and body.
// The subject is the first line; the body is the remaining text with surrounding
// blank lines removed.
func NewCommit(id, message string) Commit {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	subject, body, _ := strings.Cut(message, "\n")
	return Commit{
		ID:      id,
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
	}
}

// Module is an independently versioned unit of the workspace.
// Path locates the module's manifest for the caller and is never serialized.
type Module struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Path    string `json:"-" yaml:"-"`
}

// ChangeProposal requests a change of one kind for one module, derived from one commit.
type ChangeProposal struct {
	Module string
	Kind   Kind
	Commit Commit
}

// CommitRef is a commit contributing to a module decision together with its kind.
type CommitRef struct {
	Commit Commit `json:"commit" yaml:"commit"`
	Kind   Kind   `json:"kind" yaml:"kind"`
}

// ModuleDecision is the aggregated outcome for one module.
type ModuleDecision struct {
	Module   string           `json:"module" yaml:"module"`
	Severity semver.Magnitude `json:"severity" yaml:"severity"`
	Commits  []CommitRef      `json:"commits" yaml:"commits"`
}

// VersionResolution is the final version change for one module.
type VersionResolution struct {
	Module    string           `json:"module" yaml:"module"`
	From      string           `json:"from" yaml:"from"`
	To        string           `json:"to" yaml:"to"`
	Magnitude semver.Magnitude `json:"magnitude" yaml:"magnitude"`
}

// Changed reports whether the resolution moves the version.
func (r VersionResolution) Changed() bool {
	return r.From != r.To
}
