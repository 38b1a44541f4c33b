package bump

import (
	"fmt"
	"regexp"
	"strings"
)

// WildcardScope is the scope token that targets every known module.
const WildcardScope = "*"

var (
	// subjectPattern captures kind, optional scope list and description.
	subjectPattern = regexp.MustCompile(`^([^:()]+)(?:\(([^)]+)\))?: (.*)$`)

	// Subjects of commits created by the release flow itself.
	versionSubjectPattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+`)
	releaseSubjectPattern = regexp.MustCompile(`^Release v?\d+\.\d+\.\d+`)
)

// Classification is the outcome of classifying one commit.
// Exactly one of Proposals, Diagnostic or Ignored is set.
type Classification struct {
	Proposals  []ChangeProposal
	Diagnostic *Diagnostic
	// Ignored marks commits created by a previous release; they count as absent.
	Ignored bool
}

// Classify parses the subject of a conventional commit into change proposals.
// moduleNames is only consulted to expand the wildcard scope.
func Classify(commit Commit, moduleNames []string) Classification {
	subject := commit.Subject
	if isReleaseSubject(subject) {
		return Classification{Ignored: true}
	}

	m := subjectPattern.FindStringSubmatch(subject)
	if m == nil {
		return diagnose(DiagnosticUnknownCommit, commit,
			fmt.Sprintf("subject %q is not a conventional commit", subject))
	}

	token, scope := m[1], m[2]
	kind, ok := ParseKind(token)
	if !ok {
		return diagnose(DiagnosticUnknownCommit, commit,
			fmt.Sprintf("unknown commit kind %q (want one of %s)", token, kindList()))
	}

	refs := splitScope(scope)
	if len(refs) == 0 {
		if kind.RequiresScope() {
			return diagnose(DiagnosticMissingScope, commit,
				fmt.Sprintf("%s commit must name the module(s) it changes", kind))
		}
		return diagnose(DiagnosticSkipped, commit,
			fmt.Sprintf("%s commit without module scope", kind))
	}

	if len(refs) == 1 && refs[0] == WildcardScope {
		refs = moduleNames
	}

	proposals := make([]ChangeProposal, 0, len(refs))
	for _, ref := range refs {
		proposals = append(proposals, ChangeProposal{Module: ref, Kind: kind, Commit: commit})
	}
	return Classification{Proposals: proposals}
}

func kindList() string {
	names := make([]string, 0, len(kindTable))
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func isReleaseSubject(subject string) bool {
	return versionSubjectPattern.MatchString(subject) || releaseSubjectPattern.MatchString(subject)
}

// splitScope splits a raw scope list on commas, trimming whitespace and dropping empty entries.
func splitScope(scope string) []string {
	if strings.TrimSpace(scope) == "" {
		return nil
	}
	var refs []string
	for _, part := range strings.Split(scope, ",") {
		if ref := strings.TrimSpace(part); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

func diagnose(kind DiagnosticKind, commit Commit, reason string) Classification {
	return Classification{Diagnostic: &Diagnostic{Kind: kind, Commit: commit, Reason: reason}}
}
