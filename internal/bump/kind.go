package bump

import (
	"fmt"

	"github.com/ariel-frischer/wsbump/internal/semver"
)

// Kind is the change kind declared by a conventional commit subject.
// Kinds are ordered by priority: a lower value lists first in a module's history.
type Kind int

const (
	KindBreaking Kind = iota
	KindFeat
	KindDeprecation
	KindFix
	KindPerf
	KindDocs
	KindStyle
	KindRefactor
	KindTest
	KindChore
)

type kindInfo struct {
	name          string
	severity      semver.Magnitude
	scopeRequired bool
}

// kindTable is indexed by Kind.
var kindTable = [...]kindInfo{
	KindBreaking:    {name: "BREAKING", severity: semver.Major, scopeRequired: true},
	KindFeat:        {name: "feat", severity: semver.Minor, scopeRequired: true},
	KindDeprecation: {name: "deprecation", severity: semver.Patch, scopeRequired: true},
	KindFix:         {name: "fix", severity: semver.Patch, scopeRequired: true},
	KindPerf:        {name: "perf", severity: semver.Patch, scopeRequired: true},
	KindDocs:        {name: "docs", severity: semver.Patch},
	KindStyle:       {name: "style", severity: semver.Patch},
	KindRefactor:    {name: "refactor", severity: semver.Patch},
	KindTest:        {name: "test", severity: semver.Patch},
	KindChore:       {name: "chore", severity: semver.Patch},
}

// Kinds returns every kind in priority order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindTable))
	for i := range kindTable {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind looks up a kind by its exact commit token (case-sensitive).
func ParseKind(s string) (Kind, bool) {
	for i, info := range kindTable {
		if info.name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kindTable)
}

// String returns the commit token of the kind.
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindTable[k].name
}

// Severity returns the version magnitude a commit of this kind asks for.
func (k Kind) Severity() semver.Magnitude {
	if !k.valid() {
		return semver.MagnitudeNone
	}
	return kindTable[k].severity
}

// RequiresScope reports whether a commit of this kind must name at least one module.
func (k Kind) RequiresScope() bool {
	return k.valid() && kindTable[k].scopeRequired
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown commit kind %q", string(text))
	}
	*k = parsed
	return nil
}
