package bump

import (
	"sort"

	"github.com/ariel-frischer/wsbump/internal/semver"
)

// Aggregate merges resolved proposals into one decision per module.
//
// Decisions are ordered by module name. A module's severity is the highest severity of
// its proposals. Its commits keep one entry per commit ID and are listed by kind
// priority (BREAKING, feat, deprecation, fix, ...), ties in encounter order.
func Aggregate(proposals []ChangeProposal) []ModuleDecision {
	byModule := make(map[string]*ModuleDecision)
	seen := make(map[string]map[string]bool)

	for _, p := range proposals {
		d, ok := byModule[p.Module]
		if !ok {
			d = &ModuleDecision{Module: p.Module}
			byModule[p.Module] = d
			seen[p.Module] = make(map[string]bool)
		}

		d.Severity = semver.Max(d.Severity, p.Kind.Severity())

		if seen[p.Module][p.Commit.ID] {
			continue
		}
		seen[p.Module][p.Commit.ID] = true
		d.Commits = append(d.Commits, CommitRef{Commit: p.Commit, Kind: p.Kind})
	}

	decisions := make([]ModuleDecision, 0, len(byModule))
	for _, d := range byModule {
		sort.SliceStable(d.Commits, func(i, j int) bool {
			return d.Commits[i].Kind < d.Commits[j].Kind
		})
		decisions = append(decisions, *d)
	}

	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].Module < decisions[j].Module
	})

	return decisions
}
