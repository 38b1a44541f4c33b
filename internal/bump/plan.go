package bump

import (
	"sort"

	"github.com/ariel-frischer/wsbump/internal/semver"
)

// PlanInput is everything BuildPlan needs, fully materialized.
type PlanInput struct {
	// Commits in the order they should be reported, usually oldest first.
	Commits []Commit
	// Modules as of the base point.
	Modules []Module
	// Previous maps module names to their versions at the start point.
	// A module missing from the map did not exist at the start point.
	Previous map[string]string
}

// Plan is the result of running the whole pipeline.
type Plan struct {
	Decisions   []ModuleDecision    `json:"decisions" yaml:"decisions"`
	Resolutions []VersionResolution `json:"resolutions" yaml:"resolutions"`
	Diagnostics []Diagnostic        `json:"diagnostics" yaml:"diagnostics"`
}

// HasErrors reports whether any diagnostic other than skipped was produced.
func (p *Plan) HasErrors() bool {
	for _, d := range p.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Changed returns the resolutions that move a version.
func (p *Plan) Changed() []VersionResolution {
	var out []VersionResolution
	for _, r := range p.Resolutions {
		if r.Changed() {
			out = append(out, r)
		}
	}
	return out
}

// BuildPlan classifies, resolves, aggregates and reconciles in one pass.
//
// Besides modules named by commits, modules whose version was edited by hand and new
// modules with a non-zero version are resolved too. The returned error is always a
// reconcile failure for one module; diagnostics never cause an error.
func BuildPlan(in PlanInput) (*Plan, error) {
	names := make([]string, len(in.Modules))
	current := make(map[string]string, len(in.Modules))
	for i, m := range in.Modules {
		names[i] = m.Name
		current[m.Name] = m.Version
	}

	plan := &Plan{}
	var accepted []ChangeProposal

	for _, c := range in.Commits {
		cls := Classify(c, names)
		switch {
		case cls.Ignored:
			continue
		case cls.Diagnostic != nil:
			plan.Diagnostics = append(plan.Diagnostics, *cls.Diagnostic)
			continue
		}

		resolved, diags := ResolveProposals(cls.Proposals, in.Modules)
		plan.Diagnostics = append(plan.Diagnostics, diags...)
		accepted = append(accepted, resolved...)
	}

	plan.Decisions = Aggregate(accepted)

	decided := make(map[string]bool, len(plan.Decisions))
	for _, d := range plan.Decisions {
		decided[d.Module] = true
		res, err := Reconcile(d, current[d.Module], in.Previous[d.Module])
		if err != nil {
			return nil, err
		}
		plan.Resolutions = append(plan.Resolutions, res)
	}

	for _, m := range in.Modules {
		if decided[m.Name] || !editedOutsideCommits(m, in.Previous) {
			continue
		}
		res, err := Reconcile(ModuleDecision{Module: m.Name}, m.Version, in.Previous[m.Name])
		if err != nil {
			return nil, err
		}
		plan.Resolutions = append(plan.Resolutions, res)
	}

	sort.Slice(plan.Resolutions, func(i, j int) bool {
		return plan.Resolutions[i].Module < plan.Resolutions[j].Module
	})

	return plan, nil
}

// editedOutsideCommits reports whether a module's version moved without any commit asking for it.
func editedOutsideCommits(m Module, previous map[string]string) bool {
	prior, ok := previous[m.Name]
	if !ok {
		return m.Version != semver.Zero
	}
	return prior != m.Version
}
