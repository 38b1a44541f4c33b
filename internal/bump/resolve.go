package bump

import (
	"fmt"
	"strings"
)

// ResolveModule finds the module a commit scope refers to.
// A reference matches a module by exact name or by its last path segment, so "foo"
// resolves "@scope/foo". The first match in input order wins.
func ResolveModule(ref string, modules []Module) (Module, bool) {
	for _, m := range modules {
		if m.Name == ref || strings.HasSuffix(m.Name, "/"+ref) {
			return m, true
		}
	}
	return Module{}, false
}

// ResolveProposals rewrites each proposal to the canonical name of its module.
// Proposals naming unknown modules are dropped and reported as unresolved_module.
func ResolveProposals(proposals []ChangeProposal, modules []Module) ([]ChangeProposal, []Diagnostic) {
	resolved := make([]ChangeProposal, 0, len(proposals))
	var diags []Diagnostic

	for _, p := range proposals {
		m, ok := ResolveModule(p.Module, modules)
		if !ok {
			diags = append(diags, Diagnostic{
				Kind:   DiagnosticUnresolvedModule,
				Commit: p.Commit,
				Reason: fmt.Sprintf("module %q not found in workspace", p.Module),
			})
			continue
		}
		p.Module = m.Name
		resolved = append(resolved, p)
	}

	return resolved, diags
}
