package rules

import (
	m "reify.dev/pkg/reify/internal/model"
)

// Excluded is the predicate shared by every rule: system headers, macro
// expansions, invalid locations and anything nested in a namespace.
func Excluded(d *m.Decl) bool {
	if d.FromSystemHeader() || d.FromMacroOrInvalid() {
		return true
	}

	return d.HasAncestor(isNamespace)
}

func isNamespace(d *m.Decl) bool {
	return d.Kind == m.KindNamespace
}

func isRecord(d *m.Decl) bool {
	return d.Kind.IsRecord()
}
