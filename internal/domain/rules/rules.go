// Package rules provides the matcher rules that find materializable template instantiations.
package rules

import (
	m "reify.dev/pkg/reify/internal/model"
)

// Rule inspects one declaration and returns the candidate it binds, if any.
type Rule func(d *m.Decl) (m.Candidate, bool)

// Registered lists every rule in evaluation order. Each rule appears once.
var Registered = []Rule{
	MatchFunction,
	MatchClassSpecialization,
	MatchVariableTemplate,
}

// Match walks root in pre-order and returns the candidates in discovery order.
func Match(root *m.Decl) []m.Candidate {
	candidates := make([]m.Candidate, 0)

	root.Walk(func(d *m.Decl) bool {
		candidates = append(candidates, MatchDecl(d)...)
		return true
	})

	return candidates
}

// MatchDecl evaluates every registered rule against a single declaration.
func MatchDecl(d *m.Decl) []m.Candidate {
	var candidates []m.Candidate

	for _, rule := range Registered {
		if candidate, ok := rule(d); ok {
			candidates = append(candidates, candidate)
		}
	}

	return candidates
}
