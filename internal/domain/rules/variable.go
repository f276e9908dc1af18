package rules

import (
	m "reify.dev/pkg/reify/internal/model"
)

// MatchVariableTemplate binds variable templates that are not members of a
// class template.
func MatchVariableTemplate(d *m.Decl) (m.Candidate, bool) {
	if d.Kind != m.KindVarTemplate || Excluded(d) {
		return m.Candidate{}, false
	}

	if d.ParentKind() == m.KindClassTemplate {
		return m.Candidate{}, false
	}

	return m.Candidate{Rule: m.RuleVariable, Decl: d}, true
}
