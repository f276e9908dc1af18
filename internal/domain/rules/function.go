package rules

import (
	m "reify.dev/pkg/reify/internal/model"
)

// MatchFunction binds plain instantiations of free function templates.
// Templates that are members of a class, or that live inside a class
// template specialization, are left alone.
func MatchFunction(d *m.Decl) (m.Candidate, bool) {
	if !d.Kind.IsFunction() || Excluded(d) {
		return m.Candidate{}, false
	}

	if !d.Instantiation || d.ExplicitSpecialization {
		return m.Candidate{}, false
	}

	tmpl := d.Parent
	if tmpl == nil || tmpl.Kind != m.KindFunctionTemplate {
		return m.Candidate{}, false
	}

	if tmpl.ParentKind() == m.KindClassTemplateSpecialization || tmpl.HasAncestor(isRecord) {
		return m.Candidate{}, false
	}

	return m.Candidate{Rule: m.RuleFunction, Decl: d}, true
}
