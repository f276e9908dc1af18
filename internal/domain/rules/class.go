package rules

import (
	m "reify.dev/pkg/reify/internal/model"
)

// MatchClassSpecialization binds class template specializations. The
// parent link decides the rule: a specialization hanging off its primary
// template is RuleClassWithPrimary, anything else is a candidate for
// RuleClassWithoutPrimary. One switch keeps the two rules disjoint.
func MatchClassSpecialization(d *m.Decl) (m.Candidate, bool) {
	if d.Kind != m.KindClassTemplateSpecialization || Excluded(d) {
		return m.Candidate{}, false
	}

	switch primary := primaryTemplate(d); {
	case primary != nil:
		if d.HasAncestor(isRecord) {
			return m.Candidate{}, false
		}

		return m.Candidate{Rule: m.RuleClassWithPrimary, Decl: d, Primary: primary}, true
	default:
		if d.ExplicitSpecialization {
			return m.Candidate{}, false
		}

		return m.Candidate{Rule: m.RuleClassWithoutPrimary, Decl: d}, true
	}
}

// primaryTemplate returns the class template d is structurally declared under.
func primaryTemplate(d *m.Decl) *m.Decl {
	if d.ParentKind() != m.KindClassTemplate {
		return nil
	}

	return d.Parent
}
