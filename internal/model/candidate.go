package model

// RuleID identifies the matcher rule that produced a candidate.
type RuleID string

const (
	// RuleFunction matches plain function template instantiations.
	RuleFunction RuleID = "F"
	// RuleClassWithPrimary matches class specializations under their primary template.
	RuleClassWithPrimary RuleID = "C1"
	// RuleClassWithoutPrimary matches explicitly requested class instantiations.
	RuleClassWithoutPrimary RuleID = "C2"
	// RuleVariable matches variable templates.
	RuleVariable RuleID = "V"
)

// Description returns a short human readable name for the rule.
func (r RuleID) Description() string {
	switch r {
	case RuleFunction:
		return "function instantiation"
	case RuleClassWithPrimary:
		return "class specialization"
	case RuleClassWithoutPrimary:
		return "explicit class instantiation"
	case RuleVariable:
		return "variable template"
	}

	return "unknown"
}

// Candidate is a declaration bound by a matcher rule.
type Candidate struct {
	Rule RuleID
	Decl *Decl
	// Primary is the primary template declaration, bound by RuleClassWithPrimary only.
	Primary *Decl
}

// SkipReason explains why a candidate produced no edit.
type SkipReason string

const (
	// SkipNoBody is used for function instantiations without a body.
	SkipNoBody SkipReason = "no body"
	// SkipNoDefinition is used for class specializations that are only declared.
	SkipNoDefinition SkipReason = "no definition"
	// SkipAnchorUnresolved is used when the end of the statement cannot be located.
	SkipAnchorUnresolved SkipReason = "anchor unresolved"
	// SkipSynthesisFailed is used when the declaration cannot be rendered.
	SkipSynthesisFailed SkipReason = "synthesis failed"
)

// Placement is the site selected for a candidate: InsertAt, ReplaceRange or Skipped.
type Placement interface {
	placement()
}

// InsertAt inserts the rendered block at an original-buffer offset.
type InsertAt struct {
	At int
}

// ReplaceRange replaces an original-buffer range with the rendered block.
type ReplaceRange struct {
	Range Range
}

// Skipped drops the candidate without an edit.
type Skipped struct {
	Reason SkipReason
}

func (InsertAt) placement()     {}
func (ReplaceRange) placement() {}
func (Skipped) placement()      {}
