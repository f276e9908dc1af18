package domain

import (
	"log/slog"

	"reify.dev/pkg/reify/internal/adapter"
	m "reify.dev/pkg/reify/internal/model"
)

// SiteSelector decides where the rendered block of a candidate goes.
type SiteSelector interface {
	Select(candidate m.Candidate, src []byte) m.Placement
}

type siteSelector struct {
	lexer adapter.LexicalAdapter
}

// NewSiteSelector constructs a SiteSelector resolving statement ends with lexer.
func NewSiteSelector(lexer adapter.LexicalAdapter) SiteSelector {
	return &siteSelector{lexer: lexer}
}

// Select returns InsertAt or ReplaceRange in original-buffer coordinates, or
// Skipped when the candidate's precondition does not hold.
func (s *siteSelector) Select(candidate m.Candidate, src []byte) m.Placement {
	d := candidate.Decl

	switch candidate.Rule {
	case m.RuleFunction:
		if !d.HasBody && d.Kind != m.KindDeductionGuide {
			return m.Skipped{Reason: m.SkipNoBody}
		}

		eos, ok := s.endOfStatement(src, d)
		if !ok {
			return m.Skipped{Reason: m.SkipAnchorUnresolved}
		}

		return m.InsertAt{At: onePast(eos, src)}

	case m.RuleClassWithPrimary:
		if !d.HasDefinition {
			return m.Skipped{Reason: m.SkipNoDefinition}
		}

		if candidate.Primary == nil {
			return m.Skipped{Reason: m.SkipAnchorUnresolved}
		}

		// Anchored after the primary template, never after the specialization.
		eos, ok := s.endOfStatement(src, candidate.Primary)
		if !ok {
			return m.Skipped{Reason: m.SkipAnchorUnresolved}
		}

		return m.InsertAt{At: eos}

	case m.RuleClassWithoutPrimary:
		if !d.HasDefinition {
			return m.Skipped{Reason: m.SkipNoDefinition}
		}

		return m.ReplaceRange{Range: d.Range}

	case m.RuleVariable:
		eos, ok := s.endOfStatement(src, d)
		if !ok {
			return m.Skipped{Reason: m.SkipAnchorUnresolved}
		}

		return m.ReplaceRange{Range: m.Range{Begin: d.Range.Begin, End: onePast(eos, src)}}
	}

	slog.Error("Unknown rule", "rule", candidate.Rule, "decl", d.Label())

	return m.Skipped{Reason: m.SkipAnchorUnresolved}
}

func (s *siteSelector) endOfStatement(src []byte, d *m.Decl) (int, bool) {
	eos, err := s.lexer.EndOfStatementAfter(src, d.EndLoc())
	if err != nil {
		slog.Debug("Cannot resolve end of statement", "decl", d.Label(), "offset", d.EndLoc(), "error", err)
		return 0, false
	}

	return eos, true
}

// onePast returns the location one character past loc, clamped to the buffer.
func onePast(loc int, src []byte) int {
	if loc >= len(src) {
		return len(src)
	}

	return loc + 1
}
