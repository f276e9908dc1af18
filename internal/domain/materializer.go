// Package domain contains the materialization workflow: site selection, patching and the per-unit pipeline.
package domain

import (
	"context"
	"fmt"
	"log/slog"

	"reify.dev/pkg/reify/internal/adapter"
	"reify.dev/pkg/reify/internal/domain/rules"
	m "reify.dev/pkg/reify/internal/model"
)

// BlockSeparator precedes every rendered block so it stands apart from the
// line it follows.
const BlockSeparator = "\n\n"

// Materializer turns one translation unit into its patched form.
type Materializer interface {
	Materialize(ctx context.Context, unit *m.TranslationUnit) (m.Report, error)
}

type materializer struct {
	selector    SiteSelector
	synthesizer adapter.Synthesizer
}

// NewMaterializer constructs a Materializer from a lexical helper and a synthesizer.
func NewMaterializer(lexer adapter.LexicalAdapter, synthesizer adapter.Synthesizer) Materializer {
	return &materializer{
		selector:    NewSiteSelector(lexer),
		synthesizer: synthesizer,
	}
}

// Materialize runs match, site selection, synthesis and patching over unit in
// a single pass. Skipped candidates are recorded in the report; only a broken
// edit set or a cancelled context fails the unit.
func (mt *materializer) Materialize(ctx context.Context, unit *m.TranslationUnit) (m.Report, error) {
	report := m.Report{Path: unit.Path, Original: unit.Content}
	patcher := NewPatcher(unit.Content)
	seqs := make(map[int]int)

	candidates := rules.Match(unit.Root)
	slog.Debug("Matched candidates", "path", unit.Path, "count", len(candidates))

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome := m.Outcome{
			Rule:   candidate.Rule,
			DeclID: candidate.Decl.ID,
			Decl:   candidate.Decl.Label(),
			Kind:   candidate.Decl.Kind.String(),
			Status: m.Dropped,
		}

		edit, reason, err := mt.edit(ctx, unit, candidate)
		if err != nil {
			return report, err
		}

		if reason != "" {
			outcome.Reason = reason
			slog.Debug("Candidate skipped", "path", unit.Path, "rule", candidate.Rule, "decl", outcome.Decl, "reason", reason)
		} else {
			seq, err := patcher.Add(edit)
			if err != nil {
				return report, fmt.Errorf("%s: %s %s: %w", unit.Path, candidate.Rule, outcome.Decl, err)
			}

			outcome.Status = m.Patched
			outcome.Edit = &edit
			seqs[len(report.Outcomes)] = seq
		}

		report.Outcomes = append(report.Outcomes, outcome)
	}

	output, err := patcher.Apply()
	if err != nil {
		slog.Error("Failed to apply edits", "path", unit.Path, "error", err)
		return report, fmt.Errorf("patch %s: %w", unit.Path, err)
	}

	report.Output = output

	for i, seq := range seqs {
		if offset, ok := patcher.OutputOffset(seq); ok {
			report.Outcomes[i].Line = adapter.LineAt(output, offset+len(BlockSeparator))
		}
	}

	return report, nil
}

// edit resolves the placement and the rendered text of one candidate. A
// non-empty reason means the candidate is dropped.
func (mt *materializer) edit(ctx context.Context, unit *m.TranslationUnit, candidate m.Candidate) (m.Edit, m.SkipReason, error) {
	placement := mt.selector.Select(candidate, unit.Content)

	if skipped, ok := placement.(m.Skipped); ok {
		return m.Edit{}, skipped.Reason, nil
	}

	text, err := mt.synthesizer.Synthesize(ctx, unit, candidate.Decl)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.Edit{}, "", ctxErr
		}

		slog.Warn("Cannot synthesize declaration", "path", unit.Path, "decl", candidate.Decl.Label(), "error", err)

		return m.Edit{}, m.SkipSynthesisFailed, nil
	}

	text = BlockSeparator + text

	switch p := placement.(type) {
	case m.InsertAt:
		return m.Insert(p.At, text), "", nil
	case m.ReplaceRange:
		return m.Replace(p.Range, text), "", nil
	default:
		return m.Edit{}, "", fmt.Errorf("unexpected placement %T", placement)
	}
}
