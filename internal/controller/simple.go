package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "reify.dev/pkg/reify/internal/model"
)

// SimpleUI implements UI using the cobra command's output streams.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayConcurrencyInfo reports the worker count on stderr so that patched
// output on stdout stays clean.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, threads int, units int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if threads <= 0 {
		threads = units
	}

	s.errorf("Materializing %d unit(s) with %d worker(s)\n", units, threads)
}

// DisplayCandidates prints one table row per candidate.
func (s *SimpleUI) DisplayCandidates(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderCandidateTable(reports))

	return nil
}

func renderCandidateTable(reports []m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Rule", "Declaration", "Status", "Line"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
	})

	total, patched := 0, 0

	for _, report := range reports {
		for _, outcome := range report.Outcomes {
			table.Append([]string{
				string(report.Path),
				string(outcome.Rule),
				outcome.Decl,
				formatStatus(outcome),
				formatLine(outcome),
			})

			total++

			if outcome.Status == m.Patched {
				patched++
			}
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(reports)),
		"",
		fmt.Sprintf("%d candidate(s)", total),
		fmt.Sprintf("%d patched", patched),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayOutput writes the patched buffer unchanged.
func (s *SimpleUI) DisplayOutput(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.cmd.OutOrStdout().Write(report.Output)

	return err
}

// DisplayDiff writes a unified diff between the original and patched buffers.
func (s *SimpleUI) DisplayDiff(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !report.Changed() {
		return nil
	}

	diff, err := UnifiedDiff(report)
	if err != nil {
		return err
	}

	s.printf("%s", diff)

	return nil
}

// UnifiedDiff renders the report's change as a unified diff with three
// lines of context.
func UnifiedDiff(report m.Report) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(report.Original)),
		B:        difflib.SplitLines(string(report.Output)),
		FromFile: "a/" + string(report.Path),
		ToFile:   "b/" + string(report.Path),
		Context:  3,
	})
}

// DisplaySummary prints per-rule counts of patched and skipped candidates.
func (s *SimpleUI) DisplaySummary(ctx context.Context, reports []m.Report) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(reports))
}

func renderSummaryTable(reports []m.Report) string {
	rules := []m.RuleID{m.RuleFunction, m.RuleClassWithPrimary, m.RuleClassWithoutPrimary, m.RuleVariable}
	patched := make(map[m.RuleID]int)
	skipped := make(map[m.RuleID]int)

	for _, report := range reports {
		for _, outcome := range report.Outcomes {
			if outcome.Status == m.Patched {
				patched[outcome.Rule]++
			} else {
				skipped[outcome.Rule]++
			}
		}
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Kind", "Patched", "Skipped"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	totalPatched, totalSkipped := 0, 0

	for _, rule := range rules {
		table.Append([]string{
			string(rule),
			rule.Description(),
			fmt.Sprintf("%d", patched[rule]),
			fmt.Sprintf("%d", skipped[rule]),
		})

		totalPatched += patched[rule]
		totalSkipped += skipped[rule]
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(reports)),
		"",
		fmt.Sprintf("%d", totalPatched),
		fmt.Sprintf("%d", totalSkipped),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayEdits prints every edit with its location and rendered text.
func (s *SimpleUI) DisplayEdits(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, report := range reports {
		for _, outcome := range report.Outcomes {
			s.printf("%s\n", formatEditHeader(report.Path, outcome))

			if outcome.Edit != nil {
				s.printf("%s\n\n", trimBlock(outcome.Edit.Text))
			}
		}
	}

	return nil
}

func formatEditHeader(path m.Path, outcome m.Outcome) string {
	header := fmt.Sprintf("%s [%s] %s: %s", path, outcome.Rule, outcome.Decl, formatStatus(outcome))

	if outcome.Edit != nil {
		header += fmt.Sprintf(" (%s [%d,%d)", outcome.Edit.Op, outcome.Edit.Range.Begin, outcome.Edit.Range.End)
		if outcome.Line > 0 {
			header += fmt.Sprintf(", line %d", outcome.Line)
		}

		header += ")"
	}

	return header
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) errorf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}

func formatStatus(outcome m.Outcome) string {
	if outcome.Status == m.Patched || outcome.Reason == "" {
		return outcome.Status.String()
	}

	return fmt.Sprintf("%s (%s)", outcome.Status, outcome.Reason)
}

func formatLine(outcome m.Outcome) string {
	if outcome.Line == 0 {
		return "-"
	}

	return fmt.Sprintf("%d", outcome.Line)
}

// trimBlock drops the separator that precedes every rendered block.
func trimBlock(text string) string {
	for len(text) > 0 && text[0] == '\n' {
		text = text[1:]
	}

	return text
}
