package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "reify.dev/pkg/reify/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	patchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle = lipgloss.NewStyle().Faint(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const banner = "reify - template materializer"

// TUI implements UI using Bubble Tea for the interactive list and view
// screens. Non-interactive output goes through the embedded SimpleUI.
type TUI struct {
	*SimpleUI
	output io.Writer
	input  io.Reader
	mode   StartMode
}

// NewTUI creates a new TUI writing to the command's output.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		SimpleUI: NewSimpleUI(cmd),
		output:   cmd.OutOrStdout(),
		input:    cmd.InOrStdin(),
	}
}

// Start records the mode the workflow runs in.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mode = newStartConfig(options...).Mode()

	return nil
}

// DisplayCandidates shows the candidate list, paginated when it does not fit.
func (p *TUI) DisplayCandidates(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newCandidateListModel(reports)
	model.width, model.height = p.terminalSize()

	// If list is small, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(p.output, model.View())
		return err
	}

	return p.run(ctx, model)
}

// DisplayEdits opens a scrollable view over every edit.
func (p *TUI) DisplayEdits(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.run(ctx, newEditViewModel(reports))
}

func (p *TUI) run(ctx context.Context, model tea.Model) error {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run %s view: %w", modeName(p.mode), err)
	}

	return nil
}

func (p *TUI) terminalSize() (int, int) {
	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			return width, height
		}
	}

	return 0, 0
}

func modeName(mode StartMode) string {
	switch mode {
	case ModeList:
		return "list"
	case ModeView:
		return "edit"
	default:
		return "run"
	}
}

// candidateRow is one line of the candidate list.
type candidateRow struct {
	path    string
	outcome m.Outcome
}

// candidateListModel is the Bubble Tea model listing candidates page by page.
type candidateListModel struct {
	rows     []candidateRow
	files    int
	patched  int
	height   int
	width    int
	offset   int // Current scroll offset
	quitting bool
}

func newCandidateListModel(reports []m.Report) candidateListModel {
	model := candidateListModel{files: len(reports)}

	for _, report := range reports {
		for _, outcome := range report.Outcomes {
			model.rows = append(model.rows, candidateRow{path: string(report.Path), outcome: outcome})

			if outcome.Status == m.Patched {
				model.patched++
			}
		}
	}

	return model
}

func (clm candidateListModel) Init() tea.Cmd {
	return nil
}

func (clm candidateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		clm.height = msg.Height
		clm.width = msg.Width

		return clm, nil

	case tea.KeyMsg:
		return clm.handleKeyPress(msg)
	}

	return clm, nil
}

//nolint:cyclop,exhaustive // Key handling requires multiple cases for UI navigation
func (clm candidateListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		clm.quitting = true
		return clm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		clm.quitting = true
		return clm, tea.Quit

	case "down", "j":
		clm.offset = min(clm.offset+1, clm.maxOffset())

	case "up", "k":
		clm.offset = max(clm.offset-1, 0)

	case "g", "home":
		clm.offset = 0

	case "G", "end":
		clm.offset = clm.maxOffset()

	case "d", "pgdown":
		clm.offset = min(clm.offset+clm.itemsPerPage(), clm.maxOffset())

	case "u", "pgup":
		clm.offset = max(clm.offset-clm.itemsPerPage(), 0)
	}

	return clm, nil
}

// itemsPerPage calculates how many rows fit on screen.
func (clm candidateListModel) itemsPerPage() int {
	if clm.height == 0 {
		return 10
	}

	// Header 2, title 2, totals 2, footer 3, top margin 1.
	available := clm.height - 10
	if available < 1 {
		return 1
	}

	return available
}

// maxOffset returns the maximum scroll offset.
func (clm candidateListModel) maxOffset() int {
	return max(len(clm.rows)-clm.itemsPerPage(), 0)
}

// needsPagination returns true if the list is too large to fit on screen.
func (clm candidateListModel) needsPagination() bool {
	if len(clm.rows) == 0 {
		return false
	}

	return len(clm.rows) > clm.itemsPerPage() && clm.height > 0
}

func (clm candidateListModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(banner))
	b.WriteString("\n\n")

	if len(clm.rows) == 0 {
		b.WriteString("  No candidates found\n")
		return b.String()
	}

	b.WriteString("  candidates:\n\n")

	start, end := 0, len(clm.rows)

	paginate := clm.needsPagination()
	if paginate {
		start = min(clm.offset, len(clm.rows)-1)
		end = min(start+clm.itemsPerPage(), len(clm.rows))
	}

	for _, row := range clm.rows[start:end] {
		fmt.Fprintf(&b, "  %s\n", renderOutcomeLine(row.path, row.outcome))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total: %d candidate(s), %d patched, across %d file(s)\n", len(clm.rows), clm.patched, clm.files)

	if paginate {
		perPage := clm.itemsPerPage()
		currentPage := (clm.offset / perPage) + 1
		totalPages := (len(clm.rows) + perPage - 1) / perPage

		b.WriteString("\n")
		fmt.Fprintf(&b, "  Page %d/%d | Showing %d-%d of %d\n", currentPage, totalPages, start+1, end, len(clm.rows))
		b.WriteString(helpStyle.Render("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit"))
		b.WriteString("\n")
	}

	return b.String()
}

func renderOutcomeLine(path string, outcome m.Outcome) string {
	line := fmt.Sprintf("%s [%s] %s: %s", path, outcome.Rule, outcome.Decl, formatStatus(outcome))
	if outcome.Line > 0 {
		line += fmt.Sprintf(" @%d", outcome.Line)
	}

	if outcome.Status == m.Patched {
		return patchedStyle.Render(line)
	}

	return skippedStyle.Render(line)
}

// editViewModel pages through every edit in a viewport. n and p jump
// between edits.
type editViewModel struct {
	viewport viewport.Model
	content  string
	anchors  []int // first content line of each edit
	current  int
	edits    int
	ready    bool
	quitting bool
}

const editViewChrome = 4

func newEditViewModel(reports []m.Report) editViewModel {
	var (
		b       strings.Builder
		anchors []int
		line    int
		edits   int
	)

	write := func(text string) {
		b.WriteString(text)
		b.WriteString("\n")
		line += strings.Count(text, "\n") + 1
	}

	for _, report := range reports {
		for _, outcome := range report.Outcomes {
			anchors = append(anchors, line)

			write(renderOutcomeLine(string(report.Path), outcome))

			if outcome.Edit != nil {
				edits++

				write(helpStyle.Render(fmt.Sprintf("%s [%d,%d)", outcome.Edit.Op, outcome.Edit.Range.Begin, outcome.Edit.Range.End)))
				write(trimBlock(outcome.Edit.Text))
			}

			write("")
		}
	}

	if len(anchors) == 0 {
		write("No candidates found")
	}

	return editViewModel{content: b.String(), anchors: anchors, edits: edits}
}

func (evm editViewModel) Init() tea.Cmd {
	return nil
}

func (evm editViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-editViewChrome, 1)

		if !evm.ready {
			evm.viewport = viewport.New(msg.Width, height)
			evm.viewport.SetContent(evm.content)
			evm.ready = true
		} else {
			evm.viewport.Width = msg.Width
			evm.viewport.Height = height
		}

		return evm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			evm.quitting = true
			return evm, tea.Quit
		case "n", "tab":
			return evm.jump(evm.current + 1), nil
		case "p", "shift+tab":
			return evm.jump(evm.current - 1), nil
		}
	}

	var cmd tea.Cmd

	evm.viewport, cmd = evm.viewport.Update(msg)

	return evm, cmd
}

func (evm editViewModel) jump(index int) editViewModel {
	if len(evm.anchors) == 0 {
		return evm
	}

	evm.current = min(max(index, 0), len(evm.anchors)-1)

	if evm.ready {
		evm.viewport.SetYOffset(evm.anchors[evm.current])
	}

	return evm
}

func (evm editViewModel) View() string {
	if !evm.ready {
		return "\n  Initializing..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s | %d edit(s)", banner, evm.edits)))
	b.WriteString("\n\n")
	b.WriteString(evm.viewport.View())
	b.WriteString("\n")

	position := 0
	if len(evm.anchors) > 0 {
		position = evm.current + 1
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d/%d | %3.f%% | n/p: next/prev | ↑/↓: scroll | q: quit",
		position, len(evm.anchors), evm.viewport.ScrollPercent()*100)))

	return b.String()
}
