package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"reify.dev/pkg/reify/internal/adapter"
	"reify.dev/pkg/reify/internal/controller"
	m "reify.dev/pkg/reify/internal/model"
)

// ErrNoUnits is returned when the given paths contain no translation unit.
var ErrNoUnits = errors.New("no translation units found")

// OutputMode selects where run writes the patched buffers.
type OutputMode int

// Available OutputMode values.
const (
	OutputStdout OutputMode = iota
	OutputInPlace
	OutputDir
	OutputDiff
)

// RunArgs contains the arguments for materializing translation units.
type RunArgs struct {
	Paths     []m.Path
	Exclude   []string
	Threads   uint
	Mode      OutputMode
	OutputDir m.Path
	// Report, when set, is where the run's reports are saved.
	Report m.Path
}

// ListArgs contains the arguments for listing candidates.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
	Threads uint
}

// ViewArgs contains the arguments for browsing edits.
type ViewArgs struct {
	Paths   []m.Path
	Exclude []string
	Threads uint
	// Report, when set, is loaded instead of materializing Paths.
	Report m.Path
}

// Workflow is the top-level entry point used by the CLI.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	adapter.ASTAdapter
	controller.UI
	Materializer
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	astAdapter adapter.ASTAdapter,
	ui controller.UI,
	materializer Materializer,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		ASTAdapter:      astAdapter,
		UI:              ui,
		Materializer:    materializer,
	}
}

// Run materializes every unit and writes the patched buffers in input order.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	if err := w.Start(ctx, controller.WithRunMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	reports, err := w.materializeAll(ctx, args.Paths, args.Exclude, args.Threads)
	if len(reports) == 0 && err != nil {
		return err
	}

	for _, report := range reports {
		if writeErr := w.emit(ctx, args, report); writeErr != nil {
			return writeErr
		}
	}

	if args.Report != "" {
		if saveErr := w.SaveReports(args.Report, reports); saveErr != nil {
			return fmt.Errorf("save reports: %w", saveErr)
		}
	}

	if args.Mode == OutputInPlace || args.Mode == OutputDir {
		w.DisplaySummary(ctx, reports)
	}

	return err
}

func (w *workflow) emit(ctx context.Context, args RunArgs, report m.Report) error {
	switch args.Mode {
	case OutputInPlace:
		if !report.Changed() {
			return nil
		}

		if err := w.WriteFile(report.Path, report.Output, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", report.Path, err)
		}

		slog.Info("Patched in place", "path", report.Path, "edits", len(report.Patched()))
	case OutputDir:
		target := m.Path(filepath.Join(string(args.OutputDir), string(report.Path)))
		if err := w.WriteFile(target, report.Output, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	case OutputDiff:
		if err := w.DisplayDiff(ctx, report); err != nil {
			return fmt.Errorf("display diff: %w", err)
		}
	default:
		if err := w.DisplayOutput(ctx, report); err != nil {
			return fmt.Errorf("display output: %w", err)
		}
	}

	return nil
}

// List materializes every unit without writing and shows the candidates.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	reports, err := w.materializeAll(ctx, args.Paths, args.Exclude, args.Threads)
	if len(reports) == 0 && err != nil {
		w.Close(ctx)
		return err
	}

	if displayErr := w.DisplayCandidates(ctx, reports); displayErr != nil {
		w.Close(ctx)
		slog.Error("Failed to display candidates", "error", displayErr)

		return fmt.Errorf("display: %w", displayErr)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return err
}

// View browses the edits of a fresh run, or of a saved report.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	var (
		reports []m.Report
		err     error
	)

	if args.Report != "" {
		reports, err = w.LoadReports(args.Report)
		if err != nil {
			return fmt.Errorf("load reports: %w", err)
		}
	} else {
		reports, err = w.materializeAll(ctx, args.Paths, args.Exclude, args.Threads)
		if len(reports) == 0 && err != nil {
			return err
		}
	}

	if startErr := w.Start(ctx, controller.WithViewMode()); startErr != nil {
		slog.Error("Failed to start workflow UI", "error", startErr)
		return startErr
	}

	if displayErr := w.DisplayEdits(ctx, reports); displayErr != nil {
		w.Close(ctx)
		return fmt.Errorf("display: %w", displayErr)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return err
}

// materializeAll processes units concurrently, at most threads at a time.
// Each unit is materialized by one goroutine. Reports keep input order; a
// unit that fails is left out and its error is joined into the result.
func (w *workflow) materializeAll(ctx context.Context, paths []m.Path, exclude []string, threads uint) ([]m.Report, error) {
	units, err := w.Get(ctx, paths, exclude...)
	if err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	w.DisplayConcurrencyInfo(ctx, int(threads), len(units))

	results := make([]*m.Report, len(units))

	var (
		errs      []error
		errsMutex sync.Mutex
	)

	var group errgroup.Group
	if threads > 0 {
		group.SetLimit(int(threads))
	}

	for i, path := range units {
		group.Go(func() error {
			report, unitErr := w.materialize(ctx, path)
			if unitErr != nil {
				slog.Error("Failed to materialize unit", "path", path, "error", unitErr)

				errsMutex.Lock()

				errs = append(errs, unitErr)

				errsMutex.Unlock()

				return nil
			}

			results[i] = &report

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	reports := make([]m.Report, 0, len(results))

	for _, report := range results {
		if report != nil {
			reports = append(reports, *report)
		}
	}

	if err := ctx.Err(); err != nil {
		return reports, err
	}

	return reports, errors.Join(errs...)
}

func (w *workflow) materialize(ctx context.Context, path m.Path) (m.Report, error) {
	unit, err := w.Load(ctx, path)
	if err != nil {
		return m.Report{}, fmt.Errorf("load %s: %w", path, err)
	}

	report, err := w.Materialize(ctx, unit)
	if err != nil {
		return m.Report{}, err
	}

	hash, err := w.HashFile(path)
	if err != nil {
		slog.Warn("Failed to hash source", "path", path, "error", err)
	}

	report.Hash = hash

	slog.Debug("Materialized unit", "path", path, "candidates", len(report.Outcomes), "patched", len(report.Patched()))

	return report, nil
}
