package domain_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "reify.dev/pkg/reify/internal/adapter/mocks"
	controllermocks "reify.dev/pkg/reify/internal/controller/mocks"
	domain "reify.dev/pkg/reify/internal/domain"
	domainmocks "reify.dev/pkg/reify/internal/domain/mocks"
	m "reify.dev/pkg/reify/internal/model"
)

type workflowMocks struct {
	fs           *adaptermocks.MockSourceFSAdapter
	store        *adaptermocks.MockReportStore
	ast          *adaptermocks.MockASTAdapter
	ui           *controllermocks.MockUI
	materializer *domainmocks.MockMaterializer
}

func newWorkflowMocks(t *testing.T) (*workflowMocks, domain.Workflow) {
	mocks := &workflowMocks{
		fs:           adaptermocks.NewMockSourceFSAdapter(t),
		store:        adaptermocks.NewMockReportStore(t),
		ast:          adaptermocks.NewMockASTAdapter(t),
		ui:           controllermocks.NewMockUI(t),
		materializer: domainmocks.NewMockMaterializer(t),
	}

	return mocks, domain.NewWorkflow(mocks.fs, mocks.store, mocks.ast, mocks.ui, mocks.materializer)
}

// expectUnit wires one unit through Load, Materialize and HashFile.
func (w *workflowMocks) expectUnit(path m.Path, changed bool) m.Report {
	original := []byte("int x;\n")
	output := original

	if changed {
		output = []byte("int x;\n\ntemplate<>\nint f<int>();\n")
	}

	unit := &m.TranslationUnit{Path: path, Content: original, Root: &m.Decl{Kind: m.KindTranslationUnit}}
	report := m.Report{Path: path, Original: original, Output: output}

	w.ast.On("Load", mock.Anything, path).Return(unit, nil).Once()
	w.materializer.On("Materialize", mock.Anything, unit).Return(report, nil).Once()
	w.fs.On("HashFile", path).Return("hash-"+string(path), nil).Once()

	report.Hash = "hash-" + string(path)

	return report
}

func (w *workflowMocks) expectSources(paths ...m.Path) {
	w.fs.On("Get", mock.Anything, []m.Path{"src"}, mock.Anything).Return(paths, nil).Once()
	w.ui.On("DisplayConcurrencyInfo", mock.Anything, mock.Anything, len(paths)).Return().Once()
}

func TestWorkflow_Run_Stdout(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()
	mocks.expectSources("a.cpp", "b.cpp", "c.cpp")

	want := []m.Report{
		mocks.expectUnit("a.cpp", true),
		mocks.expectUnit("b.cpp", false),
		mocks.expectUnit("c.cpp", true),
	}

	var got []m.Report

	mocks.ui.On("DisplayOutput", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = append(got, args.Get(1).(m.Report))
	}).Return(nil).Times(3)

	// Act
	err := wf.Run(context.Background(), domain.RunArgs{Paths: []m.Path{"src"}, Threads: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, want, got, "reports keep input order")
}

func TestWorkflow_Run_InPlace(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()
	mocks.expectSources("a.cpp", "b.cpp")

	changed := mocks.expectUnit("a.cpp", true)
	unchanged := mocks.expectUnit("b.cpp", false)

	mocks.fs.On("WriteFile", m.Path("a.cpp"), changed.Output, os.FileMode(0o644)).Return(nil).Once()
	mocks.store.On("SaveReports", m.Path("reify-report.yaml"), []m.Report{changed, unchanged}).Return(nil).Once()
	mocks.ui.On("DisplaySummary", mock.Anything, []m.Report{changed, unchanged}).Return().Once()

	// Act
	err := wf.Run(context.Background(), domain.RunArgs{
		Paths:  []m.Path{"src"},
		Mode:   domain.OutputInPlace,
		Report: "reify-report.yaml",
	})

	// Assert
	require.NoError(t, err)
	mocks.fs.AssertNotCalled(t, "WriteFile", m.Path("b.cpp"), mock.Anything, mock.Anything)
}

func TestWorkflow_Run_OutputDir(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()
	mocks.expectSources("src/a.cpp")

	report := mocks.expectUnit("src/a.cpp", false)
	target := m.Path(filepath.Join("out", "src", "a.cpp"))

	mocks.fs.On("WriteFile", target, report.Output, os.FileMode(0o644)).Return(nil).Once()
	mocks.ui.On("DisplaySummary", mock.Anything, mock.Anything).Return().Once()

	// Act
	err := wf.Run(context.Background(), domain.RunArgs{Paths: []m.Path{"src"}, Mode: domain.OutputDir, OutputDir: "out"})

	// Assert
	require.NoError(t, err)
}

func TestWorkflow_Run_Diff(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()
	mocks.expectSources("a.cpp")

	report := mocks.expectUnit("a.cpp", true)
	displayErr := errors.New("broken pipe")

	mocks.ui.On("DisplayDiff", mock.Anything, report).Return(displayErr).Once()

	// Act
	err := wf.Run(context.Background(), domain.RunArgs{Paths: []m.Path{"src"}, Mode: domain.OutputDiff})

	// Assert
	require.ErrorIs(t, err, displayErr)
}

func TestWorkflow_Run_StartError(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)
	startErr := errors.New("start failed")

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(startErr).Once()

	// Act
	err := wf.Run(context.Background(), domain.RunArgs{Paths: []m.Path{"src"}})

	// Assert
	assert.ErrorIs(t, err, startErr)
}

func TestWorkflow_Run_NoUnits(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()
	mocks.fs.On("Get", mock.Anything, []m.Path{"src"}, mock.Anything).Return([]m.Path{}, nil).Once()

	// Act
	err := wf.Run(context.Background(), domain.RunArgs{Paths: []m.Path{"src"}})

	// Assert
	assert.ErrorIs(t, err, domain.ErrNoUnits)
}

func TestWorkflow_Run_GetSourcesError(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)
	getErr := errors.New("get sources failed")

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()
	mocks.fs.On("Get", mock.Anything, []m.Path{"src"}, mock.Anything).Return(nil, getErr).Once()

	// Act
	err := wf.Run(context.Background(), domain.RunArgs{Paths: []m.Path{"src"}})

	// Assert
	assert.ErrorIs(t, err, getErr)
}

func TestWorkflow_Run_UnitFailure(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)
	loadErr := errors.New("clang exited with status 1")

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()
	mocks.expectSources("a.cpp", "broken.cpp")

	report := mocks.expectUnit("a.cpp", true)

	mocks.ast.On("Load", mock.Anything, m.Path("broken.cpp")).Return(nil, loadErr).Once()
	mocks.ui.On("DisplayOutput", mock.Anything, report).Return(nil).Once()

	// Act
	err := wf.Run(context.Background(), domain.RunArgs{Paths: []m.Path{"src"}, Threads: 1})

	// Assert
	require.ErrorIs(t, err, loadErr)
	assert.Contains(t, err.Error(), "broken.cpp")
}

func TestWorkflow_List(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.expectSources("a.cpp")

	report := mocks.expectUnit("a.cpp", true)

	mocks.ui.On("DisplayCandidates", mock.Anything, []m.Report{report}).Return(nil).Once()
	mocks.ui.On("Wait", mock.Anything).Return().Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()

	// Act
	err := wf.List(context.Background(), domain.ListArgs{Paths: []m.Path{"src"}})

	// Assert
	require.NoError(t, err)
	mocks.fs.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflow_List_DisplayError(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)
	displayErr := errors.New("display failed")

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.expectSources("a.cpp")
	mocks.expectUnit("a.cpp", false)

	mocks.ui.On("DisplayCandidates", mock.Anything, mock.Anything).Return(displayErr).Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()

	// Act
	err := wf.List(context.Background(), domain.ListArgs{Paths: []m.Path{"src"}})

	// Assert
	assert.ErrorIs(t, err, displayErr)
}

func TestWorkflow_View_FromReport(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)
	reports := []m.Report{{Path: "a.cpp", Outcomes: []m.Outcome{{Rule: m.RuleFunction, Decl: "f<int>", Status: m.Patched}}}}

	mocks.store.On("LoadReports", m.Path("reify-report.yaml")).Return(reports, nil).Once()
	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("DisplayEdits", mock.Anything, reports).Return(nil).Once()
	mocks.ui.On("Wait", mock.Anything).Return().Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()

	// Act
	err := wf.View(context.Background(), domain.ViewArgs{Report: "reify-report.yaml"})

	// Assert
	require.NoError(t, err)
	mocks.fs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflow_View_Materialize(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)

	mocks.expectSources("a.cpp")
	report := mocks.expectUnit("a.cpp", true)

	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.On("DisplayEdits", mock.Anything, []m.Report{report}).Return(nil).Once()
	mocks.ui.On("Wait", mock.Anything).Return().Once()
	mocks.ui.On("Close", mock.Anything).Return().Once()

	// Act
	err := wf.View(context.Background(), domain.ViewArgs{Paths: []m.Path{"src"}})

	// Assert
	require.NoError(t, err)
}

func TestWorkflow_View_LoadError(t *testing.T) {
	// Arrange
	mocks, wf := newWorkflowMocks(t)
	loadErr := errors.New("no such file")

	mocks.store.On("LoadReports", m.Path("missing.yaml")).Return(nil, loadErr).Once()

	// Act
	err := wf.View(context.Background(), domain.ViewArgs{Report: "missing.yaml"})

	// Assert
	assert.ErrorIs(t, err, loadErr)
}
