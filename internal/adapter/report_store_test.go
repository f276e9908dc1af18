package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "reify.dev/pkg/reify/internal/model"
)

func TestYAMLReportStore_SaveAndLoad(t *testing.T) {
	store := NewYAMLReportStore()
	path := m.Path(filepath.Join(t.TempDir(), "reports", "reify.yaml"))

	edit := m.Insert(42, "\n\ntemplate<>\nint twice<int>(int v) { return v + v; }")
	reports := []m.Report{
		{
			Path: "main.cpp",
			Hash: "abc",
			Outcomes: []m.Outcome{
				{Rule: m.RuleFunction, DeclID: "0x2", Decl: "twice<int>", Kind: "function", Status: m.Patched, Edit: &edit, Line: 4},
				{Rule: m.RuleClassWithPrimary, Decl: "Box<int>", Kind: "class-template-specialization", Status: m.Dropped, Reason: m.SkipNoDefinition},
			},
			Output: []byte("dropped on save"),
		},
	}

	require.NoError(t, store.SaveReports(path, reports))

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Contains(t, string(data), "status: patched")
	assert.Contains(t, string(data), "status: skipped")
	assert.Contains(t, string(data), "reason: no definition")
	assert.Contains(t, string(data), `text: "\n\ntemplate<>\n`)

	loaded, err := store.LoadReports(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, m.Path("main.cpp"), got.Path)
	assert.Nil(t, got.Output)
	require.Len(t, got.Outcomes, 2)
	assert.Equal(t, reports[0].Outcomes[0], got.Outcomes[0])
	require.NotNil(t, got.Outcomes[0].Edit)
	assert.Equal(t, edit.Text, got.Outcomes[0].Edit.Text)
	assert.Equal(t, edit.Delta(), got.Outcomes[0].Edit.Delta())
	assert.Equal(t, m.Dropped, got.Outcomes[1].Status)
	assert.Equal(t, m.SkipNoDefinition, got.Outcomes[1].Reason)
	assert.Nil(t, got.Outcomes[1].Edit)
}

func TestYAMLReportStore_LoadErrors(t *testing.T) {
	store := NewYAMLReportStore()
	dir := t.TempDir()

	_, err := store.LoadReports(m.Path(filepath.Join(dir, "missing.yaml")))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- path: [unterminated\n"), 0o600))

	_, err = store.LoadReports(m.Path(bad))
	assert.Error(t, err)
}
