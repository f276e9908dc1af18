package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "reify.dev/pkg/reify/internal/model"
)

func TestClangASTAdapter_LoadFromDump(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "main.cpp")
	writeTestFile(t, source, variableSource)

	b := newASTBuilder(source, variableSource)
	dump := b.unit(
		b.decl("VarTemplateDecl", "v", b.loc("template", 8), b.loc("};", 1),
			b.decl("TemplateTypeParmDecl", "T", b.loc("typename T", 8), b.loc("T>", 1)),
			b.decl("VarDecl", "v", b.loc("constexpr", 9), b.loc("};", 1)),
		),
	)
	require.NoError(t, os.WriteFile(source+DefaultDumpSuffix, dump, 0o600))

	ast := NewClangASTAdapter(ClangOptions{Binary: "reify-test-no-such-clang"})

	unit, err := ast.Load(context.Background(), m.Path(source))
	require.NoError(t, err)
	assert.Equal(t, m.Path(source), unit.Path)
	assert.Equal(t, []byte(variableSource), unit.Content)
	require.Len(t, unit.Root.Children, 1)

	tmpl := unit.Root.Children[0]
	assert.Equal(t, m.KindVarTemplate, tmpl.Kind)
	assert.Zero(t, tmpl.Origin)
}

func TestClangASTAdapter_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing source", func(t *testing.T) {
		ast := NewClangASTAdapter(ClangOptions{})

		_, err := ast.Load(context.Background(), m.Path(filepath.Join(dir, "missing.cpp")))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("clang binary not found", func(t *testing.T) {
		source := filepath.Join(dir, "nodump.cpp")
		writeTestFile(t, source, "int x;\n")

		ast := NewClangASTAdapter(ClangOptions{Binary: "reify-test-no-such-clang"})

		_, err := ast.Load(context.Background(), m.Path(source))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reify-test-no-such-clang")
	})

	t.Run("corrupt dump", func(t *testing.T) {
		source := filepath.Join(dir, "corrupt.cpp")
		writeTestFile(t, source, "int x;\n")
		writeTestFile(t, source+".dump", "not json")

		ast := NewClangASTAdapter(ClangOptions{DumpSuffix: ".dump"})

		_, err := ast.Load(context.Background(), m.Path(source))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode clang ast")
	})
}

func TestNewClangASTAdapter_Defaults(t *testing.T) {
	ast := NewClangASTAdapter(ClangOptions{})

	assert.Equal(t, "clang++", ast.opts.Binary)
	assert.Equal(t, DefaultDumpSuffix, ast.opts.DumpSuffix)
	assert.Equal(t, DefaultSystemPaths, ast.opts.SystemPaths)
}
