package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"

	m "reify.dev/pkg/reify/internal/model"
)

// DefaultDumpSuffix names the pre-generated AST dump stored next to a source.
const DefaultDumpSuffix = ".ast.json"

// DefaultSystemPaths are the header prefixes treated as system headers.
var DefaultSystemPaths = []string{"/usr/include", "/usr/local/include", "/usr/lib", "/opt/homebrew"}

// ASTAdapter provides the resolved declaration tree of a translation unit.
type ASTAdapter interface {
	Load(ctx context.Context, path m.Path) (*m.TranslationUnit, error)
}

// ClangOptions configures the clang front-end.
type ClangOptions struct {
	// Binary is the clang driver executable.
	Binary string
	// Args are extra arguments passed before the source path.
	Args []string
	// SystemPaths are directory prefixes whose headers are excluded.
	SystemPaths []string
	// DumpSuffix, when a file named path+DumpSuffix exists, is read instead
	// of running clang.
	DumpSuffix string
}

// ClangASTAdapter loads translation units through clang's JSON AST dump.
type ClangASTAdapter struct {
	opts ClangOptions
}

// NewClangASTAdapter creates a ClangASTAdapter, filling unset options with defaults.
func NewClangASTAdapter(opts ClangOptions) *ClangASTAdapter {
	if opts.Binary == "" {
		opts.Binary = "clang++"
	}

	if opts.DumpSuffix == "" {
		opts.DumpSuffix = DefaultDumpSuffix
	}

	if opts.SystemPaths == nil {
		opts.SystemPaths = DefaultSystemPaths
	}

	return &ClangASTAdapter{opts: opts}
}

// Load reads the source buffer and its declaration tree.
func (a *ClangASTAdapter) Load(ctx context.Context, path m.Path) (*m.TranslationUnit, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}

	dump, err := a.dump(ctx, path)
	if err != nil {
		return nil, err
	}

	root, err := DecodeClangJSON(bytes.NewReader(dump), DecodeOptions{
		MainFile:    string(path),
		Content:     content,
		SystemPaths: a.opts.SystemPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &m.TranslationUnit{Path: path, Content: content, Root: root}, nil
}

func (a *ClangASTAdapter) dump(ctx context.Context, path m.Path) ([]byte, error) {
	dumpPath := string(path) + a.opts.DumpSuffix

	data, err := os.ReadFile(dumpPath)
	if err == nil {
		slog.Debug("using pre-generated ast dump", "path", dumpPath)
		return data, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read ast dump %s: %w", dumpPath, err)
	}

	args := make([]string, 0, len(a.opts.Args)+4)
	args = append(args, "-Xclang", "-ast-dump=json", "-fsyntax-only")
	args = append(args, a.opts.Args...)
	args = append(args, string(path))

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, a.opts.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running clang", "binary", a.opts.Binary, "args", args)

	if err := cmd.Run(); err != nil {
		// clang still dumps the AST for units with recoverable errors.
		if stdout.Len() == 0 {
			return nil, fmt.Errorf("run %s on %s: %w: %s", a.opts.Binary, path, err, bytes.TrimSpace(stderr.Bytes()))
		}

		slog.Warn("clang reported errors", "path", path, "error", err)
	}

	return stdout.Bytes(), nil
}
