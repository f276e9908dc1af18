// Package adapter contains the infrastructure adapters used by the reify domain:
// the clang front-end, the lexical helper, the synthesizer, the filesystem and
// the report store.
package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "reify.dev/pkg/reify/internal/model"
)

// SourceExtensions are the file extensions treated as C++ translation units.
var SourceExtensions = []string{".cpp", ".cc", ".cxx", ".c++", ".C"}

// SourceFSAdapter abstracts the filesystem operations the workflow relies on,
// so the domain can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get expands path patterns into translation units. A pattern ending in
	// "/..." is walked recursively, a directory only at its top level.
	// Paths matching any exclude regular expression are dropped.
	Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to path, creating parent directories.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// HashFile returns the SHA-256 fingerprint of the file at path.
	HashFile(path m.Path) (string, error)
}

// LocalSourceFSAdapter implements SourceFSAdapter on the local filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get returns the sorted, de-duplicated translation units under paths.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error) {
	patterns, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	seen := make(map[m.Path]struct{})

	var units []m.Path

	add := func(path string) {
		if isExcluded(path, patterns) {
			return
		}

		p := m.Path(path)
		if _, dup := seen[p]; dup {
			return
		}

		seen[p] = struct{}{}
		units = append(units, p)
	}

	for _, raw := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, recursive := splitRecursive(string(raw))

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if path != root && (!recursive || strings.HasPrefix(info.Name(), ".")) {
					return filepath.SkipDir
				}

				return nil
			}

			if IsSourceFile(path) {
				add(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })

	return units, nil
}

// IsSourceFile reports whether path has a C++ translation unit extension.
func IsSourceFile(path string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range SourceExtensions {
		if ext == candidate {
			return true
		}
	}

	return false
}

func splitRecursive(path string) (string, bool) {
	switch {
	case path == "...":
		return ".", true
	case strings.HasSuffix(path, "/..."):
		root := strings.TrimSuffix(path, "/...")
		if root == "" {
			root = "/"
		}

		return root, true
	default:
		return path, false
	}
}

func compileExcludes(exclude []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	return patterns, nil
}

func isExcluded(path string, patterns []*regexp.Regexp) bool {
	base := filepath.Base(path)

	for _, re := range patterns {
		if re.MatchString(path) || re.MatchString(base) {
			return true
		}
	}

	return false
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to path, creating its directory when needed.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
