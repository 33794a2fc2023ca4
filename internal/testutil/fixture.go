// Package testutil provides Zig fixtures and golden-file helpers for tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixtureContext holds information about a loaded fixture.
type FixtureContext struct {
	// Name is the fixture's path relative to testdata/fixtures/zig
	Name string

	// Path is the absolute path to the fixture file or directory
	Path string

	// ExpectedDir is the path to the expected/ directory holding golden files
	ExpectedDir string
}

// LoadFixture locates a Zig fixture, failing the test when it is missing.
func LoadFixture(t *testing.T, name string) *FixtureContext {
	t.Helper()

	root := ZigFixturesRoot(t)
	path := filepath.Join(root, filepath.FromSlash(name))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Fixture not found: %s", path)
	}

	return &FixtureContext{
		Name:        name,
		Path:        path,
		ExpectedDir: filepath.Join(root, "expected"),
	}
}

// Source returns the fixture file's bytes.
func (f *FixtureContext) Source(t *testing.T) []byte {
	t.Helper()

	data, err := os.ReadFile(f.Path)
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", f.Name, err)
	}
	return data
}

// ExpectedPath returns the path to a golden file; name includes the extension.
func (f *FixtureContext) ExpectedPath(name string) string {
	return filepath.Join(f.ExpectedDir, name)
}

// CopyToTemp copies the fixture into a fresh temporary directory and returns
// the copy's path, so tests may modify it.
func (f *FixtureContext) CopyToTemp(t *testing.T) string {
	t.Helper()

	dst := filepath.Join(t.TempDir(), filepath.Base(f.Path))
	err := filepath.WalkDir(f.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(f.Path, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		t.Fatalf("Failed to copy fixture %s: %v", f.Name, err)
	}
	return dst
}

// ZigFixturesRoot returns the absolute path to testdata/fixtures/zig.
func ZigFixturesRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	root := filepath.Join(projectRoot, "testdata", "fixtures", "zig")

	if _, err := os.Stat(root); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", root)
	}
	return root
}
