// Package testutil holds shared test helpers for shelf: a sandboxed
// filesystem, golden files and viper/config state management.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnv is a temporary directory scoped to one test. Every path handed
// out by it is checked to stay under the root.
type TestEnv struct {
	t       *testing.T
	rootDir string
}

// NewTestEnv returns a TestEnv rooted in t.TempDir().
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return &TestEnv{t: t, rootDir: t.TempDir()}
}

// RootDir returns the sandbox root.
func (e *TestEnv) RootDir() string {
	return e.rootDir
}

// Path joins elem under the root and fails the test if the result escapes it.
func (e *TestEnv) Path(elem ...string) string {
	e.t.Helper()

	p := filepath.Clean(filepath.Join(e.rootDir, filepath.Join(elem...)))
	if !e.contains(p) {
		e.t.Fatalf("path %q escapes test sandbox %q", p, e.rootDir)
	}
	return p
}

func (e *TestEnv) contains(p string) bool {
	root := filepath.Clean(e.rootDir)
	return p == root || strings.HasPrefix(p, root+string(filepath.Separator))
}

// WriteFile writes content under the root, creating parent directories.
func (e *TestEnv) WriteFile(path string, content []byte) {
	e.t.Helper()

	p := e.Path(path)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		e.t.Fatalf("mkdir %q: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, content, 0o644); err != nil {
		e.t.Fatalf("write %q: %v", p, err)
	}
}

func (e *TestEnv) WriteFileString(path, content string) {
	e.t.Helper()
	e.WriteFile(path, []byte(content))
}

// ReadFile returns the content of a file under the root.
func (e *TestEnv) ReadFile(path string) []byte {
	e.t.Helper()

	p := e.Path(path)
	content, err := os.ReadFile(p)
	if err != nil {
		e.t.Fatalf("read %q: %v", p, err)
	}
	return content
}

func (e *TestEnv) ReadFileString(path string) string {
	e.t.Helper()
	return string(e.ReadFile(path))
}

func (e *TestEnv) MkdirAll(path string) {
	e.t.Helper()

	p := e.Path(path)
	if err := os.MkdirAll(p, 0o755); err != nil {
		e.t.Fatalf("mkdir %q: %v", p, err)
	}
}

// FileExists reports whether path exists under the root.
func (e *TestEnv) FileExists(path string) bool {
	e.t.Helper()
	_, err := os.Stat(e.Path(path))
	return err == nil
}

func (e *TestEnv) RequireFileExists(path string) {
	e.t.Helper()
	if !e.FileExists(path) {
		e.t.Fatalf("expected file %q to exist", e.Path(path))
	}
}

// Chdir switches the working directory into the sandbox until the test ends.
// config.yaml is read from the working directory, so cmd tests need this.
func (e *TestEnv) Chdir(path string) {
	e.t.Helper()

	p := e.Path(path)
	prev, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(p); err != nil {
		e.t.Fatalf("chdir %q: %v", p, err)
	}
	e.t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			e.t.Errorf("restore working directory %q: %v", prev, err)
		}
	})
}

func (e *TestEnv) AssertFileContains(path, expected string) {
	e.t.Helper()
	if content := e.ReadFileString(path); !strings.Contains(content, expected) {
		e.t.Errorf("file %q does not contain %q:\n%s", path, expected, content)
	}
}

func (e *TestEnv) AssertFileEquals(path, expected string) {
	e.t.Helper()
	if content := e.ReadFileString(path); content != expected {
		e.t.Errorf("file %q content mismatch:\ngot:\n%s\n\nwant:\n%s", path, content, expected)
	}
}
