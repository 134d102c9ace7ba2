// Package testutil provides filesystem helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Workspace is a temporary directory tree for a single test.
type Workspace struct {
	t    *testing.T
	root string
}

// NewWorkspace creates a workspace rooted at a fresh t.TempDir().
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{t: t, root: t.TempDir()}
}

// Root returns the absolute workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// Path returns the absolute path of a workspace-relative path.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.root, rel)
}

// WriteFile creates rel (and its parents) with content and returns its absolute path.
func (w *Workspace) WriteFile(rel, content string) string {
	w.t.Helper()
	p := w.Path(rel)
	require.NoError(w.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(w.t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// ReadFile returns the content of rel, failing the test if it cannot be read.
func (w *Workspace) ReadFile(rel string) string {
	w.t.Helper()
	data, err := os.ReadFile(w.Path(rel))
	require.NoError(w.t, err)
	return string(data)
}

// AssertFileContent validates that rel holds exactly want.
func (w *Workspace) AssertFileContent(rel, want string) *Workspace {
	w.t.Helper()
	assert.Equal(w.t, want, w.ReadFile(rel), "content of %s", rel)
	return w
}

// AssertFileExists validates that rel exists.
func (w *Workspace) AssertFileExists(rel string) *Workspace {
	w.t.Helper()
	assert.FileExists(w.t, w.Path(rel))
	return w
}

// AssertFileNotExists validates that rel does not exist.
func (w *Workspace) AssertFileNotExists(rel string) *Workspace {
	w.t.Helper()
	assert.NoFileExists(w.t, w.Path(rel))
	return w
}
