package watch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// startWatcher runs w in the background and returns a stop function that
// waits for Run to return.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
}

func TestWatcher_RerunsOnTrackedChange(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.xml")
	included := filepath.Join(dir, "sub", "a.yang")
	output := filepath.Join(dir, "out.xml")
	require.NoError(t, os.MkdirAll(filepath.Dir(included), 0o755))
	require.NoError(t, os.WriteFile(input, []byte("doc\n"), 0o644))
	require.NoError(t, os.WriteFile(included, []byte("a\n"), 0o644))

	var runs atomic.Int32
	run := func(context.Context) ([]string, error) {
		runs.Add(1)
		_ = os.WriteFile(output, []byte("out\n"), 0o644)
		return []string{input, included}, nil
	}

	w := New(run, WithDebounce(20*time.Millisecond), WithIgnore(output), WithLogger(quietLogger()))
	stop := startWatcher(t, w)

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Give the watcher time to register directories before changing files.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(included, []byte("a changed\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)

	before := runs.Load()
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte("doc changed\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() > before }, 3*time.Second, 10*time.Millisecond)

	assert.NoError(t, stop())
}

func TestWatcher_IgnoresUntrackedAndOutputFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.xml")
	output := filepath.Join(dir, "out.xml")
	require.NoError(t, os.WriteFile(input, []byte("doc\n"), 0o644))

	var runs atomic.Int32
	run := func(context.Context) ([]string, error) {
		runs.Add(1)
		return []string{input, output}, nil
	}

	w := New(run, WithDebounce(20*time.Millisecond), WithIgnore(output), WithLogger(quietLogger()))
	stop := startWatcher(t, w)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(output, []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".doc.xml.swp"), []byte("x\n"), 0o644))

	assert.Never(t, func() bool { return runs.Load() > 1 }, 300*time.Millisecond, 20*time.Millisecond)
	assert.NoError(t, stop())
}

func TestWatcher_KeepsWatchingAfterFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.xml")
	require.NoError(t, os.WriteFile(input, []byte("doc\n"), 0o644))

	var runs atomic.Int32
	run := func(context.Context) ([]string, error) {
		if runs.Add(1) == 1 {
			return []string{input}, errors.New("could not open a referenced file")
		}
		return []string{input}, nil
	}

	w := New(run, WithDebounce(20*time.Millisecond), WithLogger(quietLogger()))
	stop := startWatcher(t, w)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(input, []byte("fixed\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)
	assert.NoError(t, stop())
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	tracked := map[string]struct{}{filepath.Join(dir, "a.yang"): {}}
	w := New(nil, WithIgnore(filepath.Join(dir, "out.xml")))

	assert.True(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "a.yang"), Op: fsnotify.Write}, tracked))
	assert.True(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "a.yang"), Op: fsnotify.Create}, tracked))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "a.yang"), Op: fsnotify.Chmod}, tracked))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "b.yang"), Op: fsnotify.Write}, tracked))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "out.xml"), Op: fsnotify.Write}, tracked))
}

func TestShouldIgnoreEvent(t *testing.T) {
	tests := map[string]bool{
		"/d/a.yang":     false,
		"/d/.hidden":    true,
		"/d/a.yang~":    true,
		"/d/a.yang.swp": true,
		"/d/a.yang.swx": true,
		"/d/#a.yang#":   true,
		"/d/Thumbs.db":  true,
		"/d/draft.xml":  false,
	}
	for path, want := range tests {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}
