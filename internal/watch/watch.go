// Package watch re-runs preprocessing when the input document or any local
// file it spliced changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/yfile/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a re-run.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one run and returns the local files it depends on.
// Paths are returned even when the run fails.
type RunFunc func(ctx context.Context) ([]string, error)

// Watcher drives RunFunc from filesystem events. Runs never overlap.
type Watcher struct {
	run      RunFunc
	debounce time.Duration
	ignore   map[string]struct{}
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore excludes paths (typically the output file) from triggering runs.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			w.ignore[normalize(p)] = struct{}{}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Watcher for run.
func New(run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{
		run:      run,
		debounce: DefaultDebounce,
		ignore:   map[string]struct{}{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs an initial run, then re-runs after changes until ctx is done.
// Run failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() {
		_ = fsw.Close()
	}()

	tracked := map[string]struct{}{}
	w.runOnce(ctx, fsw, tracked)

	// Reset on a stopped timer never delivers a stale tick (Go 1.23 timers).
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("Watch stopped")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev, tracked) {
				continue
			}
			w.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		case <-timer.C:
			w.logger.Info("Change detected; re-running")
			w.runOnce(ctx, fsw, tracked)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, fsw *fsnotify.Watcher, tracked map[string]struct{}) {
	paths, err := w.run(ctx)
	if err != nil {
		w.logger.Warn("run failed", logfields.Error(err))
	}
	for _, p := range paths {
		n := normalize(p)
		if _, ok := tracked[n]; ok {
			continue
		}
		tracked[n] = struct{}{}
		dir := filepath.Dir(n)
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("watch add failed", logfields.Path(dir), logfields.Error(err))
			continue
		}
		w.logger.Debug("Watching file", logfields.Path(n))
	}
}

func (w *Watcher) relevant(ev fsnotify.Event, tracked map[string]struct{}) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	n := normalize(ev.Name)
	if _, ok := w.ignore[n]; ok {
		return false
	}
	if shouldIgnoreEvent(n) {
		return false
	}
	_, ok := tracked[n]
	return ok
}

func normalize(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// shouldIgnoreEvent returns true for hidden, editor swap and temp files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
