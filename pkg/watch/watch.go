// Package watch re-runs an action whenever a diagram file changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temp file and renaming it are still
// noticed. Bursts of events are coalesced: the action runs once the file has
// been quiet for the debounce interval.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	errs "github.com/matzehuels/sysmlite/pkg/errors"
)

// DefaultDebounce is used when New is given a non-positive interval.
const DefaultDebounce = 300 * time.Millisecond

// Action is invoked after each settled change. A returned error is logged
// and watching continues.
type Action func(ctx context.Context) error

// Watcher watches a single file for changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *log.Logger
}

// New starts watching the directory containing path.
func New(path string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "watch %s", filepath.Dir(abs))
	}
	return &Watcher{fs: fsw, path: abs, debounce: debounce, logger: logger}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run blocks until ctx is done, calling fn after every settled change to the
// watched file. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, fn Action) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logger.Info("diagram changed", "path", w.path)
			if err := fn(ctx); err != nil {
				w.logger.Error("action failed", "err", errs.UserMessage(err))
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Close stops the underlying watcher. Run returns once its event channels
// close.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
