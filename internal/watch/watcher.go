// Package watch re-runs a callback when input files change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"atscheck/internal/errors"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

type fileState struct {
	modTime time.Time
	size    int64
	exists  bool
}

// Watcher watches a fixed set of files. Bursts of events are collapsed into
// one callback after the debounce delay.
type Watcher struct {
	mu sync.Mutex

	files    []string
	state    map[string]fileState
	debounce time.Duration
	onChange func(changed []string)
	logger   *errors.Logger

	fsWatcher *fsnotify.Watcher
	timer     *time.Timer
	fire      chan struct{}
}

// New creates a watcher for files. Paths are made absolute.
func New(files []string, debounce time.Duration, onChange func(changed []string), logger *errors.Logger) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.NewInvalidInputError("files", "at least one file is required")
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	abs := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		p, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		if !slices.Contains(abs, p) {
			abs = append(abs, p)
		}
	}

	return &Watcher{
		files:    abs,
		state:    make(map[string]fileState, len(abs)),
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		fire:     make(chan struct{}, 1),
	}, nil
}

// Files returns the watched paths.
func (w *Watcher) Files() []string {
	return slices.Clone(w.files)
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = fsw
	defer func() {
		w.stopTimer()
		if err := fsw.Close(); err != nil {
			w.logger.LogError(err, "Failed to close file watcher")
		}
	}()

	w.snapshot()

	// Directories are watched so editors that save by rename are noticed.
	var dirs []string
	for _, f := range w.files {
		if dir := filepath.Dir(f); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	w.logger.Info("File watcher started", "files", w.files, "debounce_delay", w.debounce)

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.schedule()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.LogError(err, "File watcher error")

		case <-w.fire:
			if changed := w.changed(); len(changed) > 0 {
				w.logger.Info("Watched files changed", "files", changed)
				w.onChange(changed)
			}

		case <-ctx.Done():
			w.logger.Info("File watcher stopped")
			return nil
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		name = event.Name
	}
	return slices.Contains(w.files, name)
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func stat(file string) fileState {
	info, err := os.Stat(file)
	if err != nil {
		return fileState{}
	}
	return fileState{modTime: info.ModTime(), size: info.Size(), exists: true}
}

func (w *Watcher) snapshot() {
	for _, f := range w.files {
		w.state[f] = stat(f)
	}
}

// changed returns the files whose size, modification time or existence
// differs from the last snapshot, and records the new state.
func (w *Watcher) changed() []string {
	var out []string
	for _, f := range w.files {
		now := stat(f)
		if now != w.state[f] {
			out = append(out, f)
			w.state[f] = now
		}
	}
	return out
}
