package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"snajper/internal/discovery"
	"snajper/internal/domain"
	"snajper/internal/ui"
)

// Watcher delivers change events for a directory tree
type Watcher struct {
	fs      *fsnotify.Watcher
	scanner *discovery.Scanner
	logger  *ui.Logger

	mu   sync.Mutex
	dirs map[string]bool
}

// New creates a Watcher. Directories rejected by scanner are never watched.
func New(scanner *discovery.Scanner, logger *ui.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		fs:      fs,
		scanner: scanner,
		logger:  logger,
		dirs:    make(map[string]bool),
	}, nil
}

// Add registers root and every watchable directory below it
func (w *Watcher) Add(root string) error {
	dirs, err := w.scanner.Scan(root)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", dir, err)
		}
		if err := w.fs.Add(abs); err != nil {
			return fmt.Errorf("watch %s: %w", abs, err)
		}
		w.mu.Lock()
		w.dirs[abs] = true
		w.mu.Unlock()
	}
	return nil
}

// Watched returns the number of registered directories
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

// Run forwards translated events to sink until ctx is done, then closes the
// underlying fsnotify watcher
func (w *Watcher) Run(ctx context.Context, sink func(domain.ChangeEvent)) error {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Errorf("watch error: %v", err)
		case raw, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(raw, sink)
		}
	}
}

func (w *Watcher) handle(raw fsnotify.Event, sink func(domain.ChangeEvent)) {
	path := filepath.Clean(raw.Name)

	w.mu.Lock()
	isDir := w.dirs[path]
	if raw.Has(fsnotify.Remove) || raw.Has(fsnotify.Rename) {
		delete(w.dirs, path)
	}
	w.mu.Unlock()

	if !isDir && (raw.Has(fsnotify.Create) || raw.Has(fsnotify.Write)) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			isDir = true
			if raw.Has(fsnotify.Create) && !w.scanner.Skip(filepath.Base(path)) {
				if err := w.Add(path); err != nil {
					w.logger.Warnf("could not watch new directory %s: %v", path, err)
				}
			}
		}
	}

	if ev, ok := translate(raw, path, isDir); ok {
		sink(ev)
	}
}

// translate maps an fsnotify operation onto a change kind
func translate(raw fsnotify.Event, path string, isDir bool) (domain.ChangeEvent, bool) {
	ev := domain.ChangeEvent{Path: path, IsDir: isDir}
	switch {
	case raw.Has(fsnotify.Remove):
		ev.Kind = domain.Deleted
	case raw.Has(fsnotify.Rename):
		ev.Kind = domain.Moved
	case raw.Has(fsnotify.Write), raw.Has(fsnotify.Create):
		ev.Kind = domain.Modified
	default:
		return domain.ChangeEvent{}, false
	}
	return ev, true
}
