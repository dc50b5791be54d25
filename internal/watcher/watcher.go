// Package watcher watches catalog files and signals, debounced, when they
// change.
package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors catalog paths for changes and sends notifications.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	paths      []string
	extensions []string
	debounce   time.Duration
	logger     *slog.Logger

	// files holds watched paths that are plain files; events on their
	// directory that concern other files are ignored.
	files map[string]struct{}
	// dirs holds directories that are watched in full.
	dirs map[string]struct{}

	onChange chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Config holds watcher configuration options.
type Config struct {
	Paths       []string
	Extensions  []string
	DebounceDur time.Duration
	Logger      *slog.Logger
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(extensions []string, paths ...string) Config {
	return Config{
		Paths:       paths,
		Extensions:  extensions,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new catalog watcher.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Extensions) == 0 {
		return nil, errors.New("watcher needs at least one file extension")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		fsWatcher:  fsw,
		paths:      cfg.Paths,
		extensions: cfg.Extensions,
		debounce:   cfg.DebounceDur,
		logger:     logger.With("component", "watcher"),
		files:      make(map[string]struct{}),
		dirs:       make(map[string]struct{}),
		onChange:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching the configured paths. Directories are watched
// recursively, including subdirectories created later. It returns a channel
// that receives a signal when a catalog file changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	for _, p := range w.paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
		if info.IsDir() {
			if err := w.addTree(p); err != nil {
				return nil, err
			}
			continue
		}
		w.files[p] = struct{}{}
		dir := filepath.Dir(p)
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.wg.Wait()
	})
	return err
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		w.dirs[path] = struct{}{}
		return nil
	})
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.followNewDir(event)
			if !w.isRelevantEvent(event) {
				continue
			}
			w.logger.Debug("Catalog file changed.", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			// Drop the signal if one is already pending.
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error.", "error", err)

		case <-w.done:
			return
		}
	}
}

// followNewDir starts watching directories created inside a watched tree.
func (w *Watcher) followNewDir(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	if _, ok := w.dirs[filepath.Dir(event.Name)]; !ok {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(event.Name); err != nil {
		w.logger.Warn("Could not watch new directory.", "path", event.Name, "error", err)
	}
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if !slices.Contains(w.extensions, filepath.Ext(event.Name)) {
		return false
	}
	name := filepath.Clean(event.Name)
	if _, ok := w.files[name]; ok {
		return true
	}
	_, ok := w.dirs[filepath.Dir(name)]
	return ok
}
