// Package watch reruns the fixers when files under debian/ change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the debian/ directory of a package tree and triggers a
// debounced run callback after changes settle.
type Watcher struct {
	root     string
	run      func(ctx context.Context) error
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	runChan  chan struct{}
	stopOnce sync.Once
	debounce time.Duration

	// runMu serializes run callbacks; a debounce timer may fire while a
	// slow previous run is still executing.
	runMu sync.Mutex
}

// New creates a watcher over the tree rooted at root. run is invoked after
// filesystem events under debian/ have been quiet for the debounce
// interval.
func New(root string, debounce time.Duration, run func(ctx context.Context) error) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve tree root: %w", err)
	}
	return &Watcher{
		root:     absRoot,
		run:      run,
		watcher:  watcher,
		stopChan: make(chan struct{}),
		runChan:  make(chan struct{}, 1),
		debounce: debounce,
	}, nil
}

// Start begins monitoring. Watches cover debian/ and its subdirectories;
// directories created later are added as their create events arrive.
func (w *Watcher) Start(ctx context.Context) error {
	debianDir := filepath.Join(w.root, "debian")
	err := filepath.WalkDir(debianDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", debianDir, err)
	}

	slog.Info("Starting tree watcher", "tree", w.root)
	go w.watchLoop(ctx)
	go w.runLoop(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		slog.Info("Stopping tree watcher")
		close(w.stopChan)
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", "error", err)
		}
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				slog.Debug("Tree change detected", "file", event.Name, "op", event.Op.String())
				w.trigger()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Tree watcher error", "error", err)
		}
	}
}

func (w *Watcher) runLoop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.runChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				w.runMu.Lock()
				defer w.runMu.Unlock()
				if err := w.run(ctx); err != nil {
					slog.Error("Watch run failed", "error", err)
				}
			})
		}
	}
}

// trigger requests a debounced run.
func (w *Watcher) trigger() {
	select {
	case w.runChan <- struct{}{}:
	default:
		// Run already pending.
	}
}
