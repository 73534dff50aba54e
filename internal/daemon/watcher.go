package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docstage/docstage/internal/logfields"
)

// SourceWatcher monitors the documentation source and template directories and
// triggers debounced rebuilds on changes.
type SourceWatcher struct {
	dirs     []string
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	stopChan chan struct{}
	stopOnce sync.Once
	trigger  chan struct{}
	debounce time.Duration
	rebuild  func(ctx context.Context)
}

// NewSourceWatcher creates a watcher over dirs. Debounce collapses event bursts
// (editor save storms, git checkouts) into a single rebuild.
func NewSourceWatcher(dirs []string, debounce time.Duration, rebuild func(ctx context.Context)) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	abs := make([]string, 0, len(dirs))
	for _, d := range dirs {
		a, err := filepath.Abs(d)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("resolve watch path %s: %w", d, err)
		}
		abs = append(abs, a)
	}

	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	return &SourceWatcher{
		dirs:     abs,
		watcher:  watcher,
		stopChan: make(chan struct{}),
		trigger:  make(chan struct{}, 1),
		debounce: debounce,
		rebuild:  rebuild,
	}, nil
}

// Start begins watching. It returns after the watch loops are running.
func (w *SourceWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, d := range w.dirs {
		if err := w.addRecursive(d); err != nil {
			return fmt.Errorf("watch directory %s: %w", d, err)
		}
		slog.Info("Watching directory", logfields.Path(d))
	}

	go w.watchLoop(ctx)
	go w.rebuildLoop(ctx)
	return nil
}

// Stop stops watching. Safe to call more than once.
func (w *SourceWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

// addRecursive registers root and every subdirectory with the watcher.
// fsnotify watches are not recursive, so nested source trees need each
// directory added individually.
func (w *SourceWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// relevant filters out noise the rebuild should not react to: hidden files,
// editor backup files, and swap files.
func relevant(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	return true
}

func (w *SourceWatcher) watchLoop(ctx context.Context) {
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
			if !relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			slog.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			w.fire()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", logfields.Error(err))
		}
	}
}

// fire requests a rebuild; a pending request is not duplicated.
func (w *SourceWatcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *SourceWatcher) rebuildLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

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
		case <-w.trigger:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			slog.Info("Debounce elapsed, rebuilding")
			w.rebuild(ctx)
		}
	}
}
