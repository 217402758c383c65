package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgen/pkg/logger"
	"github.com/jingkaihe/skillgen/pkg/presenter"
)

// FileEvent represents a file system event with additional metadata
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

// watchRequestFiles calls onChange with the absolute path of a request file
// each time it is written, created or replaced, until ctx is done. The
// parent directories are watched so editors that replace files on save are
// seen too.
func watchRequestFiles(ctx context.Context, files []string, delay time.Duration, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", f)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		logger.G(ctx).WithField("directory", dir).Debug("Adding directory to watcher")
	}

	events := make(chan FileEvent)
	debouncedEvents := make(chan FileEvent)
	go debounceFileEvents(ctx, events, debouncedEvents, delay)

	presenter.Info(fmt.Sprintf("Watching %d request file(s) for changes... Press Ctrl+C to stop", len(targets)))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path := filepath.Clean(event.Name)
			if !targets[path] {
				continue
			}
			select {
			case events <- FileEvent{Path: path, Op: event.Op, Time: time.Now()}:
			case <-ctx.Done():
				return nil
			}
		case event := <-debouncedEvents:
			logger.G(ctx).WithFields(map[string]interface{}{
				"file":      event.Path,
				"operation": event.Op.String(),
				"timestamp": event.Time,
			}).Debug("Request file change detected")
			onChange(event.Path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			presenter.Error(err, "File watcher error")
			logger.G(ctx).WithError(err).Error("Error watching files")
		case <-ctx.Done():
			return nil
		}
	}
}

// debounceFileEvents forwards the last event per path once no further event
// for that path arrived within delay.
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	stopAll := func() {
		mu.Lock()
		defer mu.Unlock()
		for path, timer := range pending {
			timer.Stop()
			delete(pending, path)
		}
	}

	for {
		select {
		case event, ok := <-input:
			if !ok {
				stopAll()
				return
			}

			mu.Lock()
			if timer, exists := pending[event.Path]; exists {
				timer.Stop()
			}
			var timer *time.Timer
			timer = time.AfterFunc(delay, func() {
				mu.Lock()
				if pending[event.Path] == timer {
					delete(pending, event.Path)
				}
				mu.Unlock()

				select {
				case output <- event:
				case <-ctx.Done():
				}
			})
			pending[event.Path] = timer
			mu.Unlock()
		case <-ctx.Done():
			stopAll()
			return
		}
	}
}
