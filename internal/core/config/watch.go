package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// ReloadFunc receives the reloaded config, or the error that prevented
// loading it.
type ReloadFunc func(cfg *Config, err error)

// Watch reloads the config file at path whenever it changes and hands the
// result to fn until ctx is canceled. The parent directory is watched so
// editors that replace the file by renaming are seen too. Bursts of events
// are debounced into one reload.
func Watch(ctx context.Context, path string, fn ReloadFunc) error {
	if path == "" {
		return fmt.Errorf("watch config: empty path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir %s: %w", dir, err)
	}

	go watchLoop(ctx, watcher, filepath.Clean(path), fn)
	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, fn ReloadFunc) {
	defer func() { _ = watcher.Close() }()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	reload := func() {
		if ctx.Err() != nil {
			return
		}
		fn(Load(path))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fn(nil, fmt.Errorf("watch config: %w", err))
		}
	}
}
