package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hupe1980/agentcouncil/logging"
)

const defaultDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce coalesces bursts of writes (editors often write several times).
	Debounce time.Duration
	Logger   logging.Logger
	// OnError receives load and watcher errors. The previous configuration
	// stays in effect.
	OnError func(error)
}

// Watch reloads path whenever it changes and hands every valid result to fn.
// It watches the parent directory so atomic-rename saves are seen. Watch
// blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Config), optFns ...func(o *WatchOptions)) error {
	opts := WatchOptions{
		Debounce: defaultDebounce,
		Logger:   logging.NoOpLogger{},
	}
	for _, f := range optFns {
		f(&opts)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		cfg, err := Load(abs)
		if err != nil {
			opts.Logger.Warn("config.reload.failed", "path", abs, "error", err)
			if opts.OnError != nil {
				opts.OnError(err)
			}
			return
		}
		opts.Logger.Info("config.reloaded", "path", abs)
		fn(cfg)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer == nil {
				timer = time.AfterFunc(opts.Debounce, reload)
			} else {
				timer.Reset(opts.Debounce)
			}
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("config.watch.error", "path", abs, "error", err)
			if opts.OnError != nil {
				opts.OnError(err)
			}
		}
	}
}
