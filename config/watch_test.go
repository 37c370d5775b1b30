package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "council.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meeting: {max_turns: 4}\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { reloaded <- c }, func(o *WatchOptions) {
			o.Debounce = 20 * time.Millisecond
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("meeting: {max_turns: 7}\n"), 0o600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 7, cfg.Meeting.MaxTurns)
	case <-time.After(3 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_InvalidFileReportsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "council.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 4)
	go func() {
		_ = Watch(ctx, path, func(*Config) { t.Error("invalid config must not be delivered") },
			func(o *WatchOptions) {
				o.Debounce = 20 * time.Millisecond
				o.OnError = func(err error) { errs <- err }
			})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log: {format: xml}\n"), 0o600))

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "unknown log format")
	case <-time.After(3 * time.Second):
		t.Fatal("no error reported")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "c.yaml"), func(*Config) {})
	require.Error(t, err)
}
