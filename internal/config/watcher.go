package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file at path whenever it is written and passes
// the parsed result to onChange. A file that fails to parse is logged and
// skipped, so the previous configuration stays in effect.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger *log.Logger, onChange func(ArenaConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: cannot create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file instead of writing it, so watch the directory.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("config: cannot watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("config reload: read failed", "path", path, "error", err)
				continue
			}
			cfg, err := Parse(data)
			if err != nil {
				logger.Warn("config reload: keeping previous config", "path", path, "error", err)
				continue
			}
			logger.Info("config reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}
