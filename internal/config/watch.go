package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/studiowebux/archibus-connect/internal/logging"
)

// Reload is delivered each time the watched settings file changes
type Reload struct {
	Settings Settings
	Err      error
}

// Watch reloads the settings file on write or create until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
// flagURL is re-applied on every reload.
func Watch(ctx context.Context, path, flagURL string) (<-chan Reload, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	log := logging.Logger().WithValues("file", abs)
	out := make(chan Reload, 1)

	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				s, err := Load(abs)
				if err == nil {
					s.ApplyOverrides(flagURL)
				}
				log.Info("settings reloaded", "ok", err == nil)

				select {
				case out <- Reload{Settings: s, Err: err}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error(err, "settings watcher error")
			}
		}
	}()

	log.V(1).Info("watching settings")
	return out, nil
}
