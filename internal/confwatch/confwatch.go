// Package confwatch watches the config file and pushes target/limit edits
// into the running engine, so fgctl and a text editor are both live control
// surfaces.
package confwatch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"focusguard/internal/config"
	"focusguard/internal/engine"
)

const debounce = 200 * time.Millisecond

// Watch blocks until the context is cancelled, reloading the config file
// whenever it changes. Only the live-editable settings (targets, daily
// limit) are applied; intervals and paths need a restart. The parent
// directory is watched so editors that replace the file are still seen.
func Watch(ctx context.Context, path string, e *engine.Engine) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var timer *time.Timer
	fired := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Editors fire bursts of events; coalesce them.
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case fired <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}

		case <-fired:
			timer = nil
			reload(path, e)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watcher error")
		}
	}
}

func reload(path string, e *engine.Engine) {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config reload failed, keeping current settings")
		return
	}
	e.SetTargets(cfg.Monitor.Targets)
	e.SetDailyLimit(cfg.Monitor.DailyLimitMin)
	log.Info().Str("path", path).Msg("config reloaded")
}
