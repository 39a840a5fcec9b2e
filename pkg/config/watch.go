// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatching is returned by Watch when a watcher is already running.
var ErrWatching = errors.New("config: already watching")

// Watch reloads the document whenever the backing file changes on disk.
// Events are debounced; content identical to the last load or save is
// ignored, so saving from this Config does not trigger a reload. The
// watcher runs until ctx is cancelled or Stop is called.
//
// The parent directory is watched rather than the file, so atomic replaces
// by editors (and by Save) are seen. The directory must exist.
func (c *Config) Watch(ctx context.Context) error {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if c.done != nil {
		select {
		case <-c.done:
		default:
			return ErrWatching
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(c.file)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close() // Ignore close error in error path
		return fmt.Errorf("watch config directory: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.stop = cancel
	c.done = done

	c.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", dir).
		Msg("watching config file for changes")

	go c.watchLoop(ctx, watcher, done)
	return nil
}

func (c *Config) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, done chan<- struct{}) {
	defer close(done)
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(c.file)

	// Debounce timer to avoid multiple reloads for rapid file changes
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// Write covers in-place edits, Create covers rename-over-target
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			c.logger.Debug().
				Str("event", "config.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(c.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				if err := c.reload(ctx, triggerWatch, true); err != nil {
					c.logger.Error().
						Err(err).
						Str("event", "config.auto_reload_failed").
						Msg("automatic config reload failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop ends a running watcher and waits for it to exit. It is a no-op when
// nothing is being watched.
func (c *Config) Stop() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if c.stop == nil {
		return
	}
	c.stop()
	<-c.done
	c.stop = nil
	c.done = nil
}

// RegisterListener registers a channel that is signalled after every reload
// that replaced the document. Sends never block; a full channel misses the
// notification. The caller owns the channel.
func (c *Config) RegisterListener(ch chan<- struct{}) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.listeners = append(c.listeners, ch)
}

func (c *Config) notifyListeners() {
	c.listenerMu.RLock()
	defer c.listenerMu.RUnlock()

	for _, ch := range c.listeners {
		select {
		case ch <- struct{}{}:
		default:
			c.skipLog.Do(func() {
				c.logger.Warn().
					Str("event", "config.listener_skip").
					Msg("skipped notifying listener (channel full)")
			})
		}
	}
}
