// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reruns a full manifest generation whenever the book folder
// changes. Every rerun rebuilds the manifest from scratch.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc performs one full generation.
type RunFunc func(ctx context.Context) error

// Options configures Watch.
type Options struct {
	// Root is the folder tree to watch. It must exist.
	Root string

	// Debounce is the quiet period after the last event before run is called.
	Debounce time.Duration

	// Ignore reports whether an event path should not trigger a rerun,
	// for example the manifest file itself when it lives under Root.
	Ignore func(path string) bool

	// RunFirst calls run once after the watch list is registered and before
	// any event is handled, so changes made during that run are not missed.
	// An error from this first run is returned.
	RunFirst bool

	Logger *slog.Logger
}

// Watch watches opts.Root recursively and calls run after each burst of
// changes until ctx is cancelled. A failing run is logged and watching
// continues. Directories created while watching are added automatically.
func Watch(ctx context.Context, opts Options, run RunFunc) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := addDirsRecursive(w, opts.Root); err != nil {
		return fmt.Errorf("watching %s: %w", opts.Root, err)
	}

	if opts.RunFirst {
		if err := run(ctx); err != nil {
			return err
		}
	}

	logger.Info("watch: started", slog.String("root", opts.Root), slog.Duration("debounce", opts.Debounce))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(opts.Debounce)
			timerCh = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(opts.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-timerCh:
			if err := run(ctx); err != nil {
				logger.Error("watch: regeneration failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if opts.Ignore != nil && opts.Ignore(ev.Name) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watch: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}

			logger.Debug("watch: change", slog.String("op", ev.Op.String()), slog.String("path", ev.Name))
			schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: watcher error", slog.String("error", err.Error()))
		}
	}
}

// addDirsRecursive adds root and every directory below it to w.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
