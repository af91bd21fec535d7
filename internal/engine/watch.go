/*
PURPOSE:
  Keeps the combined file current by re-running Merge whenever a source
  file changes.

REQUIREMENTS:
  User-specified:
  - Each run is a full merge (no incremental/append processing).

  Implementation-discovered:
  - Editors and copy tools emit bursts of events; a debounce window
    collapses them into one merge.
  - Writes to our own output must not trigger another merge.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (watch command)
  - Calls: Merge()

ERROR HANDLING:
  - Merge failures are reported to the callback and logged; watching continues.
  - Returns an error only if the watcher cannot be set up or fails.

IMPLEMENTATION RULES:
  - One goroutine: the event loop. Merges run inline, never overlapping.
  - Stop on ctx cancellation and return nil.

USAGE:
  err := engine.Watch(ctx, cfg, func(res *model.Result, err error) { ... })

SELF-HEALING INSTRUCTIONS:
  - If merges never fire on macOS, check the watched path is not a symlink.

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - None.
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/daryltucker/busmerge/internal/config"
	"github.com/daryltucker/busmerge/internal/model"
	"github.com/daryltucker/busmerge/internal/output"
	"github.com/fsnotify/fsnotify"
)

// MergeFunc receives the outcome of every merge performed by Watch.
type MergeFunc func(res *model.Result, err error)

// Watch merges once, then again after every burst of relevant changes in the
// source directory, until ctx is cancelled.
func Watch(ctx context.Context, cfg *config.Config, onMerge MergeFunc) error {
	if _, err := os.Stat(cfg.SourceDir); errors.Is(err, fs.ErrNotExist) {
		output.Logger.Error("Directory not found", "dir", cfg.SourceDir)
		return fmt.Errorf("%w at %s", ErrSourceDirNotFound, cfg.SourceDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.SourceDir); err != nil {
		return fmt.Errorf("failed to watch source directory %s: %w", cfg.SourceDir, err)
	}

	run := func() {
		res, err := Merge(ctx, cfg)
		if err != nil && !errors.Is(err, context.Canceled) {
			output.Logger.Error("Merge failed", "error", err)
		}
		if onMerge != nil && ctx.Err() == nil {
			onMerge(res, err)
		}
	}

	run()
	output.Logger.Info("Watching for changes", "dir", cfg.SourceDir, "debounce", cfg.WatchDebounce)

	debounce := cfg.WatchDebounce
	if debounce <= 0 {
		debounce = config.DefaultConfig().WatchDebounce
	}
	// Armed only by relevant events.
	timer := time.NewTimer(debounce)
	timer.Stop()

	ignored := ignoredPaths(cfg)

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, cfg.Extension, ignored) {
				continue
			}
			output.Logger.Debug("Source changed", "file", filepath.Base(event.Name), "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher failed: %w", err)

		case <-timer.C:
			run()
		}
	}
}

// relevantEvent reports whether event should trigger a merge.
func relevantEvent(event fsnotify.Event, ext string, ignored map[string]bool) bool {
	if !strings.HasSuffix(event.Name, ext) {
		return false
	}
	if abs, err := filepath.Abs(event.Name); err == nil && ignored[abs] {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

// ignoredPaths lists the files Merge itself writes.
func ignoredPaths(cfg *config.Config) map[string]bool {
	paths := []string{cfg.OutputPath()}
	for _, p := range []string{cfg.JSONLFile, cfg.ReportFile, cfg.SQLitePath} {
		if p != "" {
			paths = append(paths, resolveOutput(cfg, p))
		}
	}

	ignored := make(map[string]bool, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			ignored[abs] = true
		}
	}
	return ignored
}
