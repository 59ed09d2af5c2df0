package server

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docsmith/docsmith/internal/logfields"
)

// debounceWindow coalesces editor save bursts into a single rebuild.
const debounceWindow = 300 * time.Millisecond

// watchLoop watches docsDir (recursively) and the config file, triggering
// a debounced rebuild on every change.
func (s *Server) watchLoop(ctx context.Context, docsDir, configPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := addRecursive(watcher, docsDir); err != nil {
		return err
	}
	if configPath != "" {
		// Watch the directory: editors replace files on save, which drops
		// a direct file watch.
		if err := watcher.Add(filepath.Dir(configPath)); err != nil {
			slog.Warn("Cannot watch config file", logfields.Path(configPath), logfields.Error(err))
		}
	}

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)
	trigger := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceWindow, func() {
			select {
			case rebuild <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, docsDir, configPath) {
				continue
			}
			// New directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			slog.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-rebuild:
			s.onRebuilt(s.rebuilder.Rebuild(ctx))
		}
	}
}

// relevantEvent filters noise: temp files, hidden files, and events for
// unrelated files in the config directory.
func relevantEvent(event fsnotify.Event, docsDir, configPath string) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	if configPath != "" && !underDir(event.Name, docsDir) {
		return base == filepath.Base(configPath)
	}
	return true
}

// underDir reports whether path is dir itself or inside it. A plain
// prefix check would also match siblings like "docs-notes" for "docs".
func underDir(path, dir string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, dir+string(os.PathSeparator))
}

// addRecursive registers a directory tree with the watcher.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(p), ".") && p != root {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
