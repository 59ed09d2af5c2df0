package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	siteerrors "github.com/docsmith/docsmith/internal/errors"
	"github.com/docsmith/docsmith/internal/logfields"
)

// configWatcher monitors the configuration file and invokes onChange
// after a debounce window. It watches the containing directory: editors
// replace files on save, which drops a direct file watch.
type configWatcher struct {
	configPath   string
	watcher      *fsnotify.Watcher
	onChange     func()
	debounceTime time.Duration
	stopChan     chan struct{}
}

func newConfigWatcher(configPath string, onChange func()) (*configWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, siteerrors.DaemonError(fmt.Sprintf("create file watcher: %v", err))
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		_ = watcher.Close()
		return nil, siteerrors.DaemonError(fmt.Sprintf("resolve config path: %v", err))
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		return nil, siteerrors.DaemonError(fmt.Sprintf("watch config directory: %v", err))
	}

	return &configWatcher{
		configPath:   absPath,
		watcher:      watcher,
		onChange:     onChange,
		debounceTime: 2 * time.Second,
		stopChan:     make(chan struct{}),
	}, nil
}

func (cw *configWatcher) start(ctx context.Context) {
	slog.Info("Watching configuration", logfields.Path(cw.configPath))
	go cw.loop(ctx)
}

func (cw *configWatcher) stop() {
	close(cw.stopChan)
	_ = cw.watcher.Close()
}

func (cw *configWatcher) loop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(cw.configPath) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cw.debounceTime, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watcher error", logfields.Error(err))
		case <-fire:
			cw.onChange()
		}
	}
}
