package cmd

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/logfields"
)

const rebuildDelay = 300 * time.Millisecond

type watcher struct {
	fsw     *fsnotify.Watcher
	builder *builder

	mu    sync.Mutex
	timer *time.Timer
}

// newWatcher watches the configuration file and every directory of docs_dir.
func newWatcher(b *builder) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		fsw.Close()
		return nil, err
	}

	if err := fsw.Add(configFile); err != nil {
		fsw.Close()
		return nil, errors.WithStack(err)
	}
	err = filepath.WalkDir(cfg.DocsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "error watching %s", cfg.DocsDir)
	}
	return &watcher{fsw: fsw, builder: b}, nil
}

func (w *watcher) Close() error {
	return w.fsw.Close()
}

// Run rebuilds once events settle for rebuildDelay, until ctx is done.
func (w *watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(ev.Name)
				}
			}
			logger.Debug("Change detected", logfields.Path(ev.Name), "op", ev.Op.String())
			w.schedule(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(rebuildDelay, func() {
		if _, err := w.builder.build(ctx); err != nil {
			logger.Error("Rebuild failed", logfields.Error(err))
		}
	})
}
