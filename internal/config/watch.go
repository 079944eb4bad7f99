package config

import (
	"time"

	"github.com/dshills/promptline/internal/config/watcher"
	"github.com/dshills/promptline/internal/logging"
)

// ReloadFunc receives a freshly loaded config, or the error that kept the
// file from loading. It runs on the watcher's goroutine.
type ReloadFunc func(cfg *Config, err error)

// Watcher reloads a config file when it changes.
type Watcher struct {
	path   string
	opts   []Option
	w      *watcher.Watcher
	logger *logging.Logger
}

// NewWatcher watches path and calls fn with each reloaded config. The
// options are passed on to Load.
func NewWatcher(path string, debounce time.Duration, logger *logging.Logger, fn ReloadFunc, opts ...Option) (*Watcher, error) {
	logger = logger.WithComponent("config")
	cw := &Watcher{path: path, opts: opts, logger: logger}
	cw.w = watcher.New(
		watcher.WithDebounce(debounce),
		watcher.WithErrorHandler(func(err error) {
			logger.Warn("config watch error: %v", err)
		}),
	)
	if err := cw.w.Watch(path); err != nil {
		return nil, err
	}
	cw.w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			logger.Debug("config file %s: %s, keeping settings", ev.Path, ev.Op)
			return
		}
		cfg, err := Load(path, cw.opts...)
		if err != nil {
			logger.Warn("config reload failed: %v", err)
		} else {
			logger.Info("config reloaded from %s", path)
		}
		fn(cfg, err)
	})
	return cw, nil
}

// Start begins watching.
func (cw *Watcher) Start() error { return cw.w.Start() }

// Stop stops watching. No callback runs after Stop returns, except one
// already in progress.
func (cw *Watcher) Stop() { cw.w.Stop() }

// Path returns the watched file.
func (cw *Watcher) Path() string { return cw.path }
