package app

import (
	"time"

	"github.com/dshills/promptline/internal/config"
	"github.com/dshills/promptline/internal/input/keymap"
)

// reloadDebounce merges the bursts of events editors produce on save.
const reloadDebounce = 200 * time.Millisecond

// watch reloads the config file while the session lives. Reloads are
// applied on the loop, so one that arrives between prompts waits for
// the next prompt.
func (s *Session) watch() error {
	path := s.cfg.Path()
	if path == "" {
		s.logger.Debug("config has no file, not watching")
		return nil
	}
	w, err := config.NewWatcher(path, reloadDebounce, s.logger, func(cfg *config.Config, err error) {
		if err != nil {
			return
		}
		s.loop.CallSoon(func() {
			if err := s.applyConfig(cfg); err != nil {
				s.logger.Warn("config not applied: %v", err)
			}
		})
	}, s.opts.ConfigOptions...)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	s.watcher = w
	return nil
}

// applyConfig swaps in reloaded settings: styles, timeouts, multiline
// editing and config bindings. Styles set by plugins survive unless the
// file sets the same class. Nothing changes when the new config is
// unusable.
func (s *Session) applyConfig(cfg *config.Config) error {
	if _, err := cfg.StyleSheet(); err != nil {
		return err
	}
	kbs, err := cfg.KeyBindings()
	if err != nil {
		return err
	}

	for class, spec := range cfg.Styles {
		if err := s.styles.Set(class, spec); err != nil {
			return err
		}
	}
	s.removeConfigBindings()
	if err := s.registry.Add(kbs...); err != nil {
		return err
	}
	s.cfgBindings = kbs

	s.proc.SetConfig(cfg.InputConfig())
	s.buffer.SetMultiline(cfg.Editing.Multiline)
	s.cfg = cfg
	s.renderer.SetStyles(s.styles)
	s.logger.Info("applied config from %s", cfg.Path())
	s.render()
	return nil
}

func (s *Session) installConfigBindings(cfg *config.Config) error {
	kbs, err := cfg.KeyBindings()
	if err != nil {
		return err
	}
	if err := s.registry.Add(kbs...); err != nil {
		return err
	}
	s.cfgBindings = kbs
	return nil
}

func (s *Session) removeConfigBindings() {
	old := s.cfgBindings
	s.cfgBindings = nil
	if len(old) == 0 {
		return
	}
	s.registry.RemoveFunc(func(b keymap.Binding) bool {
		for _, o := range old {
			if sameBinding(b, o) {
				return true
			}
		}
		return false
	})
}

func sameBinding(a, b keymap.Binding) bool {
	return a.Keys.Equals(b.Keys) &&
		a.Action == b.Action &&
		a.Modes == b.Modes &&
		a.Priority == b.Priority &&
		a.Description == b.Description
}
