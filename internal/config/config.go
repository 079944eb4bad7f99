package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dshills/promptline/internal/config/loader"
	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/history"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/logging"
	"github.com/dshills/promptline/internal/renderer/backend"
	"github.com/dshills/promptline/internal/renderer/core"
)

// Config holds all promptline settings.
type Config struct {
	Editing  EditingConfig     `json:"editing"`
	Render   RenderConfig      `json:"render"`
	Styles   map[string]string `json:"styles"`
	Bindings []BindingConfig   `json:"bindings"`
	Plugins  PluginsConfig     `json:"plugins"`
	Log      LogConfig         `json:"log"`

	path string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editing: EditingConfig{
			Mode:             "emacs",
			AmbiguityTimeout: Duration(500 * time.Millisecond),
			EscapeTimeout:    Duration(100 * time.Millisecond),
			MaxPendingKeys:   8,
			HistoryLimit:     history.DefaultLimit,
			TabWidth:         4,
		},
		Render: RenderConfig{
			ColorMode:      "auto",
			BracketedPaste: true,
			CompletionRows: 8,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns the per-user config file location,
// $XDG_CONFIG_HOME/promptline/config.toml or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "promptline", "config.toml")
}

// options configures Load.
type options struct {
	fs       loader.FileSystem
	env      *loader.EnvLoader
	required bool
}

// Option configures Load.
type Option func(*options)

// WithFS reads the config file from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithEnv reads overrides through env instead of the process
// environment. Nil disables the environment layer.
func WithEnv(env *loader.EnvLoader) Option {
	return func(o *options) { o.env = env }
}

// WithRequired makes a missing config file an error.
func WithRequired() Option {
	return func(o *options) { o.required = true }
}

// Load reads the config file at path (if any), applies PROMPTLINE_*
// environment overrides and validates the result. An empty path skips the
// file layer. A missing file is not an error unless WithRequired is set.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := map[string]any{}
	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		if data == nil && o.required {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		merged = loader.DeepMerge(merged, data)
	}
	if o.env != nil {
		data, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// FromMap builds a Config from a merged settings map, over the defaults.
func FromMap(settings map[string]any) (*Config, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	if err := checkSchema(raw); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string { return c.path }

// Validate checks the settings the schema cannot: durations, styles,
// color mode and bindings. It reports every failure.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(path, format string, args ...any) {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if _, err := c.InitialMode(); err != nil {
		add("editing.mode", "%v", err)
	}
	if c.Editing.AmbiguityTimeout < 0 {
		add("editing.ambiguity_timeout", "must not be negative")
	}
	if c.Editing.EscapeTimeout < 0 {
		add("editing.escape_timeout", "must not be negative")
	}
	if c.Editing.MaxPendingKeys < 1 {
		add("editing.max_pending_keys", "must be at least 1")
	}
	if _, err := backend.ParseColorMode(string(c.Render.ColorMode)); err != nil {
		add("render.color_mode", "%v", err)
	}
	for _, class := range slices.Sorted(maps.Keys(c.Styles)) {
		if _, err := core.ParseStyle(c.Styles[class]); err != nil {
			add("styles."+class, "%v", err)
		}
	}
	for i, b := range c.Bindings {
		if _, err := b.Compile(); err != nil {
			add(bindingPath(i), "%v", err)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// InitialMode returns the mode a prompt starts in.
func (c *Config) InitialMode() (mode.Mode, error) {
	switch strings.ToLower(c.Editing.Mode) {
	case "", "emacs":
		return mode.Emacs, nil
	case "vi":
		return mode.ViInsert, nil
	default:
		return mode.Emacs, fmt.Errorf("unknown editing mode %q", c.Editing.Mode)
	}
}

// InputConfig returns the key processor settings.
func (c *Config) InputConfig() input.Config {
	cfg := input.DefaultConfig()
	cfg.AmbiguityTimeout = c.Editing.AmbiguityTimeout.Std()
	cfg.MaxPendingKeys = c.Editing.MaxPendingKeys
	return cfg
}

// BufferOptions returns the buffer settings.
func (c *Config) BufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithHistoryLimit(c.Editing.HistoryLimit),
		buffer.WithMultiline(c.Editing.Multiline),
		buffer.WithAutoIndent(c.Editing.AutoIndent),
	}
}

// ColorMode returns the configured color mode. ColorAuto is resolved by
// the output backend.
func (c *Config) ColorMode() backend.ColorMode {
	m, _ := backend.ParseColorMode(string(c.Render.ColorMode))
	return m
}

// StyleSheet returns the built-in styles with the configured classes
// applied over them.
func (c *Config) StyleSheet() (*core.StyleSheet, error) {
	rules := maps.Clone(core.DefaultStyles)
	maps.Copy(rules, c.Styles)
	return core.NewStyleSheet(rules)
}

// PluginFiles returns the Lua plugin paths, resolved against the config
// file's directory.
func (c *Config) PluginFiles() []string {
	base := "."
	if c.path != "" {
		base = filepath.Dir(c.path)
	}
	out := make([]string, len(c.Plugins.Files))
	for i, f := range c.Plugins.Files {
		if filepath.IsAbs(f) {
			out[i] = f
		} else {
			out[i] = filepath.Join(base, f)
		}
	}
	return out
}

// LoggingConfig returns the logger settings. The output is left to the
// caller, which owns the log file.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Log.Level)
	return cfg
}
