package config

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dshills/promptline/internal/config/loader"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/renderer/backend"
	"github.com/dshills/promptline/internal/renderer/core"
)

func load(t *testing.T, name, content string, env ...string) (*Config, error) {
	t.Helper()
	fsys := fstest.MapFS{name: {Data: []byte(content)}}
	return Load(name, WithFS(fsys), WithEnv(loader.NewEnvLoaderFrom(loader.EnvPrefix, env)))
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Editing.AmbiguityTimeout.Std() != 500*time.Millisecond {
		t.Errorf("AmbiguityTimeout = %v, want 500ms", cfg.Editing.AmbiguityTimeout)
	}
	if cfg.Editing.MaxPendingKeys != 8 {
		t.Errorf("MaxPendingKeys = %d, want 8", cfg.Editing.MaxPendingKeys)
	}
	if m, _ := cfg.InitialMode(); m != mode.Emacs {
		t.Errorf("InitialMode = %v, want emacs", m)
	}
}

func TestLoadTOML(t *testing.T) {
	cfg, err := load(t, "config.toml", `
[editing]
mode = "vi"
ambiguity_timeout = "250ms"
escape_timeout = 20
multiline = true
tab_width = 2

[render]
color_mode = 256
mouse = true

[styles]
prompt = "fg:#ff0000 bold"

[[bindings]]
mode = "vi-navigation"
keys = "g h"
action = "cursor.lineStart"
when = "!completing"

[plugins]
files = ["init.lua"]

[log]
level = "debug"
`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Path() != "config.toml" {
		t.Errorf("Path = %q", cfg.Path())
	}
	if m, _ := cfg.InitialMode(); m != mode.ViInsert {
		t.Errorf("InitialMode = %v, want vi-insert", m)
	}
	if got := cfg.Editing.AmbiguityTimeout.Std(); got != 250*time.Millisecond {
		t.Errorf("AmbiguityTimeout = %v, want 250ms", got)
	}
	if got := cfg.Editing.EscapeTimeout.Std(); got != 20*time.Millisecond {
		t.Errorf("EscapeTimeout = %v, want 20ms", got)
	}
	if !cfg.Editing.Multiline || cfg.Editing.TabWidth != 2 {
		t.Errorf("Editing = %+v", cfg.Editing)
	}
	if cfg.Editing.MaxPendingKeys != 8 {
		t.Errorf("unset MaxPendingKeys = %d, want default 8", cfg.Editing.MaxPendingKeys)
	}
	if cfg.ColorMode() != backend.Color256 {
		t.Errorf("ColorMode = %v, want 256", cfg.ColorMode())
	}
	if !cfg.Render.Mouse || !cfg.Render.BracketedPaste {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if len(cfg.Bindings) != 1 || cfg.Bindings[0].Action != "cursor.lineStart" {
		t.Errorf("Bindings = %+v", cfg.Bindings)
	}
	if got := cfg.PluginFiles(); len(got) != 1 || got[0] != "init.lua" {
		t.Errorf("PluginFiles = %v", got)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadYAML(t *testing.T) {
	cfg, err := load(t, "config.yml", `
editing:
  mode: vi
  max_pending_keys: 3
render:
  completion_rows: 5
bindings:
  - keys: "C-x C-e"
    action: session.accept
    mode: emacs
`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editing.Mode != "vi" || cfg.Editing.MaxPendingKeys != 3 {
		t.Errorf("Editing = %+v", cfg.Editing)
	}
	if cfg.Render.CompletionRows != 5 {
		t.Errorf("CompletionRows = %d, want 5", cfg.Render.CompletionRows)
	}
	if len(cfg.Bindings) != 1 || cfg.Bindings[0].Keys != "C-x C-e" {
		t.Errorf("Bindings = %+v", cfg.Bindings)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	cfg, err := load(t, "config.toml", `
[editing]
mode = "vi"
max_pending_keys = 4
`,
		"PROMPTLINE_MODE=emacs",
		"PROMPTLINE_EDITING_AMBIGUITY_TIMEOUT=1s",
		"PROMPTLINE_RENDER_COLOR_MODE=16",
		"PROMPTLINE_STYLES_PROMPT=italic",
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editing.Mode != "emacs" {
		t.Errorf("Mode = %q, want emacs from the environment", cfg.Editing.Mode)
	}
	if cfg.Editing.MaxPendingKeys != 4 {
		t.Errorf("MaxPendingKeys = %d, want 4 from the file", cfg.Editing.MaxPendingKeys)
	}
	if cfg.Editing.AmbiguityTimeout.Std() != time.Second {
		t.Errorf("AmbiguityTimeout = %v, want 1s", cfg.Editing.AmbiguityTimeout)
	}
	if cfg.ColorMode() != backend.Color16 {
		t.Errorf("ColorMode = %v, want 16", cfg.ColorMode())
	}
	if cfg.Styles["prompt"] != "italic" {
		t.Errorf("Styles = %v", cfg.Styles)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("", WithEnv(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editing.Mode != "emacs" || cfg.Path() != "" {
		t.Errorf("cfg = %+v", cfg)
	}

	cfg, err = Load("missing.toml", WithFS(fstest.MapFS{}), WithEnv(nil))
	if err != nil {
		t.Fatalf("missing optional file: %v", err)
	}
	if cfg.Editing.MaxPendingKeys != 8 {
		t.Errorf("MaxPendingKeys = %d, want default", cfg.Editing.MaxPendingKeys)
	}

	_, err = Load("missing.toml", WithFS(fstest.MapFS{}), WithEnv(nil), WithRequired())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("err = %v, want ErrFileNotFound", err)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := load(t, "bad.toml", "[editing\n")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("syntax error: err = %v, want *ParseError", err)
	}

	_, err = load(t, "config.json", "{}")
	if !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("json file: err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
	}{
		{"unknown section", "[editor]\ntab_width = 4\n", ""},
		{"unknown setting", "[editing]\ntabsize = 4\n", ""},
		{"bad mode", "[editing]\nmode = \"vim\"\n", ""},
		{"wrong type", "[editing]\nmultiline = \"yes\"\n", ""},
		{"bad duration", "[editing]\nambiguity_timeout = \"soon\"\n", ""},
		{"tab width", "[editing]\ntab_width = 0\n", ""},
		{"missing action", "[[bindings]]\nkeys = \"C-a\"\n", ""},
		{"bad color mode", "[render]\ncolor_mode = \"many\"\n", "render.color_mode"},
		{"bad style", "[styles]\nprompt = \"fg:nocolor\"\n", "styles.prompt"},
		{"bad keys", "[[bindings]]\nkeys = \"<C-nosuchkey>\"\naction = \"x\"\n", "bindings.0"},
		{"bad mode set", "[[bindings]]\nkeys = \"a\"\naction = \"x\"\nmode = \"visual-ish\"\n", "bindings.0"},
		{"bad condition", "[[bindings]]\nkeys = \"a\"\naction = \"x\"\nwhen = \"a b\"\n", "bindings.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, "config.toml", tt.content)
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("err = %v, want ErrValidationFailed", err)
			}
			if tt.path == "" {
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) || !verrs.Has(tt.path) {
				t.Errorf("err = %v, want a failure for %s", err, tt.path)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Editing.Mode = "ed"
	cfg.Editing.MaxPendingKeys = 0
	cfg.Styles = map[string]string{"a": "fg:bogus", "b": "bold"}

	err := cfg.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	for _, path := range []string{"editing.mode", "editing.max_pending_keys", "styles.a"} {
		if !verrs.Has(path) {
			t.Errorf("missing failure for %s in %v", path, verrs)
		}
	}
	if verrs.Has("styles.b") {
		t.Error("valid style reported")
	}
}

func TestStyleSheet(t *testing.T) {
	cfg := Default()
	cfg.Styles = map[string]string{"prompt": "fg:#ff0000"}

	ss, err := cfg.StyleSheet()
	if err != nil {
		t.Fatalf("StyleSheet: %v", err)
	}
	prompt := ss.Resolve("class:prompt")
	if !prompt.Foreground.Equals(core.ColorFromRGB(255, 0, 0)) {
		t.Errorf("prompt foreground = %v", prompt.Foreground)
	}
	if prompt.Attributes.Has(core.AttrBold) {
		t.Error("configured class should replace the built-in rule")
	}
	if !ss.Resolve("class:selected").Attributes.Has(core.AttrReverse) {
		t.Error("built-in classes should survive")
	}
}

func TestPluginFiles(t *testing.T) {
	cfg := Default()
	cfg.path = "/etc/promptline/config.toml"
	cfg.Plugins.Files = []string{"init.lua", "/opt/lua/extra.lua"}

	got := cfg.PluginFiles()
	want := []string{"/etc/promptline/init.lua", "/opt/lua/extra.lua"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PluginFiles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInputConfig(t *testing.T) {
	cfg := Default()
	cfg.Editing.AmbiguityTimeout = Duration(time.Second)
	cfg.Editing.MaxPendingKeys = 3

	in := cfg.InputConfig()
	if in.AmbiguityTimeout != time.Second || in.MaxPendingKeys != 3 {
		t.Errorf("InputConfig = %+v", in)
	}
	if in.Fallback == "" {
		t.Error("fallback action should be kept")
	}
	if n := len(cfg.BufferOptions()); n != 3 {
		t.Errorf("BufferOptions = %d options, want 3", n)
	}
}

func TestDurationJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"1.5s"`, 1500 * time.Millisecond, false},
		{`"0"`, 0, false},
		{`75`, 75 * time.Millisecond, false},
		{`"later"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		var d Duration
		err := d.UnmarshalJSON([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && d.Std() != tt.want {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.in, d, tt.want)
		}
	}

	out, err := Duration(250 * time.Millisecond).MarshalJSON()
	if err != nil || string(out) != `"250ms"` {
		t.Errorf("MarshalJSON = %s, %v", out, err)
	}
}
