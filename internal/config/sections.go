package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// EditingConfig holds the editing settings.
type EditingConfig struct {
	// Mode is the initial editing mode: "emacs" or "vi".
	Mode string `json:"mode"`
	// AmbiguityTimeout is how long a key sequence that is both bound and
	// a prefix of a longer binding waits for more keys.
	AmbiguityTimeout Duration `json:"ambiguity_timeout"`
	// EscapeTimeout is how long a lone ESC byte waits for the rest of an
	// escape sequence.
	EscapeTimeout Duration `json:"escape_timeout"`
	// MaxPendingKeys forces resolution of longer pending sequences.
	MaxPendingKeys int `json:"max_pending_keys"`
	// HistoryLimit bounds the undo history.
	HistoryLimit int  `json:"history_limit"`
	AutoIndent   bool `json:"auto_indent"`
	Multiline    bool `json:"multiline"`
	TabWidth     int  `json:"tab_width"`
}

// RenderConfig holds the output settings.
type RenderConfig struct {
	// ColorMode is "auto", "truecolor", "256", "16" or "none".
	ColorMode      Word `json:"color_mode"`
	Mouse          bool `json:"mouse"`
	BracketedPaste bool `json:"bracketed_paste"`
	// CompletionRows is the height of the completion menu.
	CompletionRows int `json:"completion_rows"`
	// Fullscreen draws on the alternate screen through tcell.
	Fullscreen bool `json:"fullscreen"`
}

// PluginsConfig lists the Lua plugins to load.
type PluginsConfig struct {
	// Files are Lua scripts, relative to the config file's directory
	// unless absolute.
	Files []string `json:"files"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `json:"level"`
	// File receives log lines. Empty discards them: the terminal is in
	// raw mode while a prompt runs.
	File string `json:"file"`
}

// Duration is a time.Duration read from a duration string such as
// "500ms", or from an integer number of milliseconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String returns the duration in time.Duration notation.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q", s)
		}
		*d = Duration(v)
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// Word is a string setting that also accepts a bare number, so
// color_mode = 256 reads as "256".
type Word string

// UnmarshalJSON implements json.Unmarshaler.
func (w *Word) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = Word(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string, got %s", data)
	}
	*w = Word(n.String())
	return nil
}
