package backend

import (
	"fmt"
	"strings"
)

// ColorMode is the color depth an output can show.
type ColorMode int

const (
	// ColorTrue emits 24-bit colors.
	ColorTrue ColorMode = iota
	// Color256 maps colors onto the xterm 256-color palette.
	Color256
	// Color16 maps colors onto the 16 basic palette colors.
	Color16
	// ColorNone emits attributes only.
	ColorNone
	// ColorAuto asks the caller to detect the depth from the environment.
	ColorAuto
)

var colorModeNames = map[string]ColorMode{
	"truecolor": ColorTrue,
	"24bit":     ColorTrue,
	"256":       Color256,
	"16":        Color16,
	"none":      ColorNone,
	"mono":      ColorNone,
}

// String returns the canonical name of the mode.
func (m ColorMode) String() string {
	switch m {
	case ColorTrue:
		return "truecolor"
	case Color256:
		return "256"
	case Color16:
		return "16"
	case ColorNone:
		return "none"
	case ColorAuto:
		return "auto"
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode parses a color mode name. The empty string means
// ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "auto" {
		return ColorAuto, nil
	}
	m, ok := colorModeNames[name]
	if !ok {
		return ColorAuto, fmt.Errorf("unknown color mode %q", s)
	}
	return m, nil
}

// Resolve returns m, or the detected mode when m is ColorAuto.
func (m ColorMode) Resolve(getenv func(string) string) ColorMode {
	if m == ColorAuto {
		return DetectColorMode(getenv)
	}
	return m
}

// DetectColorMode guesses the color depth from the environment.
func DetectColorMode(getenv func(string) string) ColorMode {
	if getenv("NO_COLOR") != "" {
		return ColorNone
	}
	switch strings.ToLower(getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return ColorTrue
	}
	term := strings.ToLower(getenv("TERM"))
	switch {
	case term == "dumb":
		return ColorNone
	case strings.Contains(term, "truecolor") || strings.Contains(term, "direct"):
		return ColorTrue
	case strings.Contains(term, "256"):
		return Color256
	}
	return Color16
}
