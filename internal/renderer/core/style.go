package core

import (
	"fmt"
	"strings"
	"sync"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrBlink                   // Blinking text (rarely supported)
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
	AttrHidden                  // Hidden/invisible text
)

var attrNames = map[string]Attribute{
	"bold":      AttrBold,
	"dim":       AttrDim,
	"italic":    AttrItalic,
	"underline": AttrUnderline,
	"blink":     AttrBlink,
	"reverse":   AttrReverse,
	"strike":    AttrStrikethrough,
	"hidden":    AttrHidden,
}

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// With returns a new style with attrs added.
func (s Style) With(attrs Attribute) Style {
	s.Attributes |= attrs
	return s
}

// Merge combines two styles. Colors set in other win; attributes add up.
func (s Style) Merge(other Style) Style {
	result := s

	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes

	return result
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// IsDefault returns true if this is the default style.
func (s Style) IsDefault() bool {
	return s.Foreground.IsDefault() &&
		s.Background.IsDefault() &&
		s.Attributes == AttrNone
}

// ParseStyle parses a style string such as "bold fg:#ff0000 bg:ansiblue".
// A bare color sets the foreground. "noX" clears attribute X.
func ParseStyle(s string) (Style, error) {
	return DefaultStyle().apply(s)
}

func (s Style) apply(spec string) (Style, error) {
	for _, tok := range strings.Fields(spec) {
		tok = strings.ToLower(tok)
		if a, ok := attrNames[tok]; ok {
			s.Attributes |= a
			continue
		}
		if a, ok := attrNames[strings.TrimPrefix(tok, "no")]; ok && strings.HasPrefix(tok, "no") {
			s.Attributes &^= a
			continue
		}
		var err error
		switch {
		case strings.HasPrefix(tok, "fg:"):
			s.Foreground, err = ParseColor(tok[3:])
		case strings.HasPrefix(tok, "bg:"):
			s.Background, err = ParseColor(tok[3:])
		case tok == "noinherit":
			s = DefaultStyle()
		default:
			s.Foreground, err = ParseColor(tok)
		}
		if err != nil {
			return Style{}, fmt.Errorf("style %q: %w", spec, err)
		}
	}
	return s, nil
}

// StyleSheet maps class names to styles and resolves fragment style
// strings. A style string mixes "class:a.b,c" tokens with inline style
// tokens; later tokens win. Class "a.b" first applies "a", then "a.b".
type StyleSheet struct {
	mu      sync.Mutex
	classes map[string]Style
	cache   map[string]Style
}

// NewStyleSheet creates a style sheet from class → style string rules.
func NewStyleSheet(rules map[string]string) (*StyleSheet, error) {
	ss := &StyleSheet{classes: make(map[string]Style, len(rules))}
	for class, spec := range rules {
		if err := ss.Set(class, spec); err != nil {
			return nil, err
		}
	}
	return ss, nil
}

// Set defines or replaces the style of class.
func (ss *StyleSheet) Set(class, spec string) error {
	st, err := ParseStyle(spec)
	if err != nil {
		return fmt.Errorf("class %s: %w", class, err)
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.classes[strings.ToLower(class)] = st
	ss.cache = nil
	return nil
}

// Resolve computes the style for a fragment style string. Unparseable
// inline tokens are ignored.
func (ss *StyleSheet) Resolve(spec string) Style {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if st, ok := ss.cache[spec]; ok {
		return st
	}
	st := DefaultStyle()
	for _, tok := range strings.Fields(spec) {
		if classes, ok := strings.CutPrefix(tok, "class:"); ok {
			for class := range strings.SplitSeq(strings.ToLower(classes), ",") {
				st = ss.applyClass(st, class)
			}
			continue
		}
		if next, err := st.apply(tok); err == nil {
			st = next
		}
	}
	if ss.cache == nil {
		ss.cache = make(map[string]Style)
	}
	ss.cache[spec] = st
	return st
}

func (ss *StyleSheet) applyClass(st Style, class string) Style {
	parts := strings.Split(class, ".")
	for i := range parts {
		if cs, ok := ss.classes[strings.Join(parts[:i+1], ".")]; ok {
			st = st.Merge(cs)
		}
	}
	return st
}

// DefaultStyles are the built-in class rules.
var DefaultStyles = map[string]string{
	"prompt":                  "bold",
	"continuation":            "fg:ansibrightblack",
	"selected":                "reverse",
	"search":                  "bg:ansiyellow fg:ansiblack",
	"tilde":                   "fg:ansibrightblack",
	"control-character":       "fg:ansiblue",
	"completion-menu":         "bg:#bbbbbb fg:#000000",
	"completion-menu.current": "bg:#888888 fg:#ffffff",
	"completion-menu.meta":    "bg:#999999 fg:#000000",
	"validation-toolbar":      "bg:#550000 fg:#ffffff",
	"mode-toolbar":            "reverse",
	"arg-toolbar":             "fg:ansicyan",
	"bottom-toolbar":          "reverse",
}

// DefaultStyleSheet returns a style sheet with DefaultStyles.
func DefaultStyleSheet() *StyleSheet {
	ss, err := NewStyleSheet(DefaultStyles)
	if err != nil {
		panic(err)
	}
	return ss
}
