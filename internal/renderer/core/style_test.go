package core

import (
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", DefaultStyle(), false},
		{"bold", DefaultStyle().With(AttrBold), false},
		{"bold underline", DefaultStyle().With(AttrBold | AttrUnderline), false},
		{"bold nobold", DefaultStyle(), false},
		{"fg:#ff0000", DefaultStyle().WithForeground(ColorFromRGB(255, 0, 0)), false},
		{"ansigreen bg:ansiblack", Style{Foreground: ColorFromIndex(2), Background: ColorFromIndex(0)}, false},
		{"reverse noinherit italic", DefaultStyle().With(AttrItalic), false},
		{"fg:nope", Style{}, true},
	}

	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStyle(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStyle(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if !got.Equals(tt.want) {
			t.Errorf("ParseStyle(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestStyleMerge(t *testing.T) {
	base := DefaultStyle().WithForeground(ColorFromIndex(1)).With(AttrBold)
	over := DefaultStyle().WithBackground(ColorFromIndex(4)).With(AttrItalic)

	got := base.Merge(over)
	want := Style{Foreground: ColorFromIndex(1), Background: ColorFromIndex(4), Attributes: AttrBold | AttrItalic}
	if !got.Equals(want) {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
}

func TestStyleSheetResolve(t *testing.T) {
	ss, err := NewStyleSheet(map[string]string{
		"menu":         "bg:ansiblue",
		"menu.current": "bold",
		"error":        "fg:ansired",
	})
	if err != nil {
		t.Fatalf("NewStyleSheet: %v", err)
	}

	tests := []struct {
		spec string
		want Style
	}{
		{"", DefaultStyle()},
		{"class:menu", Style{Foreground: ColorDefault, Background: ColorFromIndex(4)}},
		{"class:menu.current", Style{Foreground: ColorDefault, Background: ColorFromIndex(4), Attributes: AttrBold}},
		{"class:menu,error", Style{Foreground: ColorFromIndex(1), Background: ColorFromIndex(4)}},
		{"class:error underline", Style{Foreground: ColorFromIndex(1), Background: ColorDefault, Attributes: AttrUnderline}},
		{"class:unknown", DefaultStyle()},
		{"class:error fg:bogus", Style{Foreground: ColorFromIndex(1), Background: ColorDefault}},
	}
	for _, tt := range tests {
		if got := ss.Resolve(tt.spec); !got.Equals(tt.want) {
			t.Errorf("Resolve(%q) = %+v, want %+v", tt.spec, got, tt.want)
		}
	}
}

func TestStyleSheetSetInvalidatesCache(t *testing.T) {
	ss := DefaultStyleSheet()
	before := ss.Resolve("class:prompt")
	if !before.Attributes.Has(AttrBold) {
		t.Fatalf("prompt should be bold, got %+v", before)
	}
	if err := ss.Set("prompt", "italic"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	after := ss.Resolve("class:prompt")
	if after.Attributes.Has(AttrBold) || !after.Attributes.Has(AttrItalic) {
		t.Errorf("prompt after Set = %+v, want italic only", after)
	}
	if err := ss.Set("prompt", "fg:#zz"); err == nil {
		t.Error("Set with a bad color should fail")
	}
}
