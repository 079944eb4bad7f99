package keymap

import (
	"testing"

	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/mode"
)

func seq(s string) key.Sequence { return key.MustParseSequence(s) }

func TestLookupExactAndLonger(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(
		MustBind("g", "g-action", mode.Of(mode.ViNavigation)),
		MustBind("gg", "go-top", mode.Of(mode.ViNavigation)),
		MustBind("x", "delete-char", mode.Of(mode.ViNavigation)),
	); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		keys   string
		exact  string
		longer bool
	}{
		{"g", "g-action", true},
		{"gg", "go-top", false},
		{"x", "delete-char", false},
		{"q", "", false},
		{"gq", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			exact, longer := r.Lookup(seq(tt.keys), mode.ViNavigation, nil)
			var got string
			if len(exact) > 0 {
				got = exact[0].Action
			}
			if got != tt.exact || longer != tt.longer {
				t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.keys, got, longer, tt.exact, tt.longer)
			}
		})
	}
}

func TestModesScopeBindings(t *testing.T) {
	r := NewRegistry()
	r.Add(
		MustBind("<C-a>", "emacs-home", mode.Of(mode.Emacs)),
		MustBind("<C-a>", "vi-increment", mode.Of(mode.ViNavigation)),
		MustBind("<C-c>", "abort", 0),
	)

	if b := r.Exact(seq("<C-a>"), mode.Emacs, nil); b == nil || b.Action != "emacs-home" {
		t.Errorf("emacs C-a = %v", b)
	}
	if b := r.Exact(seq("<C-a>"), mode.ViNavigation, nil); b == nil || b.Action != "vi-increment" {
		t.Errorf("vi C-a = %v", b)
	}
	if b := r.Exact(seq("<C-a>"), mode.ViInsert, nil); b != nil {
		t.Errorf("insert C-a = %v, want none", b)
	}
	if b := r.Exact(seq("<C-c>"), mode.ViVisualBlock, nil); b == nil {
		t.Error("zero mode set should match every mode")
	}
}

func TestFiltersHideLongerBindings(t *testing.T) {
	r := NewRegistry()
	r.Add(
		MustBind("<C-x>", "cut", mode.All),
		MustBind("<C-x><C-e>", "edit", mode.All).WithWhen(Condition("external_editor")),
	)

	ctx := NewLookupContext()
	if _, longer := r.Lookup(seq("<C-x>"), mode.Emacs, ctx); longer {
		t.Error("inactive longer binding should not make C-x ambiguous")
	}
	ctx.Conditions["external_editor"] = true
	if _, longer := r.Lookup(seq("<C-x>"), mode.Emacs, ctx); !longer {
		t.Error("active longer binding should make C-x ambiguous")
	}
}

func TestPriorityAndOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(
		MustBind("j", "first", mode.All),
		MustBind("j", "second", mode.All),
		MustBind("j", "low", mode.All).WithPriority(-1),
	)
	exact, _ := r.Lookup(seq("j"), mode.Emacs, nil)
	if len(exact) != 3 {
		t.Fatalf("len(exact) = %d", len(exact))
	}
	if exact[0].Action != "second" || exact[1].Action != "first" || exact[2].Action != "low" {
		t.Errorf("order = %s, %s, %s", exact[0].Action, exact[1].Action, exact[2].Action)
	}

	r.Add(MustBind("j", "high", mode.All).WithPriority(5))
	if b := r.Exact(seq("j"), mode.Emacs, nil); b.Action != "high" {
		t.Errorf("Exact() = %s, want high", b.Action)
	}
}

func TestWildcard(t *testing.T) {
	r := NewRegistry()
	r.Add(
		MustBind("f<Any>", "find-char", mode.Of(mode.ViNavigation)),
		MustBind("fx", "special", mode.Of(mode.ViNavigation)),
	)

	if _, longer := r.Lookup(seq("f"), mode.ViNavigation, nil); !longer {
		t.Error("f should be a prefix")
	}
	if b := r.Exact(seq("fz"), mode.ViNavigation, nil); b == nil || b.Action != "find-char" {
		t.Errorf("fz = %v", b)
	}
	if b := r.Exact(seq("fx"), mode.ViNavigation, nil); b == nil || b.Action != "special" {
		t.Errorf("fx = %v, exact key should beat wildcard", b)
	}
	if b := r.Exact(seq("f<C-a>"), mode.ViNavigation, nil); b != nil {
		t.Errorf("wildcard should not match control keys, got %v", b)
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(Binding{Action: "x"}); err == nil {
		t.Error("empty keys should fail")
	}
	if err := r.Add(Binding{Keys: seq("a")}); err == nil {
		t.Error("empty action should fail")
	}
}

func TestRemoveAction(t *testing.T) {
	r := NewRegistry()
	r.Add(
		MustBind("dd", "delete-line", mode.Vi),
		MustBind("dw", "delete-word", mode.Vi),
		MustBind("<C-d>", "delete-line", mode.Of(mode.Emacs)),
	)
	if n := r.RemoveAction("delete-line"); n != 2 {
		t.Errorf("RemoveAction() = %d, want 2", n)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if b := r.Exact(seq("dd"), mode.ViNavigation, nil); b != nil {
		t.Error("removed binding still found")
	}
	if _, longer := r.Lookup(seq("d"), mode.ViNavigation, nil); !longer {
		t.Error("dw should remain")
	}
	all := r.Bindings()
	if len(all) != 1 || all[0].Action != "delete-word" {
		t.Errorf("Bindings() = %v", all)
	}
}

func TestRemoveFunc(t *testing.T) {
	r := NewRegistry()
	r.Add(
		MustBind("dd", "delete-line", mode.Vi).WithPriority(5),
		MustBind("dd", "delete-line", mode.Vi),
		MustBind("<C-x>a", "abort", mode.Of(mode.Emacs)),
	)
	n := r.RemoveFunc(func(b Binding) bool {
		return b.Action == "delete-line" && b.Priority == 5
	})
	if n != 1 {
		t.Errorf("RemoveFunc() = %d, want 1", n)
	}
	b := r.Exact(seq("dd"), mode.ViNavigation, nil)
	if b == nil || b.Priority != 0 {
		t.Errorf("Exact(dd) = %v, want the priority 0 binding", b)
	}
	if n := r.RemoveFunc(func(Binding) bool { return false }); n != 0 {
		t.Errorf("RemoveFunc(none) = %d, want 0", n)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}
