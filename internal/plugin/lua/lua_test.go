package lua

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/key"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/renderer/core"
)

func TestSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`ok = dofile == nil and loadfile == nil and load == nil and loadstring == nil`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if s.GetGlobal("ok") != lua.LTrue {
		t.Error("file loading functions are still available")
	}

	for _, lib := range []string{"os", "io", "debug"} {
		if err := s.DoString(`require("` + lib + `")`); err == nil {
			t.Errorf("require(%q) succeeded", lib)
		}
	}

	if err := s.DoString(`assert(string.upper("a") == "A" and math.max(1, 2) == 2)`); err != nil {
		t.Errorf("safe libraries missing: %v", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed = false after Close")
	}
	if err := s.DoString("x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString after Close = %v, want ErrStateClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestExecutionTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString("while true do end")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("err = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable after a timeout.
	if err := s.DoString("x = 1"); err != nil {
		t.Errorf("DoString after timeout: %v", err)
	}
}

func TestCall(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function add(a, b) return a + b, "done" end`); err != nil {
		t.Fatal(err)
	}
	fn, ok := s.GetGlobal("add").(*lua.LFunction)
	if !ok {
		t.Fatal("add is not a function")
	}
	got, err := s.Call(fn, 2, lua.LNumber(2), lua.LNumber(3))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(got) != 2 || got[0] != lua.LNumber(5) || got[1] != lua.LString("done") {
		t.Errorf("Call = %v", got)
	}
}

func TestToGoValue(t *testing.T) {
	s := NewState()
	defer s.Close()

	tests := []struct {
		code string
		want any
	}{
		{`v = 42`, int64(42)},
		{`v = 1.5`, 1.5},
		{`v = "s"`, "s"},
		{`v = true`, true},
		{`v = {1, 2, 3}`, []any{int64(1), int64(2), int64(3)}},
		{`v = {a = "x", b = {true}}`, map[string]any{"a": "x", "b": []any{true}}},
		{`v = function() end`, nil},
	}
	for _, tt := range tests {
		if err := s.DoString(tt.code); err != nil {
			t.Fatalf("%s: %v", tt.code, err)
		}
		if got := ToGoValue(s.GetGlobal("v")); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %#v, want %#v", tt.code, got, tt.want)
		}
	}
}

func TestToGoValueCycle(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`v = {}; v.self = v`); err != nil {
		t.Fatal(err)
	}
	got, ok := ToGoValue(s.GetGlobal("v")).(map[string]any)
	if !ok || got["self"] != nil {
		t.Errorf("cycle = %#v", got)
	}
}

func TestToLuaValue(t *testing.T) {
	s := NewState()
	defer s.Close()

	v := ToLuaValue(s.L, map[string]any{"n": 3, "list": []string{"a", "b"}})
	tbl, ok := v.(*lua.LTable)
	if !ok {
		t.Fatalf("got %T", v)
	}
	if tbl.RawGetString("n") != lua.LNumber(3) {
		t.Errorf("n = %v", tbl.RawGetString("n"))
	}
	list, ok := tbl.RawGetString("list").(*lua.LTable)
	if !ok || list.Len() != 2 || list.RawGetInt(2) != lua.LString("b") {
		t.Errorf("list = %v", tbl.RawGetString("list"))
	}
	if ToLuaValue(s.L, struct{}{}) != lua.LNil {
		t.Error("unsupported type did not convert to nil")
	}
}

type recordingHost struct {
	input.NopHost
	accepted bool
}

func (h *recordingHost) Accept() { h.accepted = true }

func newTestHost(t *testing.T) (*Host, *input.Actions, *keymap.Registry, *core.StyleSheet) {
	t.Helper()
	actions := input.NewActions()
	registry := keymap.NewRegistry()
	styles := core.DefaultStyleSheet()
	h := NewHost(actions, registry, styles, nil)
	t.Cleanup(func() { h.Close() })
	return h, actions, registry, styles
}

func runAction(t *testing.T, actions *input.Actions, name string, ev *input.Event) error {
	t.Helper()
	fn, ok := actions.Lookup(name)
	if !ok {
		t.Fatalf("action %q not registered", name)
	}
	return fn(ev)
}

func TestHostAction(t *testing.T) {
	h, actions, _, _ := newTestHost(t)

	err := h.LoadString("shout.lua", `
local pl = require("promptline")
pl.action("shout", function(ev)
	local text = string.upper(pl.text())
	for i = 2, ev.count do
		text = text .. "!"
	end
	pl.set_text(text)
	pl.set_cursor(0)
end)
`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	b := buffer.New(buffer.WithText("hi"))
	ev := &input.Event{
		Keys:     key.MustParseSequence("<C-u>"),
		Count:    3,
		HasCount: true,
		Buffer:   b,
		Modes:    mode.NewManager(mode.Emacs),
		Host:     input.NopHost{},
	}
	if err := runAction(t, actions, "shout", ev); err != nil {
		t.Fatalf("action: %v", err)
	}
	if b.Text() != "HI!!" {
		t.Errorf("text = %q, want %q", b.Text(), "HI!!")
	}
	if b.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", b.Cursor())
	}
}

func TestHostEventTable(t *testing.T) {
	h, actions, _, _ := newTestHost(t)

	err := h.LoadString("event.lua", `
promptline.action("inspect", function(ev)
	promptline.insert(ev.mode .. ":" .. ev.args.word .. ":" .. tostring(ev.has_count))
	promptline.set_mode("vi-navigation")
	promptline.accept()
end)
`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	binding := keymap.MustBind("x", "inspect", mode.All).WithArgs(map[string]any{"word": "hello"})
	host := &recordingHost{}
	modes := mode.NewManager(mode.ViInsert)
	b := buffer.New()
	ev := &input.Event{
		Keys:    key.MustParseSequence("x"),
		Count:   1,
		Binding: &binding,
		Buffer:  b,
		Modes:   modes,
		Host:    host,
	}
	if err := runAction(t, actions, "inspect", ev); err != nil {
		t.Fatalf("action: %v", err)
	}
	if b.Text() != "vi-insert:hello:false" {
		t.Errorf("text = %q", b.Text())
	}
	if modes.Current() != mode.ViNavigation {
		t.Errorf("mode = %v, want vi-navigation", modes.Current())
	}
	if !host.accepted {
		t.Error("accept was not forwarded to the host")
	}
}

func TestHostDelete(t *testing.T) {
	h, actions, _, _ := newTestHost(t)

	err := h.LoadString("del.lua", `
promptline.action("chop", function()
	removed = promptline.delete(-2) .. "|" .. promptline.delete(1)
end)
`)
	if err != nil {
		t.Fatal(err)
	}
	b := buffer.New(buffer.WithText("abcdef"))
	b.SetCursor(3)
	ev := &input.Event{Count: 1, Buffer: b, Modes: mode.NewManager(mode.Emacs), Host: input.NopHost{}}
	if err := runAction(t, actions, "chop", ev); err != nil {
		t.Fatalf("action: %v", err)
	}
	if b.Text() != "aef" {
		t.Errorf("text = %q, want %q", b.Text(), "aef")
	}
	if got := h.state.GetGlobal("removed"); got != lua.LString("bc|d") {
		t.Errorf("removed = %v", got)
	}
}

func TestHostActionError(t *testing.T) {
	h, actions, _, _ := newTestHost(t)

	if err := h.LoadString("boom.lua", `promptline.action("boom", function() error("boom") end)`); err != nil {
		t.Fatal(err)
	}
	ev := &input.Event{Count: 1, Buffer: buffer.New(), Modes: mode.NewManager(mode.Emacs)}
	err := runAction(t, actions, "boom", ev)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v, want boom", err)
	}

	// Buffer access is over once the action returns.
	if err := h.LoadString("late.lua", `promptline.text()`); err == nil {
		t.Error("buffer access outside an action succeeded")
	}
}

func TestHostBufferOutsideAction(t *testing.T) {
	h, _, _, _ := newTestHost(t)

	err := h.LoadString("early.lua", `promptline.insert("x")`)
	if err == nil || !strings.Contains(err.Error(), ErrNoAction.Error()) {
		t.Errorf("err = %v, want %v", err, ErrNoAction)
	}
}

func TestHostBind(t *testing.T) {
	h, _, registry, _ := newTestHost(t)

	err := h.LoadString("bind.lua", `
promptline.bind("C-x u", "shout", {
	mode = "emacs",
	priority = 5,
	args = { loud = true },
	description = "shout the line",
})
`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	seq := key.MustParseSequence("C-x u")
	b := registry.Exact(seq, mode.Emacs, keymap.NewLookupContext())
	if b == nil {
		t.Fatal("binding not registered")
	}
	if b.Action != "shout" || b.Priority != 5 || b.Description != "shout the line" {
		t.Errorf("binding = %+v", b)
	}
	if v, _ := b.Arg("loud"); v != true {
		t.Errorf("arg loud = %v", v)
	}
	if registry.Exact(seq, mode.ViInsert, keymap.NewLookupContext()) != nil {
		t.Error("binding active outside emacs mode")
	}

	if err := h.LoadString("bad.lua", `promptline.bind("C-x", "a", { mode = "nosuchmode" })`); err == nil {
		t.Error("bad mode accepted")
	}
}

func TestHostStyle(t *testing.T) {
	h, _, _, styles := newTestHost(t)

	if err := h.LoadString("style.lua", `promptline.style("prompt", "fg:ansigreen bold")`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	want, _ := core.ParseStyle("fg:ansigreen bold")
	if got := styles.Resolve("class:prompt"); !got.Equals(want) {
		t.Errorf("prompt style = %+v, want %+v", got, want)
	}

	if err := h.LoadString("bad.lua", `promptline.style("prompt", "fg:nosuchcolor")`); err == nil {
		t.Error("bad style accepted")
	}
}

func TestHostLoadAll(t *testing.T) {
	h, actions, _, _ := newTestHost(t)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.lua")
	bad := filepath.Join(dir, "bad.lua")
	if err := os.WriteFile(good, []byte(`promptline.action("noop", function() end)`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`this is not lua`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := h.LoadAll([]string{bad, good, filepath.Join(dir, "missing.lua")})
	if err == nil {
		t.Fatal("LoadAll reported no error")
	}
	if !strings.Contains(err.Error(), "bad.lua") || !strings.Contains(err.Error(), "missing.lua") {
		t.Errorf("err = %v", err)
	}
	if !actions.Has("noop") {
		t.Error("good plugin was not loaded")
	}
}
