package lua

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/promptline/internal/config"
	"github.com/dshills/promptline/internal/input"
	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/mode"
	"github.com/dshills/promptline/internal/logging"
	"github.com/dshills/promptline/internal/renderer/core"
)

// ModuleName is the name plugins require.
const ModuleName = "promptline"

// Host exposes the action registry, key bindings and style sheet to Lua
// plugins. All plugins share one Lua state.
type Host struct {
	state    *State
	actions  *input.Actions
	bindings *keymap.Registry
	styles   *core.StyleSheet
	logger   *logging.Logger

	// current is the event of the Lua action being run.
	current *input.Event
	// loading is the plugin file being loaded, for log messages.
	loading string
}

// NewHost creates a plugin host. styles may be nil, in which case
// promptline.style raises an error.
func NewHost(actions *input.Actions, bindings *keymap.Registry, styles *core.StyleSheet, logger *logging.Logger, opts ...StateOption) *Host {
	if logger == nil {
		logger = logging.Nop()
	}
	h := &Host{
		state:    NewState(opts...),
		actions:  actions,
		bindings: bindings,
		styles:   styles,
		logger:   logger.WithComponent("lua"),
	}
	h.state.L.PreloadModule(ModuleName, h.loader)
	_ = h.state.With(func(L *lua.LState) error {
		L.SetGlobal(ModuleName, h.module(L))
		return nil
	})
	return h
}

// Load runs a plugin file.
func (h *Host) Load(path string) error {
	h.loading = filepath.Base(path)
	defer func() { h.loading = "" }()
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("plugin %s: %w", path, err)
	}
	h.logger.Debug("loaded plugin %s", path)
	return nil
}

// LoadAll runs each plugin file in order. A failing plugin is logged and
// skipped; the joined errors are returned.
func (h *Host) LoadAll(paths []string) error {
	var errs []string
	for _, p := range paths {
		if err := h.Load(p); err != nil {
			h.logger.Error("%v", err)
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadString runs plugin source code.
func (h *Host) LoadString(name, code string) error {
	h.loading = name
	defer func() { h.loading = "" }()
	if err := h.state.DoString(code); err != nil {
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	return nil
}

// Close releases the Lua state. Actions registered by plugins fail
// afterwards.
func (h *Host) Close() error {
	return h.state.Close()
}

func (h *Host) loader(L *lua.LState) int {
	L.Push(h.module(L))
	return 1
}

func (h *Host) module(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"action": h.luaAction,
		"bind":   h.luaBind,
		"style":  h.luaStyle,
		"log":    h.luaLog,

		"text":       h.luaText,
		"cursor":     h.luaCursor,
		"set_cursor": h.luaSetCursor,
		"insert":     h.luaInsert,
		"delete":     h.luaDelete,
		"set_text":   h.luaSetText,
		"mode":       h.luaMode,
		"set_mode":   h.luaSetMode,
		"accept":     h.luaAccept,
		"abort":      h.luaAbort,
		"invalidate": h.luaInvalidate,
	})
}

// luaAction registers promptline.action(name, fn).
func (h *Host) luaAction(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	h.actions.Register(name, func(ev *input.Event) error {
		return h.state.With(func(L *lua.LState) error {
			h.current = ev
			defer func() { h.current = nil }()
			return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, eventTable(L, ev))
		})
	})
	return 0
}

func eventTable(L *lua.LState, ev *input.Event) *lua.LTable {
	t := L.NewTable()
	var data strings.Builder
	for _, k := range ev.Keys {
		data.WriteString(k.Data)
	}
	t.RawSetString("keys", lua.LString(ev.Keys.String()))
	t.RawSetString("data", lua.LString(data.String()))
	t.RawSetString("count", lua.LNumber(ev.Count))
	t.RawSetString("has_count", lua.LBool(ev.HasCount))
	if ev.Modes != nil {
		t.RawSetString("mode", lua.LString(ev.Mode().String()))
	}
	if ev.Binding != nil && len(ev.Binding.Args) > 0 {
		t.RawSetString("args", ToLuaValue(L, ev.Binding.Args))
	}
	return t
}

// luaBind adds promptline.bind(keys, action [, opts]).
func (h *Host) luaBind(L *lua.LState) int {
	bc := config.BindingConfig{
		Keys:   L.CheckString(1),
		Action: L.CheckString(2),
	}
	if opts := L.OptTable(3, nil); opts != nil {
		bc.Mode = tableString(opts, "mode")
		bc.When = tableString(opts, "when")
		bc.Priority = tableInt(opts, "priority")
		bc.Eager = tableBool(opts, "eager")
		bc.Description = tableString(opts, "description")
		if args, ok := ToGoValue(opts.RawGetString("args")).(map[string]any); ok {
			bc.Args = args
		}
	}
	kb, err := bc.Compile()
	if err != nil {
		L.RaiseError("bind: %v", err)
		return 0
	}
	if err := h.bindings.Add(kb); err != nil {
		L.RaiseError("bind: %v", err)
	}
	return 0
}

// luaStyle sets promptline.style(class, spec).
func (h *Host) luaStyle(L *lua.LState) int {
	class := L.CheckString(1)
	spec := L.CheckString(2)
	if h.styles == nil {
		L.RaiseError("style: no style sheet")
		return 0
	}
	if err := h.styles.Set(class, spec); err != nil {
		L.RaiseError("style: %v", err)
	}
	return 0
}

func (h *Host) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	if h.loading != "" {
		h.logger.Info("%s: %s", h.loading, msg)
	} else {
		h.logger.Info("%s", msg)
	}
	return 0
}

// event returns the running action's event or raises ErrNoAction.
func (h *Host) event(L *lua.LState) *input.Event {
	if h.current == nil || h.current.Buffer == nil {
		L.RaiseError("%v", ErrNoAction)
	}
	return h.current
}

func (h *Host) luaText(L *lua.LState) int {
	L.Push(lua.LString(h.event(L).Buffer.Text()))
	return 1
}

func (h *Host) luaCursor(L *lua.LState) int {
	L.Push(lua.LNumber(h.event(L).Buffer.Cursor()))
	return 1
}

func (h *Host) luaSetCursor(L *lua.LState) int {
	ev := h.event(L)
	ev.Buffer.SetCursor(L.CheckInt(1))
	return 0
}

func (h *Host) luaInsert(L *lua.LState) int {
	ev := h.event(L)
	if err := ev.Buffer.Insert(L.CheckString(1)); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// luaDelete deletes n runes after the cursor, or before it when n is
// negative, and returns the deleted text.
func (h *Host) luaDelete(L *lua.LState) int {
	ev := h.event(L)
	n := L.CheckInt(1)
	var (
		deleted string
		err     error
	)
	if n < 0 {
		deleted, err = ev.Buffer.DeleteBefore(-n)
	} else {
		deleted, err = ev.Buffer.DeleteAfter(n)
	}
	if err != nil {
		L.RaiseError("delete: %v", err)
		return 0
	}
	L.Push(lua.LString(deleted))
	return 1
}

func (h *Host) luaSetText(L *lua.LState) int {
	ev := h.event(L)
	text := L.CheckString(1)
	end := utf8.RuneCountInString(ev.Buffer.Text())
	if err := ev.Buffer.Replace(0, end, text); err != nil {
		L.RaiseError("set_text: %v", err)
	}
	return 0
}

func (h *Host) luaMode(L *lua.LState) int {
	ev := h.event(L)
	if ev.Modes == nil {
		L.Push(lua.LString(mode.Emacs.String()))
		return 1
	}
	L.Push(lua.LString(ev.Mode().String()))
	return 1
}

func (h *Host) luaSetMode(L *lua.LState) int {
	ev := h.event(L)
	m, err := mode.Parse(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	if ev.Modes != nil {
		ev.SwitchMode(m)
	}
	return 0
}

func (h *Host) luaAccept(L *lua.LState) int {
	if ev := h.event(L); ev.Host != nil {
		ev.Host.Accept()
	}
	return 0
}

func (h *Host) luaAbort(L *lua.LState) int {
	if ev := h.event(L); ev.Host != nil {
		ev.Host.Abort()
	}
	return 0
}

func (h *Host) luaInvalidate(L *lua.LState) int {
	if ev := h.event(L); ev.Host != nil {
		ev.Host.Invalidate()
	}
	return 0
}
