package lua

import (
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// ToGoValue converts a Lua value to a Go value. Tables become []any when
// their keys are 1..n and map[string]any otherwise. Functions and cycles
// convert to nil.
func ToGoValue(lv lua.LValue) any {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'g', -1, 64)
		default:
			key = k.String()
		}
		m[key] = toGo(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value. Unsupported types
// convert to nil.
func ToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.CreateTable(len(val), 0)
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(ToLuaValue(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for k, item := range val {
			t.RawSetString(k, ToLuaValue(L, item))
		}
		return t
	case map[string]string:
		t := L.CreateTable(0, len(val))
		for k, s := range val {
			t.RawSetString(k, lua.LString(s))
		}
		return t
	default:
		return lua.LNil
	}
}

func tableString(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func tableInt(t *lua.LTable, key string) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

func tableBool(t *lua.LTable, key string) bool {
	return lua.LVAsBool(t.RawGetString(key))
}
