package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// installSandbox opens the safe standard libraries and removes every way
// to load code from disk.
func installSandbox(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	lua.OpenCoroutine(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	// require still resolves preloaded modules and the libraries opened
	// above; the empty search paths stop it from reading files.
	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
		L.SetField(pkg, "loadlib", lua.LNil)
	}
}
