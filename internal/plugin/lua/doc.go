// Package lua runs Lua plugins that add actions, key bindings and styles.
//
// Plugins run in a sandboxed gopher-lua state: io, os and debug are not
// opened, files cannot be loaded from Lua, and every call runs under an
// execution timeout. A plugin talks to promptline through the preloaded
// "promptline" module, also available as a global:
//
//	local pl = require("promptline")
//
//	pl.action("shout", function(ev)
//	    pl.set_text(string.upper(pl.text()))
//	end)
//	pl.bind("C-x u", "shout", { mode = "emacs" })
//	pl.style("prompt", "fg:ansigreen bold")
//
// Actions receive an event table with the triggering keys, typed data,
// count, mode and binding args. The buffer functions (text, cursor,
// insert, delete, ...) work only while an action runs. Offsets are rune
// indexes starting at 0.
package lua
