// Package config loads promptline settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← PROMPTLINE_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML, by extension
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// The file and environment layers are read into maps by the loader
// package and merged. The merged map is checked against a JSON schema,
// decoded over Default, and validated: styles must parse, bindings must
// compile, durations must be positive.
//
// # Sections
//
//	[editing]   mode, ambiguity and escape timeouts, pending key limit,
//	            undo history limit, auto-indent, multiline, tab width
//	[render]    color mode, mouse, bracketed paste, completion rows,
//	            fullscreen
//	[styles]    class name → style string
//	[[bindings]] mode, keys, action, when, args
//	[plugins]   Lua files
//	[log]       level, file
//
// # Live Reload
//
// Watcher reloads the file when it changes, after a short debounce, and
// hands the new Config to a callback. The callback runs on the watcher's
// goroutine; sessions post it onto their event loop.
package config
