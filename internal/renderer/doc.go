// Package renderer turns a layout tree into terminal output.
//
// Each call to Render paints the tree onto a fresh core.Screen and
// compares it with the previous frame. Only rows that changed produce
// commands, one cursor move per changed span and one write per style
// run. Cursor placement and visibility follow the writes.
//
// The layering is:
//
//	┌─────────────────────────────────────────┐
//	│      Renderer (frame diff, commands)    │
//	├─────────────────────────────────────────┤
//	│  layout: containers, windows, controls  │
//	├─────────────────────────────────────────┤
//	│  core: cells, styles, screens           │
//	├─────────────────────────────────────────┤
//	│  backend: VT100 │ tcell │ Recorder      │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	r := renderer.New(renderer.Options{})
//	cmds := r.Render(tree, size)
//	err := renderer.Apply(out, cmds)
package renderer
