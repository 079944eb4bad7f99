// Package key defines the key press values produced by the terminal decoder
// and consumed by the binding dispatcher.
//
// A key press is identified by a Key, an optional Rune for character keys,
// and Modifier bits. Control characters decode to character keys with
// ModCtrl set, so Ctrl-A is {Key: KeyRune, Rune: 'a', Modifiers: ModCtrl}.
//
// # Key Specifications
//
// Binding tables name keys with specification strings:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+F4", "c-x"
//   - Vim-style: "<C-s>", "<A-f>", "<S-Tab>", "<CR>", "<Esc>"
//   - Wildcard: "<Any>" matches any single printable character
//
// Sequences are written space separated ("g g", "C-x C-e") or as a
// continuous Vim-style string ("gg", "<C-x><C-e>", "d2w").
package key
