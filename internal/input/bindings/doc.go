// Package bindings provides the default key bindings and the actions they
// run: basic editing shared by all modes, Emacs, Vi (insert, navigation,
// replace and visual) and the completion menu.
//
// Install wires everything into a registry and an action table:
//
//	reg := keymap.NewRegistry()
//	acts := input.NewActions()
//	if err := bindings.Install(reg, acts); err != nil {
//	    return err
//	}
//	p := input.New(reg, acts, modes, input.WithEnv(env))
//
// Action names use dotted namespaces (cursor.*, edit.*, session.*,
// completion.*, macro.*, vi.*) so user configuration can rebind them.
// Vi motions, operators and text objects share one action each and carry
// their names in binding arguments, which keeps the tables generated from
// the vim package in step with it.
package bindings
