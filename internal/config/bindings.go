package config

import (
	"fmt"
	"strconv"

	"github.com/dshills/promptline/internal/input/keymap"
	"github.com/dshills/promptline/internal/input/mode"
)

// BindingConfig is a key binding from the config file.
//
//	[[bindings]]
//	mode = "vi-navigation"
//	keys = "g h"
//	action = "cursor.lineStart"
//	when = "!completing"
type BindingConfig struct {
	// Mode is a comma separated mode list ("vi", "emacs,vi-insert").
	// Empty means all modes.
	Mode string `json:"mode"`

	// Keys is the key sequence that triggers this binding.
	Keys string `json:"keys"`

	// Action is the command to execute.
	Action string `json:"action"`

	// When is a condition expression that must be true for this binding.
	When string `json:"when"`

	// Args are fixed arguments for the action.
	Args map[string]any `json:"args"`

	// Priority determines precedence when multiple bindings match.
	Priority int `json:"priority"`

	// Eager runs the binding without waiting for longer matches.
	Eager bool `json:"eager"`

	// Description provides documentation for the binding.
	Description string `json:"description"`
}

// Compile turns the entry into a keymap binding.
func (b BindingConfig) Compile() (keymap.Binding, error) {
	modes := mode.All
	if b.Mode != "" {
		var err error
		if modes, err = mode.ParseSet(b.Mode); err != nil {
			return keymap.Binding{}, err
		}
	}

	kb, err := keymap.New(b.Keys, b.Action, modes)
	if err != nil {
		return keymap.Binding{}, err
	}
	if b.When != "" {
		f, err := keymap.ParseCondition(b.When)
		if err != nil {
			return keymap.Binding{}, fmt.Errorf("when %q: %w", b.When, err)
		}
		kb = kb.WithWhen(f)
	}
	kb = kb.WithArgs(b.Args).WithPriority(b.Priority).WithDescription(b.Description)
	if b.Eager {
		kb = kb.AsEager()
	}
	return kb, nil
}

// KeyBindings compiles every configured binding. It fails on the first
// entry that does not compile; Validate reports them all.
func (c *Config) KeyBindings() ([]keymap.Binding, error) {
	out := make([]keymap.Binding, 0, len(c.Bindings))
	for i, b := range c.Bindings {
		kb, err := b.Compile()
		if err != nil {
			return nil, fmt.Errorf("bindings[%d]: %w", i, err)
		}
		out = append(out, kb)
	}
	return out, nil
}

func bindingPath(i int) string {
	return "bindings." + strconv.Itoa(i)
}
