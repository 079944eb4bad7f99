package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/promptline/internal/input/mode"
)

// LookupContext carries the state filters are evaluated against.
type LookupContext struct {
	// Conditions holds named boolean state such as "completing",
	// "has_selection" or "multiline".
	Conditions map[string]bool

	// Variables holds named string state compared with ==.
	Variables map[string]string
}

// NewLookupContext creates an empty lookup context.
func NewLookupContext() *LookupContext {
	return &LookupContext{
		Conditions: make(map[string]bool),
		Variables:  make(map[string]string),
	}
}

// Filter decides whether a binding is active. Filters must be pure: they
// may only read the mode and the context.
type Filter interface {
	Eval(m mode.Mode, ctx *LookupContext) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(m mode.Mode, ctx *LookupContext) bool

// Eval implements Filter.
func (f FilterFunc) Eval(m mode.Mode, ctx *LookupContext) bool { return f(m, ctx) }

// Always is the filter that is always true.
var Always Filter = FilterFunc(func(mode.Mode, *LookupContext) bool { return true })

// Condition is true when the named condition is set in the context.
func Condition(name string) Filter {
	return FilterFunc(func(_ mode.Mode, ctx *LookupContext) bool {
		return ctx != nil && ctx.Conditions[name]
	})
}

// Equals is true when the named variable has the given value.
func Equals(name, value string) Filter {
	return FilterFunc(func(_ mode.Mode, ctx *LookupContext) bool {
		if ctx == nil {
			return false
		}
		v, ok := ctx.Variables[name]
		return ok && v == value
	})
}

// InModes is true when the active mode is in s.
func InModes(s mode.Set) Filter {
	return FilterFunc(func(m mode.Mode, _ *LookupContext) bool { return s.Has(m) })
}

// Not negates f.
func Not(f Filter) Filter {
	return FilterFunc(func(m mode.Mode, ctx *LookupContext) bool { return !f.Eval(m, ctx) })
}

// And is true when every filter is true.
func And(fs ...Filter) Filter {
	return FilterFunc(func(m mode.Mode, ctx *LookupContext) bool {
		for _, f := range fs {
			if !f.Eval(m, ctx) {
				return false
			}
		}
		return true
	})
}

// Or is true when any filter is true.
func Or(fs ...Filter) Filter {
	return FilterFunc(func(m mode.Mode, ctx *LookupContext) bool {
		for _, f := range fs {
			if f.Eval(m, ctx) {
				return true
			}
		}
		return false
	})
}

// ParseCondition compiles a condition expression from a config file.
// Supported: name, !expr, expr && expr, expr || expr, name == value,
// name != value, and mode == <mode name>. || binds loosest.
func ParseCondition(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Always, nil
	}

	if left, right, ok := strings.Cut(expr, "||"); ok {
		return binary(left, right, Or)
	}
	if left, right, ok := strings.Cut(expr, "&&"); ok {
		return binary(left, right, And)
	}
	if name, value, ok := strings.Cut(expr, "!="); ok {
		f, err := comparison(name, value)
		if err != nil {
			return nil, err
		}
		return Not(f), nil
	}
	if name, value, ok := strings.Cut(expr, "=="); ok {
		return comparison(name, value)
	}
	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		f, err := ParseCondition(rest)
		if err != nil {
			return nil, err
		}
		return Not(f), nil
	}
	if strings.ContainsAny(expr, " \t=!&|") {
		return nil, fmt.Errorf("invalid condition %q", expr)
	}
	return Condition(expr), nil
}

func binary(left, right string, combine func(...Filter) Filter) (Filter, error) {
	if strings.TrimSpace(left) == "" || strings.TrimSpace(right) == "" {
		return nil, fmt.Errorf("missing operand in %q", left+"?"+right)
	}
	l, err := ParseCondition(left)
	if err != nil {
		return nil, err
	}
	r, err := ParseCondition(right)
	if err != nil {
		return nil, err
	}
	return combine(l, r), nil
}

func comparison(name, value string) (Filter, error) {
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if name == "" || value == "" {
		return nil, fmt.Errorf("invalid comparison %q == %q", name, value)
	}
	if name == "mode" {
		m, err := mode.Parse(value)
		if err != nil {
			return nil, err
		}
		return InModes(mode.Of(m)), nil
	}
	return Equals(name, value), nil
}
