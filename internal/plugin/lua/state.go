package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds each call into Lua.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua with a sandbox and an execution timeout.
//
// gopher-lua's LState is not goroutine-safe. State serializes every entry
// into Lua with a mutex; Go functions called back from Lua run with the
// mutex held and must not re-enter State.
type State struct {
	L *lua.LState

	mu               sync.Mutex
	executionTimeout time.Duration
	closed           bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for Lua calls. Zero
// disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{executionTimeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	installSandbox(s.L)
	return s
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.With(func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	return s.With(func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// Call calls fn with args and returns its results.
func (s *State) Call(fn *lua.LFunction, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.With(func(L *lua.LState) error {
		top := L.GetTop()
		if err := L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
			return err
		}
		n := L.GetTop() - top
		results = make([]lua.LValue, n)
		for i := range n {
			results[i] = L.Get(top + i + 1)
		}
		L.Pop(n)
		return nil
	})
	return results, err
}

// With runs fn with exclusive access to the Lua state, under the
// execution timeout. Panics inside fn become errors.
func (s *State) With(fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
		defer func() {
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
			}
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn(s.L)
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	var v lua.LValue = lua.LNil
	_ = s.With(func(L *lua.LState) error {
		v = L.GetGlobal(name)
		return nil
	})
	return v
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
