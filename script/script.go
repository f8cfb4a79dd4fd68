// Package script loads action handlers written in Lua. A Source owns one
// Lua state; scripts call the global register(name, fn) to expose handler
// functions, and the host pulls them out as engine handlers.
package script

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	hub "github.com/yaijs/hub"
)

// ErrSourceClosed is returned when using a Source after Close.
var ErrSourceClosed = errors.New("script source is closed")

// Source holds a Lua state and the handlers scripts registered with it.
//
// gopher-lua's LState is not goroutine-safe, so every operation on the
// state (load, handler call) is serialized through mu. Dispatch from a
// debounce timer goroutine is therefore safe.
type Source struct {
	mu       sync.Mutex
	state    *lua.LState
	handlers map[string]*lua.LFunction
	closed   bool
}

// New creates an empty Source. Scripts loaded into it register handlers by
// calling register("name", function(action) ... end).
func New() *Source {
	s := &Source{
		state:    lua.NewState(),
		handlers: make(map[string]*lua.LFunction),
	}
	s.state.SetGlobal("register", s.state.NewFunction(s.luaRegister))
	return s
}

func (s *Source) luaRegister(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if name == "" {
		L.ArgError(1, "handler name must not be empty")
		return 0
	}
	s.handlers[name] = fn
	return 0
}

// Load runs a script file on the source's state.
func (s *Source) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	if err := s.state.DoFile(path); err != nil {
		return fmt.Errorf("script: load %s: %w", path, err)
	}
	return nil
}

// LoadString runs inline script source on the source's state.
func (s *Source) LoadString(src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	if err := s.state.DoString(src); err != nil {
		return fmt.Errorf("script: load: %w", err)
	}
	return nil
}

// Names lists the handler names scripts have registered so far.
func (s *Source) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	return names
}

// Handler returns the named scripted handler wrapped for the engine, or
// false when no script registered that name.
func (s *Source) Handler(name string) (hub.HandlerFunc, bool) {
	s.mu.Lock()
	fn, ok := s.handlers[name]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return s.wrap(fn), true
}

// Handlers returns every registered scripted handler, keyed by name and
// ready to hand to Engine.OnFunc or a global fallback table.
func (s *Source) Handlers() map[string]hub.HandlerFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]hub.HandlerFunc, len(s.handlers))
	for name, fn := range s.handlers {
		out[name] = s.wrap(fn)
	}
	return out
}

// wrap adapts one Lua function to the engine's handler contract. The Lua
// function receives a single action table and may return nothing, nil, or
// an error string.
func (s *Source) wrap(fn *lua.LFunction) hub.HandlerFunc {
	return func(ctx context.Context, act hub.Action) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return ErrSourceClosed
		}

		L := s.state
		L.Push(fn)
		L.Push(actionToLua(L, act))
		if err := L.PCall(1, 1, nil); err != nil {
			return fmt.Errorf("script: handler %q: %w", act.Handler, err)
		}

		ret := L.Get(-1)
		L.Pop(1)
		if msg, ok := toGo(ret).(string); ok && msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

// Eval runs an expression on the source's state and returns its first
// result converted to a Go value. Intended for tests and diagnostics.
func (s *Source) Eval(expr string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSourceClosed
	}
	if err := s.state.DoString("return " + expr); err != nil {
		return nil, fmt.Errorf("script: eval: %w", err)
	}
	ret := s.state.Get(-1)
	s.state.Pop(1)
	return toGo(ret), nil
}

// actionToLua builds the table a scripted handler receives.
func actionToLua(L *lua.LState, act hub.Action) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("type", lua.LString(act.Occurrence.Type))
	t.RawSetString("name", lua.LString(act.Name))
	t.RawSetString("handler", lua.LString(act.Handler))
	t.RawSetString("distance", lua.LNumber(act.Distance))
	t.RawSetString("payload", toLua(L, act.Occurrence.Payload))
	if act.Target != nil {
		t.RawSetString("tag", lua.LString(act.Target.Tag()))
	}
	return t
}

// Close releases the Lua state. Wrapped handlers called afterwards return
// ErrSourceClosed instead of touching the freed state.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.state.Close()
}
