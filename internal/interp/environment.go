package interp

import "sync"

// Environment is a scope: a name-to-Value mapping plus a link to its
// lexically enclosing scope, with a globals back-pointer and a per-scope
// declaredGlobal set backing the `global` keyword.
type Environment struct {
	mu             sync.RWMutex
	store          map[string]Value
	outer          *Environment
	globals        *Environment
	declaredGlobal map[string]bool
}

// NewGlobals constructs the root context. Built-in registration happens
// separately (RegisterBuiltins) so Environment itself stays free of a
// builtins dependency.
func NewGlobals() *Environment {
	env := &Environment{store: make(map[string]Value)}
	env.globals = env
	return env
}

// NewEnclosed constructs a child scope whose enclosing scope is the
// caller-supplied outer environment: the definition-time context for
// closures, not the call site.
func NewEnclosed(outer *Environment) *Environment {
	return &Environment{
		store:   make(map[string]Value),
		outer:   outer,
		globals: outer.globals,
	}
}

// DeclareGlobal records name as declared global in this scope:
// subsequent Get/Set on name in this scope hit globals instead of the
// local store.
func (e *Environment) DeclareGlobal(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.declaredGlobal == nil {
		e.declaredGlobal = make(map[string]bool)
	}
	e.declaredGlobal[name] = true
}

func (e *Environment) isDeclaredGlobal(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.declaredGlobal[name]
}

// Get resolves name: declared-global names go straight to globals;
// otherwise check local vars, then walk the enclosing chain, then
// globals; NameError if nowhere found.
func (e *Environment) Get(name string) (Value, error) {
	if e.isDeclaredGlobal(name) {
		if v, ok := e.globals.getLocal(name); ok {
			return v, nil
		}
		return nil, newScriptError(ErrName, "name '%s' is not defined", name)
	}
	for env := e; env != nil; env = env.outer {
		if v, ok := env.getLocal(name); ok {
			return v, nil
		}
	}
	return nil, newScriptError(ErrName, "name '%s' is not defined", name)
}

// getLocal returns the value bound to name in this scope only.
func (e *Environment) getLocal(name string) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.store[name]
	return v, ok
}

// Set writes declared-global names to globals; everything else goes to
// the innermost (local) scope.
func (e *Environment) Set(name string, v Value) {
	if e.isDeclaredGlobal(name) {
		e.globals.setLocal(name, v)
		return
	}
	e.setLocal(name, v)
}

func (e *Environment) setLocal(name string, v Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store[name] = v
}

// Delete removes name from the owning scope; NameError if absent
// anywhere in the chain.
func (e *Environment) Delete(name string) error {
	for env := e; env != nil; env = env.outer {
		env.mu.Lock()
		if _, ok := env.store[name]; ok {
			delete(env.store, name)
			env.mu.Unlock()
			return nil
		}
		env.mu.Unlock()
	}
	return newScriptError(ErrName, "name '%s' is not defined", name)
}

// Globals returns the root environment for this chain.
func (e *Environment) Globals() *Environment { return e.globals }
