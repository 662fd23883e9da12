// Package pyjinn is the public embedding API: parse a pre-parsed JSON
// AST, run it, call its functions from Go, and bind Go values/functions
// into its global scope. The host hands the interpreter an
// already-parsed AST; there is no source-text surface.
package pyjinn

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/maxuser0/pyjinn/internal/ast"
	"github.com/maxuser0/pyjinn/internal/astdecode"
	"github.com/maxuser0/pyjinn/internal/hostbridge"
	"github.com/maxuser0/pyjinn/internal/interp"
)

// Script is one loaded program: its decoded module, its evaluator, and
// its root environment. A Script is not safe for concurrent use. Each
// Script builds its own hostbridge.Bridge, so its overload cache is not
// shared with other Scripts; the Registry passed to New is the state
// several Scripts can share, and it is safe for concurrent reads.
type Script struct {
	// ID is a per-Script correlation id, useful for embedders that log
	// across many concurrently running Scripts sharing one Registry.
	ID string

	globals *interp.Environment
	ev      *interp.Evaluator
	bridge  *hostbridge.Bridge
	module  *ast.Module
}

// New constructs a Script with an empty global scope and every builtin
// registered. reg may be nil for scripts that never reference a host
// class; pass a populated *hostbridge.Registry (it may be shared across
// Scripts, being safe for concurrent reads; each Script still gets a new
// Bridge and overload cache over it) to expose host classes via
// JavaClass(...).
func New(reg *hostbridge.Registry) *Script {
	if reg == nil {
		reg = hostbridge.NewRegistry()
	}
	bridge := hostbridge.New(reg)
	ev := interp.NewEvaluator(bridge)
	globals := interp.NewGlobals()
	interp.RegisterBuiltins(globals, ev)
	return &Script{
		ID:      uuid.NewString(),
		globals: globals,
		ev:      ev,
		bridge:  bridge,
	}
}

// resolverAdapter satisfies astdecode.HostClassResolver by delegating to
// a Bridge's registry, bridging the decode-time existence check
// (astdecode only needs to know a class exists) and the runtime
// ResolveClass (interp needs the actual HostClass handle), which are
// deliberately two different interfaces so astdecode never has to import
// interp.HostBridge's fuller surface.
type resolverAdapter struct{ bridge *hostbridge.Bridge }

func (r resolverAdapter) ResolveHostClass(name string) error {
	_, err := r.bridge.ResolveClass(name)
	return err
}

// Parse decodes astJSON (a {"type":"Module",...} document) into this
// Script's module. Must be called before Exec.
func (s *Script) Parse(astJSON []byte) error {
	dec := astdecode.New()
	dec.Resolver = resolverAdapter{bridge: s.bridge}
	mod, err := dec.Decode(astJSON)
	if err != nil {
		return fmt.Errorf("pyjinn: parse: %w", err)
	}
	s.module = mod
	return nil
}

// Exec runs the parsed module's top-level statements against the
// Script's global scope, in program order. Call Parse first.
func (s *Script) Exec() error {
	if s.module == nil {
		return fmt.Errorf("pyjinn: Exec called before Parse")
	}
	frame := &interp.Frame{}
	result := s.ev.EvalBlock(s.module.Body, s.globals, frame)
	return signalToError(result)
}

// signalToError converts EvalBlock's terminal signal Value into the
// (error) a Go embedder expects: a thrown/error signal becomes the
// *interp.ScriptError it already carries; return/break/continue escaping
// top level, and a clean fall-through, are not errors.
func signalToError(result interp.Value) error {
	if err, ok := interp.AsError(result); ok {
		return err
	}
	return nil
}

// GetFunction looks up a top-level callable by name for use with Invoke.
func (s *Script) GetFunction(name string) (interp.Value, error) {
	v, err := s.globals.Get(name)
	if err != nil {
		return nil, fmt.Errorf("pyjinn: %w", err)
	}
	switch v.(type) {
	case *interp.Function, *interp.Lambda, *interp.BoundFunction, *interp.NativeFn:
		return v, nil
	default:
		return nil, fmt.Errorf("pyjinn: %q is not callable (got %s)", name, v.Kind())
	}
}

// Invoke calls fn (as returned by GetFunction) with args, converting
// args to script Values and the result back to a Go value the same way a
// host call's return value is converted — the host<->script boundary run
// in reverse for a Go-initiated call.
func (s *Script) Invoke(fn interp.Value, args ...any) (any, error) {
	scriptArgs := make([]interp.Value, len(args))
	for i, a := range args {
		v, err := s.bridge.ToValue(a)
		if err != nil {
			return nil, fmt.Errorf("pyjinn: argument %d: %w", i, err)
		}
		scriptArgs[i] = v
	}
	result, err := s.ev.Apply(fn, scriptArgs)
	if err != nil {
		return nil, err
	}
	return s.bridge.FromValueAny(result)
}

// RedirectStdout changes where print() writes; defaults to os.Stdout.
func (s *Script) RedirectStdout(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	s.ev.Stdout = w
}

// SetGlobal binds a Go value into the script's global scope under name,
// converting it the same way a host field read would.
func (s *Script) SetGlobal(name string, val any) error {
	v, err := s.bridge.ToValue(val)
	if err != nil {
		return fmt.Errorf("pyjinn: %w", err)
	}
	s.globals.Set(name, v)
	return nil
}

// GetGlobal reads a global by name and converts it back to a Go value.
func (s *Script) GetGlobal(name string) (any, error) {
	v, err := s.globals.Get(name)
	if err != nil {
		return nil, fmt.Errorf("pyjinn: %w", err)
	}
	return s.bridge.FromValueAny(v)
}

// Bind registers fn (a Go function value) into global scope under name,
// callable from script like any native builtin: scripts never see the Go
// signature, only a callable that performs argument/result conversion
// around it.
func (s *Script) Bind(name string, fn any) error {
	v, err := s.bridge.ToValue(fn)
	if err != nil {
		return fmt.Errorf("pyjinn: bind %q: %w", name, err)
	}
	s.globals.Set(name, v)
	return nil
}
