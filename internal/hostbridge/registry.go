// Package hostbridge implements host interop: reflection-based
// field/method access against host-registered Go types, scored
// constructor/method overload resolution, and a concurrent
// signature-keyed cache. It implements interp.HostBridge, the interface
// internal/interp depends on, so internal/interp never imports this
// package directly.
package hostbridge

import (
	"fmt"
	"reflect"
	"sync"
)

// ClassSpec is one host class registered with a Registry: the Go type
// backing its instances, plus the overload sets an embedder exposes for
// construction and method dispatch.
type ClassSpec struct {
	Name string
	// GoType is the Go type instances of this class carry in their
	// HostObject.Handle, used by IsInstance and by field reflection.
	GoType reflect.Type
	// Constructors is the overload set for JavaClass("...")(...) calls.
	// Each must be a func value returning either T, *T, or (T, error)/(*T, error).
	Constructors []reflect.Value
	// Methods is keyed by method name; each entry is the overload set for
	// that name. Every func's first parameter is the receiver.
	Methods map[string][]reflect.Value
	// StaticMethods mirrors Methods but with no implicit receiver
	// parameter, for @staticmethod-equivalent host calls.
	StaticMethods map[string][]reflect.Value
	// StaticFields backs class-level (not instance) field get/set.
	StaticFields map[string]any
}

// Registry is the injected host-class capability: an embedder registers
// every class/type scripts may name via JavaClass("fully.Qualified.Name")
// before parsing, and Bridge consults it for every resolution, overload
// scan, and field access.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*ClassSpec
	byGoType map[reflect.Type]*ClassSpec
}

// NewRegistry returns an empty Registry; Register populates it.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*ClassSpec),
		byGoType: make(map[reflect.Type]*ClassSpec),
	}
}

// Register adds or replaces a class by its fully-qualified name.
func (r *Registry) Register(spec *ClassSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if spec.Methods == nil {
		spec.Methods = map[string][]reflect.Value{}
	}
	if spec.StaticMethods == nil {
		spec.StaticMethods = map[string][]reflect.Value{}
	}
	if spec.StaticFields == nil {
		spec.StaticFields = map[string]any{}
	}
	r.byName[spec.Name] = spec
	if spec.GoType != nil {
		r.byGoType[spec.GoType] = spec
	}
}

func (r *Registry) byNameLocked(name string) (*ClassSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.byName[name]
	return spec, ok
}

func (r *Registry) specForGoType(t reflect.Type) (*ClassSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for t != nil && t.Kind() == reflect.Ptr {
		if spec, ok := r.byGoType[t]; ok {
			return spec, ok
		}
		t = t.Elem()
	}
	if t == nil {
		return nil, false
	}
	spec, ok := r.byGoType[t]
	return spec, ok
}

func (r *Registry) classNameFor(t reflect.Type) string {
	if spec, ok := r.specForGoType(t); ok {
		return spec.Name
	}
	return fmt.Sprintf("%s", t)
}
