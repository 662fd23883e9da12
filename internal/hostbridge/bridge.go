package hostbridge

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/maxuser0/pyjinn/internal/interp"
)

// Bridge is the concrete interp.HostBridge: reflection-based
// field/method access against a Registry of embedder-registered Go
// types, with scored overload resolution and a signature-keyed
// concurrent cache.
type Bridge struct {
	registry *Registry
	// cache memoizes, per (kind, ownerClass, methodName, argKinds...)
	// signature key, the chosen overload index so repeated calls with the
	// same shape skip re-scoring every candidate.
	cache sync.Map
}

// New returns a Bridge backed by reg. Callers register every host class a
// script may reference via reg.Register before constructing a
// pkg/pyjinn.Script with this Bridge.
func New(reg *Registry) *Bridge {
	return &Bridge{registry: reg}
}

func (b *Bridge) ResolveClass(name string) (*interp.HostClass, error) {
	spec, ok := b.registry.byNameLocked(name)
	if !ok {
		return nil, fmt.Errorf("unknown host class %q", name)
	}
	return &interp.HostClass{Name: spec.Name, Handle: spec}, nil
}

func (b *Bridge) specOf(class *interp.HostClass) (*ClassSpec, error) {
	if spec, ok := class.Handle.(*ClassSpec); ok {
		return spec, nil
	}
	spec, ok := b.registry.byNameLocked(class.Name)
	if !ok {
		return nil, fmt.Errorf("unknown host class %q", class.Name)
	}
	return spec, nil
}

func (b *Bridge) Construct(class *interp.HostClass, args []interp.Value) (interp.Value, error) {
	spec, err := b.specOf(class)
	if err != nil {
		return nil, err
	}
	cacheKey := signatureKey{kind: sigConstruct, owner: spec.Name, args: argKinds(args)}
	result, err := b.invokeOverloadSet(cacheKey, spec.Constructors, args)
	if err != nil {
		return nil, err
	}
	return b.wrapConstructed(spec, result)
}

// wrapConstructed tags a freshly constructed Go value as a HostObject of
// spec's class (None for a nil result). It does not register the value's
// concrete Go type with the Registry.
func (b *Bridge) wrapConstructed(spec *ClassSpec, result any) (interp.Value, error) {
	if result == nil {
		return interp.None, nil
	}
	return &interp.HostObject{ClassName: spec.Name, Handle: result}, nil
}

func (b *Bridge) CallMethod(receiver interp.Value, methodName string, args []interp.Value) (interp.Value, error) {
	switch r := receiver.(type) {
	case *interp.HostObject:
		spec, ok := b.specForObject(r)
		if !ok {
			return nil, fmt.Errorf("host object of class %q has no registered methods", r.ClassName)
		}
		overloads, ok := spec.Methods[methodName]
		if !ok {
			return nil, fmt.Errorf("%s has no method %q", spec.Name, methodName)
		}
		recvArgs := append([]interp.Value{receiver}, args...)
		key := signatureKey{kind: sigMethod, owner: spec.Name, method: methodName, args: argKinds(args)}
		res, err := b.invokeOverloadSetWithReceiver(key, overloads, recvArgs)
		if err != nil {
			return nil, err
		}
		return b.toValue(res)
	case *interp.HostClass:
		spec, err := b.specOf(r)
		if err != nil {
			return nil, err
		}
		overloads, ok := spec.StaticMethods[methodName]
		if !ok {
			return nil, fmt.Errorf("%s has no static method %q", spec.Name, methodName)
		}
		key := signatureKey{kind: sigStaticMethod, owner: spec.Name, method: methodName, args: argKinds(args)}
		res, err := b.invokeOverloadSet(key, overloads, args)
		if err != nil {
			return nil, err
		}
		return b.toValue(res)
	default:
		return nil, fmt.Errorf("cannot call method %q on non-host value", methodName)
	}
}

func (b *Bridge) specForObject(o *interp.HostObject) (*ClassSpec, bool) {
	if spec, ok := b.registry.byNameLocked(o.ClassName); ok {
		return spec, true
	}
	if o.Handle == nil {
		return nil, false
	}
	return b.registry.specForGoType(reflect.TypeOf(o.Handle))
}

func (b *Bridge) GetField(receiver interp.Value, name string) (interp.Value, error) {
	switch r := receiver.(type) {
	case *interp.HostObject:
		spec, ok := b.specForObject(r)
		rv := reflect.ValueOf(r.Handle)
		for rv.IsValid() && rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		if rv.IsValid() && rv.Kind() == reflect.Struct {
			if fv := rv.FieldByName(name); fv.IsValid() {
				return b.toValue(fv.Interface())
			}
		}
		if ok {
			if v, ok := spec.StaticFields[name]; ok {
				return b.toValue(v)
			}
		}
		return nil, fmt.Errorf("host object of class %q has no field %q", r.ClassName, name)
	case *interp.HostClass:
		spec, err := b.specOf(r)
		if err != nil {
			return nil, err
		}
		if v, ok := spec.StaticFields[name]; ok {
			return b.toValue(v)
		}
		return nil, fmt.Errorf("host class %q has no static field %q", r.Name, name)
	default:
		return nil, fmt.Errorf("cannot get field %q on non-host value", name)
	}
}

func (b *Bridge) SetField(receiver interp.Value, name string, val interp.Value) error {
	switch r := receiver.(type) {
	case *interp.HostObject:
		rv := reflect.ValueOf(r.Handle)
		for rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return fmt.Errorf("host object of class %q is not addressable", r.ClassName)
		}
		fv := rv.FieldByName(name)
		if !fv.IsValid() || !fv.CanSet() {
			return fmt.Errorf("host object of class %q has no settable field %q", r.ClassName, name)
		}
		converted, err := fromValue(val, fv.Type())
		if err != nil {
			return err
		}
		fv.Set(converted)
		return nil
	case *interp.HostClass:
		spec, err := b.specOf(r)
		if err != nil {
			return err
		}
		spec.StaticFields[name] = val
		return nil
	default:
		return fmt.Errorf("cannot set field %q on non-host value", name)
	}
}

func (b *Bridge) IsInstance(val interp.Value, class *interp.HostClass) (bool, error) {
	spec, err := b.specOf(class)
	if err != nil {
		return false, err
	}
	ho, ok := val.(*interp.HostObject)
	if !ok {
		return false, nil
	}
	if ho.ClassName == spec.Name {
		return true, nil
	}
	if spec.GoType == nil || ho.Handle == nil {
		return false, nil
	}
	t := reflect.TypeOf(ho.Handle)
	if t == spec.GoType {
		return true, nil
	}
	return t.AssignableTo(spec.GoType), nil
}

// Iterable adapts a host object exposing a Go-idiomatic `Next() (T, bool)`
// or `Next() (T, error)` method (the shape embedders most naturally
// expose) into the pull-based iterator protocol internal/interp's `for`
// loop and comprehensions drive.
func (b *Bridge) Iterable(val interp.Value) (func() (interp.Value, bool, error), bool) {
	ho, ok := val.(*interp.HostObject)
	if !ok || ho.Handle == nil {
		return nil, false
	}
	rv := reflect.ValueOf(ho.Handle)
	m := rv.MethodByName("Next")
	if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() != 2 {
		return nil, false
	}
	return func() (interp.Value, bool, error) {
		out := m.Call(nil)
		if out[1].Kind() == reflect.Bool {
			if !out[1].Bool() {
				return nil, false, nil
			}
			v, err := b.toValue(out[0].Interface())
			return v, true, err
		}
		if errv, _ := out[1].Interface().(error); errv != nil {
			return nil, false, errv
		}
		v, err := b.toValue(out[0].Interface())
		return v, true, err
	}, true
}

func (b *Bridge) arrayHandle(arr *interp.HostArray) (reflect.Value, error) {
	rv, ok := arr.Handle.(reflect.Value)
	if !ok {
		return reflect.Value{}, fmt.Errorf("malformed host array of %q", arr.ElemClassName)
	}
	return rv, nil
}

func (b *Bridge) ArrayLen(arr *interp.HostArray) (int, error) {
	rv, err := b.arrayHandle(arr)
	if err != nil {
		return 0, err
	}
	return rv.Len(), nil
}

func (b *Bridge) ArrayGet(arr *interp.HostArray, index int) (interp.Value, error) {
	rv, err := b.arrayHandle(arr)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= rv.Len() {
		return nil, fmt.Errorf("host array index out of range: %d", index)
	}
	return b.toValue(rv.Index(index).Interface())
}

func (b *Bridge) ArraySet(arr *interp.HostArray, index int, val interp.Value) error {
	rv, err := b.arrayHandle(arr)
	if err != nil {
		return err
	}
	if index < 0 || index >= rv.Len() {
		return fmt.Errorf("host array index out of range: %d", index)
	}
	if !rv.Index(index).CanSet() {
		return fmt.Errorf("host array of %q is not mutable", arr.ElemClassName)
	}
	converted, err := fromValue(val, rv.Type().Elem())
	if err != nil {
		return err
	}
	rv.Index(index).Set(converted)
	return nil
}

func (b *Bridge) ArraySlice(arr *interp.HostArray, lower, upper int) (*interp.HostArray, error) {
	rv, err := b.arrayHandle(arr)
	if err != nil {
		return nil, err
	}
	if lower < 0 || upper > rv.Len() || lower > upper {
		return nil, fmt.Errorf("host array slice [%d:%d] out of range", lower, upper)
	}
	return &interp.HostArray{ElemClassName: arr.ElemClassName, Handle: rv.Slice(lower, upper)}, nil
}
