package hostbridge

import (
	"fmt"
	"reflect"

	"github.com/maxuser0/pyjinn/internal/interp"
)

// toValue converts an arbitrary Go value returned from a host call/field
// into an interp.Value by reflect.Kind, wrapping unrecognized
// struct/pointer values as a *interp.HostObject tagged with its
// registered class name.
func (b *Bridge) toValue(val any) (interp.Value, error) {
	if val == nil {
		return interp.None, nil
	}
	if v, ok := val.(interp.Value); ok {
		return v, nil
	}
	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return interp.None, nil
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return interp.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return interp.NewInt(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return interp.NewFloat(rv.Float()), nil
	case reflect.Bool:
		return interp.Bool(rv.Bool()), nil
	case reflect.String:
		return interp.Str(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if spec, ok := b.registry.specForGoType(rv.Type().Elem()); ok {
			return &interp.HostArray{ElemClassName: spec.Name, Handle: rv}, nil
		}
		return &interp.HostArray{ElemClassName: rv.Type().Elem().String(), Handle: rv}, nil
	case reflect.Struct, reflect.Ptr, reflect.Map:
		className := b.registry.classNameFor(rv.Type())
		return &interp.HostObject{ClassName: className, Handle: val}, nil
	case reflect.Func:
		return b.wrapFunc(rv), nil
	default:
		return &interp.HostObject{ClassName: fmt.Sprintf("%T", val), Handle: val}, nil
	}
}

// ToValue is the exported form of toValue, used by pkg/pyjinn to convert
// an embedder-supplied Go value (for SetGlobal/Bind/Invoke arguments)
// into a script Value.
func (b *Bridge) ToValue(val any) (interp.Value, error) { return b.toValue(val) }

// wrapFunc adapts an arbitrary Go func value into a callable NativeFn,
// converting script arguments into the func's parameter types (the same
// fromValue conversion overload resolution uses) and its results back
// into script Values. This is the mechanism behind pkg/pyjinn's Bind.
func (b *Bridge) wrapFunc(fn reflect.Value) *interp.NativeFn {
	return &interp.NativeFn{
		Name: "<host function>",
		Fn: func(args []interp.Value) (interp.Value, error) {
			res, err := callOverload(fn, args)
			if err != nil {
				return nil, err
			}
			return b.toValue(res)
		},
	}
}

// FromValueAny converts a script Value back into a plain Go value for an
// embedder (GetGlobal/Invoke's return), unwrapping HostObject/HostArray
// handles to the Go value they carry and mapping None, bool, str, ints,
// floats, lists and tuples to nil, bool, string, int64, float64 and []any.
// Any other Value (a Dict included) is returned as the interp.Value itself.
func (b *Bridge) FromValueAny(v interp.Value) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case interp.NoneValue:
		return nil, nil
	case interp.Bool:
		return bool(x), nil
	case interp.Str:
		return string(x), nil
	case interp.Int32:
		return int64(x), nil
	case interp.Int64:
		return int64(x), nil
	case interp.Float32:
		return float64(x), nil
	case interp.Float64:
		return float64(x), nil
	case *interp.List:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			v, err := b.FromValueAny(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *interp.Tuple:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			v, err := b.FromValueAny(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *interp.HostObject:
		return x.Handle, nil
	case *interp.HostArray:
		if rv, ok := x.Handle.(reflect.Value); ok {
			return rv.Interface(), nil
		}
		return x.Handle, nil
	default:
		return v, nil
	}
}

// fromValue converts a script Value into a reflect.Value suitable as an
// argument of target's type, applying the primitive-adaptation and
// numeric-promotion rules. Used both by overload scoring (to check
// feasibility) and by the final call (to build the args slice).
func fromValue(v interp.Value, target reflect.Type) (reflect.Value, error) {
	if v == nil || v == interp.None {
		if isReferenceKind(target.Kind()) || target.Kind() == reflect.String {
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass None to primitive parameter of type %s", target)
	}
	if target.Kind() == reflect.Interface && target.NumMethod() == 0 {
		return reflect.ValueOf(unwrapForInterface(v)), nil
	}
	switch x := v.(type) {
	case interp.Bool:
		if target.Kind() == reflect.Bool {
			return reflect.ValueOf(bool(x)), nil
		}
	case interp.Str:
		if target.Kind() == reflect.String {
			return reflect.ValueOf(string(x)), nil
		}
	default:
		if f, ok := numericValue(v); ok {
			switch target.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return reflect.ValueOf(f.i).Convert(target), nil
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				return reflect.ValueOf(uint64(f.i)).Convert(target), nil
			case reflect.Float32, reflect.Float64:
				return reflect.ValueOf(f.f).Convert(target), nil
			}
		}
	}
	if ho, ok := v.(*interp.HostObject); ok {
		rv := reflect.ValueOf(ho.Handle)
		if rv.IsValid() && rv.Type().AssignableTo(target) {
			return rv, nil
		}
		if rv.IsValid() && rv.Type().ConvertibleTo(target) {
			return rv.Convert(target), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", v.Kind(), target)
}

func unwrapForInterface(v interp.Value) any {
	switch x := v.(type) {
	case *interp.HostObject:
		return x.Handle
	default:
		return v
	}
}

func isReferenceKind(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

type numKind struct {
	i int64
	f float64
}

// numericValue extracts both an int64 and float64 view of a numeric
// script Value, for use when converting into an arbitrary Go numeric
// parameter type.
func numericValue(v interp.Value) (numKind, bool) {
	switch x := v.(type) {
	case interp.Int32:
		return numKind{i: int64(x), f: float64(x)}, true
	case interp.Int64:
		return numKind{i: int64(x), f: float64(x)}, true
	case interp.Float32:
		return numKind{i: int64(x), f: float64(x)}, true
	case interp.Float64:
		return numKind{i: int64(x), f: float64(x)}, true
	default:
		return numKind{}, false
	}
}
