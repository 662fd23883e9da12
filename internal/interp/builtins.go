package interp

import (
	"fmt"
	"math"
	"strings"
)

// NativeModule backs a constant built-in module object such as `math`: a
// fixed set of name -> Value attributes, read-only from script, with no
// method-dispatch machinery of its own.
type NativeModule struct {
	Name  string
	Attrs map[string]Value
}

func (*NativeModule) Kind() Kind        { return KindNativeModule }
func (m *NativeModule) Inspect() string { return "<module '" + m.Name + "'>" }

// RegisterBuiltins binds the built-in name table into globals. ev
// supplies the HostBridge that len()/list()/tuple() need to cooperate
// with host iterables/arrays.
func RegisterBuiltins(globals *Environment, ev *Evaluator) {
	reg := func(name string, fn func(args []Value) (Value, error)) {
		globals.Set(name, &NativeFn{Name: name, Fn: fn})
	}

	reg("int", func(args []Value) (Value, error) {
		if err := checkArity("int", 1, len(args)); err != nil {
			return nil, err
		}
		return IntOf(args[0])
	})
	reg("float", func(args []Value) (Value, error) {
		if err := checkArity("float", 1, len(args)); err != nil {
			return nil, err
		}
		return FloatOf(args[0])
	})
	reg("str", func(args []Value) (Value, error) {
		if err := checkArity("str", 1, len(args)); err != nil {
			return nil, err
		}
		return Str(StrOf(args[0])), nil
	})
	reg("bool", func(args []Value) (Value, error) {
		if err := checkArity("bool", 1, len(args)); err != nil {
			return nil, err
		}
		return BoolOf(args[0]), nil
	})
	reg("type", func(args []Value) (Value, error) {
		if err := checkArity("type", 1, len(args)); err != nil {
			return nil, err
		}
		return TypeOf(args[0]), nil
	})
	reg("len", func(args []Value) (Value, error) {
		if err := checkArity("len", 1, len(args)); err != nil {
			return nil, err
		}
		n, err := ev.lenOf(args[0])
		if err != nil {
			return nil, err
		}
		return NewInt(int64(n)), nil
	})
	reg("print", func(args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = StrOf(a)
		}
		fmt.Fprintln(ev.Stdout, strings.Join(parts, " "))
		return None, nil
	})
	reg("range", builtinRange)
	reg("enumerate", builtinEnumerate)
	reg("abs", builtinAbs)
	reg("round", builtinRound)
	reg("min", builtinMinMax(-1))
	reg("max", builtinMinMax(1))
	reg("ord", builtinOrd)
	reg("chr", builtinChr)
	reg("list", func(args []Value) (Value, error) { return ev.builtinList(args) })
	reg("tuple", func(args []Value) (Value, error) { return ev.builtinTuple(args) })
	reg("hash", func(args []Value) (Value, error) {
		if err := checkArity("hash", 1, len(args)); err != nil {
			return nil, err
		}
		hv, ok := args[0].(Hashable)
		if !ok {
			return nil, newScriptError(ErrType, "unhashable type: %s", args[0].Kind())
		}
		h, err := hv.Hash()
		if err != nil {
			return nil, err
		}
		return NewInt(int64(h)), nil
	})

	registerExceptionClasses(globals)

	globals.Set("math", &NativeModule{Name: "math", Attrs: map[string]Value{
		"pi":  NewFloat(math.Pi),
		"e":   NewFloat(math.E),
		"tau": NewFloat(2 * math.Pi),
		"sqrt": &NativeFn{Name: "math.sqrt", Fn: func(args []Value) (Value, error) {
			if err := checkArity("sqrt", 1, len(args)); err != nil {
				return nil, err
			}
			f, ok := floatValue(args[0])
			if !ok {
				return nil, newScriptError(ErrType, "sqrt() argument must be a number")
			}
			return NewFloat(math.Sqrt(f)), nil
		}},
	}})
}

// lenOf implements `len(x)` over every sized kind, including host arrays
// and iterables via the HostBridge.
func (ev *Evaluator) lenOf(v Value) (int, error) {
	switch x := v.(type) {
	case Str:
		return x.Len(), nil
	case *List:
		return len(x.Elems), nil
	case *Tuple:
		return len(x.Elems), nil
	case *Dict:
		return x.Len(), nil
	case *HostArray:
		if ev.Bridge == nil {
			return 0, newScriptError(ErrHostException, "no host bridge configured")
		}
		return ev.Bridge.ArrayLen(x)
	default:
		if ev.Bridge != nil {
			if next, ok := ev.Bridge.Iterable(v); ok {
				n := 0
				for {
					_, more, err := next()
					if err != nil {
						return 0, err
					}
					if !more {
						return n, nil
					}
					n++
				}
			}
		}
		return 0, newScriptError(ErrType, "object of type '%s' has no len()", v.Kind())
	}
}

func builtinRange(args []Value) (Value, error) {
	var start, stop, step int64 = 0, 0, 1
	toInt := func(v Value) (int64, error) {
		n, ok := intValue(v)
		if !ok {
			return 0, newScriptError(ErrType, "range() arguments must be integers")
		}
		return n, nil
	}
	switch len(args) {
	case 1:
		n, err := toInt(args[0])
		if err != nil {
			return nil, err
		}
		stop = n
	case 2:
		a, err := toInt(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toInt(args[1])
		if err != nil {
			return nil, err
		}
		start, stop = a, b
	case 3:
		a, err := toInt(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toInt(args[1])
		if err != nil {
			return nil, err
		}
		c, err := toInt(args[2])
		if err != nil {
			return nil, err
		}
		if c == 0 {
			return nil, newScriptError(ErrType, "range() step argument must not be zero")
		}
		start, stop, step = a, b, c
	default:
		return nil, newScriptError(ErrArity, "range expected 1 to 3 arguments, got %d", len(args))
	}
	return &Range{Start: start, Stop: stop, Step: step}, nil
}

func builtinEnumerate(args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, newScriptError(ErrArity, "enumerate() takes 1 or 2 arguments")
	}
	start := int64(0)
	if len(args) == 2 {
		n, ok := intValue(args[1])
		if !ok {
			return nil, newScriptError(ErrType, "enumerate() start argument must be an int")
		}
		start = n
	}
	return &Enumerate{Inner: args[0], Start: start}, nil
}

func builtinAbs(args []Value) (Value, error) {
	if err := checkArity("abs", 1, len(args)); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case Int32:
		if v < 0 {
			return NewInt(int64(-v)), nil
		}
		return v, nil
	case Int64:
		if v < 0 {
			return NewInt(int64(-v)), nil
		}
		return v, nil
	case Float32, Float64:
		f, _ := floatValue(v)
		return NewFloat(math.Abs(f)), nil
	default:
		return nil, newScriptError(ErrType, "bad operand type for abs(): %s", args[0].Kind())
	}
}

// builtinRound implements `round(x)`: nearest integer, with math.Round's
// away-from-zero tie behavior.
func builtinRound(args []Value) (Value, error) {
	if err := checkArity("round", 1, len(args)); err != nil {
		return nil, err
	}
	f, ok := floatValue(args[0])
	if !ok {
		return nil, newScriptError(ErrType, "type %s doesn't define __round__ method", args[0].Kind())
	}
	return NewInt(int64(math.Round(f))), nil
}

// builtinMinMax returns a variadic min/max builtin; sign selects which
// comparison direction wins (-1 for min, +1 for max).
func builtinMinMax(sign int) func(args []Value) (Value, error) {
	return func(args []Value) (Value, error) {
		values := args
		if len(values) == 1 {
			elems, err := toIndexableSlice(values[0])
			if err != nil {
				return nil, err
			}
			values = elems
		}
		if len(values) == 0 {
			return nil, newScriptError(ErrType, "min()/max() arg is an empty sequence")
		}
		best := values[0]
		for _, v := range values[1:] {
			c, err := compareOrder(v, best)
			if err != nil {
				return nil, err
			}
			if c*sign > 0 {
				best = v
			}
		}
		return best, nil
	}
}

func builtinOrd(args []Value) (Value, error) {
	if err := checkArity("ord", 1, len(args)); err != nil {
		return nil, err
	}
	s, ok := args[0].(Str)
	if !ok {
		return nil, newScriptError(ErrType, "ord() expected string, got %s", args[0].Kind())
	}
	rs := s.runes()
	if len(rs) != 1 {
		return nil, newScriptError(ErrType, "ord() expected a character, but string of length %d found", len(rs))
	}
	return NewInt(int64(rs[0])), nil
}

func builtinChr(args []Value) (Value, error) {
	if err := checkArity("chr", 1, len(args)); err != nil {
		return nil, err
	}
	n, ok := intValue(args[0])
	if !ok {
		return nil, newScriptError(ErrType, "chr() expected an int, got %s", args[0].Kind())
	}
	return Str(rune(n)), nil
}

func (ev *Evaluator) builtinList(args []Value) (Value, error) {
	if len(args) == 0 {
		return NewList(nil), nil
	}
	if err := checkArity("list", 1, len(args)); err != nil {
		return nil, err
	}
	elems, err := ev.materialize(args[0])
	if err != nil {
		return nil, err
	}
	return NewList(elems), nil
}

func (ev *Evaluator) builtinTuple(args []Value) (Value, error) {
	if len(args) == 0 {
		return NewTuple(nil), nil
	}
	if err := checkArity("tuple", 1, len(args)); err != nil {
		return nil, err
	}
	elems, err := ev.materialize(args[0])
	if err != nil {
		return nil, err
	}
	return NewTuple(elems), nil
}

// materialize drains any iterable into a plain []Value, reusing the
// evaluator's general iteration protocol so host iterables work here too.
func (ev *Evaluator) materialize(v Value) ([]Value, error) {
	next, err := ev.iterate(v)
	if err != nil {
		return nil, err
	}
	var out []Value
	for {
		item, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}
