package interp

import "github.com/maxuser0/pyjinn/internal/ast"

func (ev *Evaluator) evalSliceLiteral(e *ast.Slice, env *Environment, frame *Frame) Value {
	lower, sig := ev.evalOptional(e.Lower, env, frame)
	if sig != nil {
		return sig
	}
	upper, sig := ev.evalOptional(e.Upper, env, frame)
	if sig != nil {
		return sig
	}
	step, sig := ev.evalOptional(e.Step, env, frame)
	if sig != nil {
		return sig
	}
	return &Slice{Lower: lower, Upper: upper, Step: step}
}

func (ev *Evaluator) evalOptional(e ast.Expression, env *Environment, frame *Frame) (Value, Value) {
	if e == nil {
		return nil, nil
	}
	v := ev.Eval(e, env, frame)
	if isUnwinding(v) {
		return nil, v
	}
	return v, nil
}

func (ev *Evaluator) evalSubscriptGet(e *ast.Subscript, env *Environment, frame *Frame) Value {
	container := ev.Eval(e.Value, env, frame)
	if isUnwinding(container) {
		return container
	}
	index := ev.Eval(e.Index, env, frame)
	if isUnwinding(index) {
		return index
	}
	v, err := ev.subscriptGet(container, index)
	if err != nil {
		return signalFromError(err)
	}
	return v
}

func (ev *Evaluator) subscriptGet(container, index Value) (Value, error) {
	if sl, ok := index.(*Slice); ok {
		return ev.sliceGet(container, sl)
	}
	switch c := container.(type) {
	case Str:
		n, ok := intValue(index)
		if !ok {
			return nil, newScriptError(ErrType, "string indices must be integers")
		}
		ch, ok := c.at(int(n))
		if !ok {
			return nil, newScriptError(ErrIndex, "string index out of range")
		}
		return ch, nil
	case *List:
		n, ok := intValue(index)
		if !ok {
			return nil, newScriptError(ErrType, "list indices must be integers")
		}
		i, ok := c.index(int(n))
		if !ok {
			return nil, newScriptError(ErrIndex, "list index out of range")
		}
		return c.Elems[i], nil
	case *Tuple:
		n, ok := intValue(index)
		if !ok {
			return nil, newScriptError(ErrType, "tuple indices must be integers")
		}
		i := int(n)
		length := len(c.Elems)
		if i < 0 {
			i += length
		}
		if i < 0 || i >= length {
			return nil, newScriptError(ErrIndex, "tuple index out of range")
		}
		return c.Elems[i], nil
	case *Dict:
		v, found, err := c.Get(index)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, newScriptError(ErrKey, "%s", index.Inspect())
		}
		return v, nil
	case *HostArray:
		if ev.Bridge == nil {
			return nil, newScriptError(ErrHostException, "no host bridge configured")
		}
		n, ok := intValue(index)
		if !ok {
			return nil, newScriptError(ErrType, "host array indices must be integers")
		}
		return ev.Bridge.ArrayGet(c, int(n))
	default:
		return nil, newScriptError(ErrType, "'%s' object is not subscriptable", container.Kind())
	}
}

func (ev *Evaluator) sliceGet(container Value, sl *Slice) (Value, error) {
	switch c := container.(type) {
	case Str:
		lower, upper, step, err := resolveSliceBounds(sl, c.Len())
		if err != nil {
			return nil, err
		}
		return c.slice(lower, upper, step), nil
	case *List:
		lower, upper, step, err := resolveSliceBounds(sl, len(c.Elems))
		if err != nil {
			return nil, err
		}
		out := make([]Value, 0, upper-lower)
		for i := lower; i < upper; i += step {
			out = append(out, c.Elems[i])
		}
		return NewList(out), nil
	case *Tuple:
		lower, upper, step, err := resolveSliceBounds(sl, len(c.Elems))
		if err != nil {
			return nil, err
		}
		out := make([]Value, 0, upper-lower)
		for i := lower; i < upper; i += step {
			out = append(out, c.Elems[i])
		}
		return NewTuple(out), nil
	case *HostArray:
		if ev.Bridge == nil {
			return nil, newScriptError(ErrHostException, "no host bridge configured")
		}
		n, err := ev.Bridge.ArrayLen(c)
		if err != nil {
			return nil, err
		}
		lower, upper, _, err := resolveSliceBounds(sl, n)
		if err != nil {
			return nil, err
		}
		return ev.Bridge.ArraySlice(c, lower, upper)
	default:
		return nil, newScriptError(ErrType, "'%s' object is not subscriptable", container.Kind())
	}
}

// assignSubscript implements the Subscript-target branch of assignment:
// list/dict/host-array by index/key. Negative indices are rejected for
// host-array element assignment.
func (ev *Evaluator) assignSubscript(t *ast.Subscript, value Value, env *Environment, frame *Frame) Value {
	container := ev.Eval(t.Value, env, frame)
	if isUnwinding(container) {
		return container
	}
	index := ev.Eval(t.Index, env, frame)
	if isUnwinding(index) {
		return index
	}
	switch c := container.(type) {
	case *List:
		n, ok := intValue(index)
		if !ok {
			return newError(ErrType, "list indices must be integers")
		}
		i, ok := c.index(int(n))
		if !ok {
			return newError(ErrIndex, "list assignment index out of range")
		}
		c.Elems[i] = value
		return nil
	case *Dict:
		if err := c.Set(index, value); err != nil {
			return &errSignal{Err: toScriptError(err, ErrType)}
		}
		return nil
	case *HostArray:
		if ev.Bridge == nil {
			return newError(ErrHostException, "no host bridge configured")
		}
		n, ok := intValue(index)
		if !ok {
			return newError(ErrType, "host array indices must be integers")
		}
		if n < 0 {
			return newError(ErrIndex, "negative indices are not supported for host array assignment")
		}
		if err := ev.Bridge.ArraySet(c, int(n), value); err != nil {
			return signalFromError(err)
		}
		return nil
	default:
		return newError(ErrType, "'%s' object does not support item assignment", container.Kind())
	}
}
