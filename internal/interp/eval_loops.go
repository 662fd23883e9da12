package interp

import "github.com/maxuser0/pyjinn/internal/ast"

func (ev *Evaluator) evalIf(s *ast.If, env *Environment, frame *Frame) Value {
	test := ev.Eval(s.Test, env, frame)
	if isUnwinding(test) {
		return test
	}
	if truthy(test) {
		return ev.EvalBlock(s.Body, env, frame)
	}
	return ev.EvalBlock(s.Orelse, env, frame)
}

// iterate adapts any iterable kind (Str, Range, Enumerate, List, Tuple,
// Dict, host array, host iterable) into a pull-based next function, the
// shared core both `for` and list comprehensions use.
func (ev *Evaluator) iterate(v Value) (func() (Value, bool, error), error) {
	switch x := v.(type) {
	case Str:
		it := NewIterableString(x)
		return func() (Value, bool, error) {
			ch, ok := it.next()
			return ch, ok, nil
		}, nil
	case *IterableString:
		return func() (Value, bool, error) {
			ch, ok := x.next()
			return ch, ok, nil
		}, nil
	case *Range:
		vals := x.Values()
		i := 0
		return func() (Value, bool, error) {
			if i >= len(vals) {
				return nil, false, nil
			}
			v := vals[i]
			i++
			return v, true, nil
		}, nil
	case *Enumerate:
		inner, err := ev.iterate(x.Inner)
		if err != nil {
			return nil, err
		}
		idx := x.Start
		return func() (Value, bool, error) {
			v, ok, err := inner()
			if err != nil || !ok {
				return nil, ok, err
			}
			tup := NewTuple([]Value{NewInt(idx), v})
			idx++
			return tup, true, nil
		}, nil
	case *List:
		i := 0
		return func() (Value, bool, error) {
			if i >= len(x.Elems) {
				return nil, false, nil
			}
			v := x.Elems[i]
			i++
			return v, true, nil
		}, nil
	case *Tuple:
		i := 0
		return func() (Value, bool, error) {
			if i >= len(x.Elems) {
				return nil, false, nil
			}
			v := x.Elems[i]
			i++
			return v, true, nil
		}, nil
	case *Dict:
		keys := x.Keys()
		i := 0
		return func() (Value, bool, error) {
			if i >= len(keys) {
				return nil, false, nil
			}
			k := keys[i]
			i++
			return k, true, nil
		}, nil
	case *HostArray:
		if ev.Bridge == nil {
			return nil, newScriptError(ErrHostException, "no host bridge configured")
		}
		n, err := ev.Bridge.ArrayLen(x)
		if err != nil {
			return nil, err
		}
		i := 0
		return func() (Value, bool, error) {
			if i >= n {
				return nil, false, nil
			}
			v, err := ev.Bridge.ArrayGet(x, i)
			i++
			return v, err == nil, err
		}, nil
	default:
		if ev.Bridge != nil {
			if next, ok := ev.Bridge.Iterable(v); ok {
				return next, nil
			}
		}
		return nil, newScriptError(ErrType, "'%s' object is not iterable", v.Kind())
	}
}

func (ev *Evaluator) evalFor(s *ast.For, env *Environment, frame *Frame) Value {
	iterVal := ev.Eval(s.Iter, env, frame)
	if isUnwinding(iterVal) {
		return iterVal
	}
	next, err := ev.iterate(iterVal)
	if err != nil {
		return signalFromError(err)
	}
	frame.loopDepth++
	defer func() { frame.loopDepth-- }()
	for {
		v, ok, err := next()
		if err != nil {
			return signalFromError(err)
		}
		if !ok {
			return None
		}
		if sig := ev.assignTo(s.Target, v, env, frame); sig != nil {
			return sig
		}
		result := ev.EvalBlock(s.Body, env, frame)
		if isBreak(result) {
			return None
		}
		if isContinue(result) {
			continue
		}
		if isUnwinding(result) {
			return result
		}
	}
}

func (ev *Evaluator) evalWhile(s *ast.While, env *Environment, frame *Frame) Value {
	frame.loopDepth++
	defer func() { frame.loopDepth-- }()
	for {
		test := ev.Eval(s.Test, env, frame)
		if isUnwinding(test) {
			return test
		}
		if !truthy(test) {
			return None
		}
		result := ev.EvalBlock(s.Body, env, frame)
		if isBreak(result) {
			return None
		}
		if isContinue(result) {
			continue
		}
		if isUnwinding(result) {
			return result
		}
	}
}

// evalListComp evaluates the iterable once, binds the loop variable(s)
// in a fresh local context, evaluates `if` filters in order
// (short-circuiting), and appends the transform result to a fresh list.
func (ev *Evaluator) evalListComp(e *ast.ListComp, env *Environment, frame *Frame) Value {
	iterVal := ev.Eval(e.Iter, env, frame)
	if isUnwinding(iterVal) {
		return iterVal
	}
	next, err := ev.iterate(iterVal)
	if err != nil {
		return &errSignal{Err: toScriptError(err, ErrType)}
	}
	compEnv := NewEnclosed(env)
	var out []Value
	for {
		v, ok, err := next()
		if err != nil {
			return &errSignal{Err: toScriptError(err, ErrType)}
		}
		if !ok {
			break
		}
		if sig := ev.assignTo(e.Target, v, compEnv, frame); sig != nil {
			return sig
		}
		keep := true
		for _, ifExpr := range e.Ifs {
			cond := ev.Eval(ifExpr, compEnv, frame)
			if isUnwinding(cond) {
				return cond
			}
			if !truthy(cond) {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}
		transformed := ev.Eval(e.Transform, compEnv, frame)
		if isUnwinding(transformed) {
			return transformed
		}
		out = append(out, transformed)
	}
	return NewList(out)
}
