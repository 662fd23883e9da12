package interp

import "github.com/maxuser0/pyjinn/internal/ast"

func (ev *Evaluator) evalAssign(s *ast.Assign, env *Environment, frame *Frame) Value {
	value := ev.Eval(s.Value, env, frame)
	if isUnwinding(value) {
		return value
	}
	for _, target := range s.Targets {
		if sig := ev.assignTo(target, value, env, frame); sig != nil {
			return sig
		}
	}
	return None
}

// assignTo implements every assignable target kind: Name, Subscript,
// Attribute, and one level of Tuple destructuring. Returns a non-nil
// unwinding signal on error, nil on success.
func (ev *Evaluator) assignTo(target ast.Expression, value Value, env *Environment, frame *Frame) Value {
	switch t := target.(type) {
	case *ast.Name:
		env.Set(t.Id, value)
		return nil
	case *ast.Subscript:
		return ev.assignSubscript(t, value, env, frame)
	case *ast.Attribute:
		return ev.assignAttribute(t, value, env, frame)
	case *ast.TupleLit:
		return ev.assignTuple(t, value, env, frame)
	default:
		return newError(ErrParse, "invalid assignment target %T", target)
	}
}

// assignTuple implements tuple-destructuring assignment: the RHS must be
// sized/indexable of the same length; elements assign positionally, one
// level deep.
func (ev *Evaluator) assignTuple(t *ast.TupleLit, value Value, env *Environment, frame *Frame) Value {
	elems, err := toIndexableSlice(value)
	if err != nil {
		return &errSignal{Err: toScriptError(err, ErrType)}
	}
	if len(elems) != len(t.Elts) {
		return newError(ErrType, "cannot unpack value of length %d into %d targets", len(elems), len(t.Elts))
	}
	for i, target := range t.Elts {
		if sig := ev.assignTo(target, elems[i], env, frame); sig != nil {
			return sig
		}
	}
	return nil
}

// toIndexableSlice materializes a List/Tuple/Str into []Value for
// destructuring and for-loop target binding.
func toIndexableSlice(v Value) ([]Value, error) {
	switch x := v.(type) {
	case *List:
		return x.Elems, nil
	case *Tuple:
		return x.Elems, nil
	case Str:
		rs := x.runes()
		out := make([]Value, len(rs))
		for i, r := range rs {
			out[i] = Str(r)
		}
		return out, nil
	default:
		return nil, newScriptError(ErrType, "cannot unpack non-sequence value of type %s", v.Kind())
	}
}

func (ev *Evaluator) evalAugAssign(s *ast.AugAssign, env *Environment, frame *Frame) Value {
	current := ev.Eval(s.Target, env, frame)
	if isUnwinding(current) {
		return current
	}
	rhs := ev.Eval(s.Value, env, frame)
	if isUnwinding(rhs) {
		return rhs
	}

	// `+=` on a list mutates in place; everything else rebinds the slot
	// to a freshly computed value.
	if list, ok := current.(*List); ok && s.Op == "Add" {
		other, err := toIndexableSlice(rhs)
		if err != nil {
			return newError(ErrType, "can only concatenate list (not %q) to list", rhs.Kind())
		}
		list.Elems = append(list.Elems, other...)
		return None
	}

	result, err := applyBinaryOp(s.Op, current, rhs)
	if err != nil {
		return &errSignal{Err: toScriptError(err, ErrType)}
	}
	return ev.assignTo(s.Target, result, env, frame)
}

func (ev *Evaluator) evalAnnAssign(s *ast.AnnAssign, env *Environment, frame *Frame) Value {
	if s.Value == nil {
		// A bare annotation (`x: int`) only matters inside a ClassDef
		// body, which class.go decodes directly from the AST rather than
		// executing as a statement; reaching here means a bare annotation
		// appeared outside a class, which has no runtime effect.
		return None
	}
	value := ev.Eval(s.Value, env, frame)
	if isUnwinding(value) {
		return value
	}
	return ev.assignTo(s.Target, value, env, frame)
}

func (ev *Evaluator) evalDelete(s *ast.Delete, env *Environment, frame *Frame) Value {
	name, ok := s.Target.(*ast.Name)
	if !ok {
		return newError(ErrParse, "unsupported delete target %T", s.Target)
	}
	if err := env.Delete(name.Id); err != nil {
		return &errSignal{Err: toScriptError(err, ErrName)}
	}
	return None
}
