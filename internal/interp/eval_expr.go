package interp

import (
	"strings"

	"github.com/maxuser0/pyjinn/internal/ast"
)

// Eval dispatches on expr's concrete type. Every branch that recurses
// into a sub-expression must check isUnwinding before using the result,
// so an in-flight return/break/raise short-circuits the rest of the
// expression; the check is threaded at each call site rather than
// centralized in Eval itself.
func (ev *Evaluator) Eval(expr ast.Expression, env *Environment, frame *Frame) Value {
	switch e := expr.(type) {
	case *ast.Constant:
		return ev.evalConstant(e)
	case *ast.Name:
		v, err := env.Get(e.Id)
		if err != nil {
			return &errSignal{Err: err.(*ScriptError)}
		}
		return v
	case *ast.UnaryOp:
		return ev.evalUnaryOp(e, env, frame)
	case *ast.BinaryOp:
		return ev.evalBinaryOp(e, env, frame)
	case *ast.BoolOp:
		return ev.evalBoolOp(e, env, frame)
	case *ast.Compare:
		return ev.evalCompare(e, env, frame)
	case *ast.IfExpr:
		test := ev.Eval(e.Test, env, frame)
		if isUnwinding(test) {
			return test
		}
		if truthy(test) {
			return ev.Eval(e.Body, env, frame)
		}
		return ev.Eval(e.Orelse, env, frame)
	case *ast.Attribute:
		return ev.evalAttributeGet(e, env, frame)
	case *ast.Subscript:
		return ev.evalSubscriptGet(e, env, frame)
	case *ast.Slice:
		return ev.evalSliceLiteral(e, env, frame)
	case *ast.Call:
		return ev.evalCall(e, env, frame)
	case *ast.TupleLit:
		elems, sig := ev.evalExprList(e.Elts, env, frame)
		if sig != nil {
			return sig
		}
		return NewTuple(elems)
	case *ast.ListLit:
		elems, sig := ev.evalExprList(e.Elts, env, frame)
		if sig != nil {
			return sig
		}
		return NewList(elems)
	case *ast.DictLit:
		return ev.evalDictLit(e, env, frame)
	case *ast.ListComp:
		return ev.evalListComp(e, env, frame)
	case *ast.FormattedString:
		return ev.evalFormattedString(e, env, frame)
	case *ast.Lambda:
		return &Lambda{Node: e, Env: env}
	case *ast.HostClassRef:
		if ev.Bridge == nil {
			return newError(ErrHostException, "no host bridge configured")
		}
		hc, err := ev.Bridge.ResolveClass(e.ClassName)
		if err != nil {
			return &errSignal{Err: toScriptError(err, ErrHostException)}
		}
		return hc
	default:
		return newError(ErrParse, "unsupported expression node %T", expr)
	}
}

func toScriptError(err error, fallback ErrorKind) *ScriptError {
	if se, ok := err.(*ScriptError); ok {
		return se
	}
	return newScriptError(fallback, "%s", err.Error())
}

func (ev *Evaluator) evalConstant(c *ast.Constant) Value {
	switch c.Typename {
	case "NoneType":
		return None
	case "bool":
		b, _ := c.Value.(bool)
		return Bool(b)
	case "int":
		switch n := c.Value.(type) {
		case float64:
			return NewInt(int64(n))
		case int64:
			return NewInt(n)
		case int:
			return NewInt(int64(n))
		default:
			return newError(ErrParse, "invalid int constant value %v", c.Value)
		}
	case "float":
		switch n := c.Value.(type) {
		case float64:
			return NewFloat(n)
		case int64:
			return NewFloat(float64(n))
		default:
			return newError(ErrParse, "invalid float constant value %v", c.Value)
		}
	case "str":
		s, _ := c.Value.(string)
		return Str(s)
	default:
		return newError(ErrParse, "invalid constant typename %q", c.Typename)
	}
}

func (ev *Evaluator) evalExprList(exprs []ast.Expression, env *Environment, frame *Frame) ([]Value, Value) {
	out := make([]Value, 0, len(exprs))
	for _, e := range exprs {
		v := ev.Eval(e, env, frame)
		if isUnwinding(v) {
			return nil, v
		}
		out = append(out, v)
	}
	return out, nil
}

func (ev *Evaluator) evalUnaryOp(e *ast.UnaryOp, env *Environment, frame *Frame) Value {
	operand := ev.Eval(e.Operand, env, frame)
	if isUnwinding(operand) {
		return operand
	}
	switch e.Op {
	case "USub":
		v, err := Neg(operand)
		if err != nil {
			return &errSignal{Err: toScriptError(err, ErrType)}
		}
		return v
	case "Not":
		return Bool(!truthy(operand))
	default:
		return newError(ErrParse, "unsupported unary operator %q", e.Op)
	}
}

func (ev *Evaluator) evalBinaryOp(e *ast.BinaryOp, env *Environment, frame *Frame) Value {
	left := ev.Eval(e.Left, env, frame)
	if isUnwinding(left) {
		return left
	}
	right := ev.Eval(e.Right, env, frame)
	if isUnwinding(right) {
		return right
	}
	v, err := applyBinaryOp(e.Op, left, right)
	if err != nil {
		return &errSignal{Err: toScriptError(err, ErrType)}
	}
	return v
}

func applyBinaryOp(op string, left, right Value) (Value, error) {
	switch op {
	case "Add":
		return Add(left, right)
	case "Sub":
		return Sub(left, right)
	case "Mult":
		return Mul(left, right)
	case "Div":
		return Div(left, right)
	case "Mod":
		return Mod(left, right)
	case "Pow":
		return Pow(left, right)
	default:
		return nil, newScriptError(ErrParse, "unsupported binary operator %q", op)
	}
}

// evalBoolOp implements `and`/`or` short-circuiting: `and` returns the
// first falsy operand or the last; `or` returns the first truthy operand
// or the last.
func (ev *Evaluator) evalBoolOp(e *ast.BoolOp, env *Environment, frame *Frame) Value {
	var last Value = None
	for i, operand := range e.Values {
		v := ev.Eval(operand, env, frame)
		if isUnwinding(v) {
			return v
		}
		last = v
		isLast := i == len(e.Values)-1
		if e.Op == "AND" && !truthy(v) {
			return v
		}
		if e.Op == "OR" && truthy(v) {
			return v
		}
		if isLast {
			return last
		}
	}
	return last
}

func (ev *Evaluator) evalCompare(e *ast.Compare, env *Environment, frame *Frame) Value {
	lhs := ev.Eval(e.Lhs, env, frame)
	if isUnwinding(lhs) {
		return lhs
	}
	rhs := ev.Eval(e.Rhs, env, frame)
	if isUnwinding(rhs) {
		return rhs
	}
	result, err := compareValues(ev, e.Op, lhs, rhs)
	if err != nil {
		return &errSignal{Err: toScriptError(err, ErrType)}
	}
	return result
}

func compareValues(ev *Evaluator, op string, lhs, rhs Value) (Value, error) {
	switch op {
	case "Is":
		return Bool(sameIdentity(lhs, rhs)), nil
	case "IsNot":
		return Bool(!sameIdentity(lhs, rhs)), nil
	case "Eq":
		return Bool(valuesEqual(lhs, rhs)), nil
	case "NotEq":
		return Bool(!valuesEqual(lhs, rhs)), nil
	case "Lt", "LtE", "Gt", "GtE":
		c, err := compareOrder(lhs, rhs)
		if err != nil {
			return nil, err
		}
		switch op {
		case "Lt":
			return Bool(c < 0), nil
		case "LtE":
			return Bool(c <= 0), nil
		case "Gt":
			return Bool(c > 0), nil
		default:
			return Bool(c >= 0), nil
		}
	case "In", "NotIn":
		found, err := membershipTest(ev, lhs, rhs)
		if err != nil {
			return nil, err
		}
		if op == "NotIn" {
			found = !found
		}
		return Bool(found), nil
	default:
		return nil, newScriptError(ErrParse, "unsupported compare operator %q", op)
	}
}

// membershipTest implements `in`/`not in` for collections, strings
// (substring), and dicts (key membership).
func membershipTest(ev *Evaluator, needle, haystack Value) (bool, error) {
	switch h := haystack.(type) {
	case Str:
		n, ok := needle.(Str)
		if !ok {
			return false, newScriptError(ErrType, "'in <string>' requires string as left operand")
		}
		return strings.Contains(string(h), string(n)), nil
	case *List:
		for _, e := range h.Elems {
			if valuesEqual(e, needle) {
				return true, nil
			}
		}
		return false, nil
	case *Tuple:
		for _, e := range h.Elems {
			if valuesEqual(e, needle) {
				return true, nil
			}
		}
		return false, nil
	case *Dict:
		_, found, err := h.Get(needle)
		return found, err
	default:
		if ev.Bridge != nil {
			if next, ok := ev.Bridge.Iterable(haystack); ok {
				for {
					v, more, err := next()
					if err != nil {
						return false, err
					}
					if !more {
						return false, nil
					}
					if valuesEqual(v, needle) {
						return true, nil
					}
				}
			}
		}
		return false, newScriptError(ErrType, "argument of type '%s' is not iterable", haystack.Kind())
	}
}

func (ev *Evaluator) evalDictLit(e *ast.DictLit, env *Environment, frame *Frame) Value {
	d := NewDict()
	for i := range e.Keys {
		k := ev.Eval(e.Keys[i], env, frame)
		if isUnwinding(k) {
			return k
		}
		v := ev.Eval(e.Values[i], env, frame)
		if isUnwinding(v) {
			return v
		}
		if err := d.Set(k, v); err != nil {
			return &errSignal{Err: toScriptError(err, ErrType)}
		}
	}
	return d
}

func (ev *Evaluator) evalFormattedString(e *ast.FormattedString, env *Environment, frame *Frame) Value {
	var b strings.Builder
	for _, part := range e.Parts {
		if part.Expr == nil {
			b.WriteString(part.Literal)
			continue
		}
		v := ev.Eval(part.Expr, env, frame)
		if isUnwinding(v) {
			return v
		}
		b.WriteString(StrOf(v))
	}
	return Str(b.String())
}
