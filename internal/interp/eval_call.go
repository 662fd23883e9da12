package interp

import "github.com/maxuser0/pyjinn/internal/ast"

// evalCall evaluates the callee once and the arguments left-to-right,
// then dispatches by callee kind (user function, lambda, bound method,
// host class constructor, host method, native builtin).
func (ev *Evaluator) evalCall(e *ast.Call, env *Environment, frame *Frame) Value {
	callee := ev.Eval(e.Callee, env, frame)
	if isUnwinding(callee) {
		return callee
	}
	args, sig := ev.evalExprList(e.Args, env, frame)
	if sig != nil {
		return sig
	}
	v, err := ev.Apply(callee, args)
	if err != nil {
		return signalFromError(err)
	}
	return v
}

// Apply invokes callee with args, used both by evalCall and by
// pkg/pyjinn's Invoke for calling a function reference from Go.
func (ev *Evaluator) Apply(callee Value, args []Value) (Value, error) {
	switch fn := callee.(type) {
	case *Function:
		return ev.callUserFunction(fn, args)
	case *BoundFunction:
		return ev.callUserFunction(fn.Func, append([]Value{fn.Receiver}, args...))
	case *Lambda:
		return ev.callLambda(fn, args)
	case *NativeFn:
		return fn.Fn(args)
	case *UserClass:
		return ev.construct(fn, args)
	case *HostClass:
		if ev.Bridge == nil {
			return nil, newScriptError(ErrHostException, "no host bridge configured")
		}
		return ev.Bridge.Construct(fn, args)
	default:
		return nil, newScriptError(ErrType, "'%s' object is not callable", callee.Kind())
	}
}

func checkArity(name string, want, got int) error {
	if want != got {
		return newScriptError(ErrArity, "%s() takes %d argument(s) but %d were given", name, want, got)
	}
	return nil
}

func (ev *Evaluator) callUserFunction(fn *Function, args []Value) (Value, error) {
	if err := checkArity(fn.Def.Name, len(fn.Def.Params), len(args)); err != nil {
		return nil, err
	}
	callEnv := NewEnclosed(fn.Env)
	for i, p := range fn.Def.Params {
		callEnv.Set(p.Name, args[i])
	}
	callFrame := &Frame{inFunc: true}
	result := ev.EvalBlock(fn.Def.Body, callEnv, callFrame)
	return unwrapCallResult(result)
}

func (ev *Evaluator) callLambda(fn *Lambda, args []Value) (Value, error) {
	if err := checkArity("<lambda>", len(fn.Node.Params), len(args)); err != nil {
		return nil, err
	}
	callEnv := NewEnclosed(fn.Env)
	for i, p := range fn.Node.Params {
		callEnv.Set(p.Name, args[i])
	}
	callFrame := &Frame{inFunc: true}
	v := ev.Eval(fn.Node.Body, callEnv, callFrame)
	if !isUnwinding(v) {
		return v, nil
	}
	return unwrapCallResult(v)
}

// unwrapCallResult turns the internal signal a function body produced
// into the plain Value/error pair Apply's callers expect: a return
// signal unwraps to its value, a thrown/error signal becomes a Go error
// so it keeps propagating, a fall-through (no explicit return) yields
// None, matching Python's implicit-None-return rule.
func unwrapCallResult(result Value) (Value, error) {
	if rv, ok := isReturn(result); ok {
		return rv.Value, nil
	}
	if th, ok := isThrown(result); ok {
		return nil, thrownAsError(th)
	}
	if es, ok := isErrSignal(result); ok {
		return nil, es.Err
	}
	if isBreak(result) || isContinue(result) {
		return nil, newScriptError(ErrUnsupportedOp, "break/continue escaped enclosing loop")
	}
	return None, nil
}

// thrownAsError preserves a thrown signal across an Apply boundary (whose
// signature is the ordinary (Value, error) a Go caller expects) by
// re-wrapping it as a *ScriptError carrying the original payload. The
// caller-side evalCall turns that back into a *thrown via
// signalFromError, so a raise inside a called function is still
// catchable by a try/except in the caller.
func thrownAsError(th *thrown) error {
	if th.Err != nil {
		return th.Err
	}
	return &ScriptError{Kind: ErrScriptException, Message: StrOf(th.Payload), Value: th.Payload}
}
