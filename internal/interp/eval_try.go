package interp

import "github.com/maxuser0/pyjinn/internal/ast"

// evalRaise implements `raise VALUE`: constructs an internal thrown
// signal wrapping the evaluated Value.
func (ev *Evaluator) evalRaise(s *ast.Raise, env *Environment, frame *Frame) Value {
	v := ev.Eval(s.Exc, env, frame)
	if isUnwinding(v) {
		return v
	}
	return &thrown{Payload: v}
}

// evalTry evaluates the body, inspects the resulting Value for a signal,
// and acts accordingly. `finally` always runs; a signal raised in
// finally supersedes whatever the try/except path produced, matching
// Python's finally-wins-on-exception rule.
func (ev *Evaluator) evalTry(s *ast.Try, env *Environment, frame *Frame) Value {
	result := ev.EvalBlock(s.Body, env, frame)

	if th, ok := isThrown(result); ok {
		result = ev.runHandlers(s.Handlers, th, env, frame)
	}

	if len(s.FinalBody) > 0 {
		finallyResult := ev.EvalBlock(s.FinalBody, env, frame)
		if isUnwinding(finallyResult) {
			return finallyResult
		}
	}
	return result
}

// runHandlers walks except clauses in order: an empty except matches
// anything; a named-class except matches only a thrown UserInstance of
// that exact class or a thrown host exception assignable to that host
// class. Unmatched exceptions propagate unchanged.
func (ev *Evaluator) runHandlers(handlers []*ast.ExceptHandler, th *thrown, env *Environment, frame *Frame) Value {
	for _, h := range handlers {
		matched, err := ev.matchesHandler(h, th, env)
		if err != nil {
			return &errSignal{Err: toScriptError(err, ErrType)}
		}
		if !matched {
			continue
		}
		handlerEnv := env
		if h.Name != "" {
			handlerEnv.Set(h.Name, exceptionBindingValue(th))
		}
		return ev.EvalBlock(h.Body, handlerEnv, frame)
	}
	return th
}

// exceptionBindingValue is what `except ... as e` binds: the raised
// payload for a script exception, or a Str of the host error's message
// for a wrapped host exception with no script-level payload.
func exceptionBindingValue(th *thrown) Value {
	if th.Payload != nil {
		return th.Payload
	}
	if th.Err != nil {
		return Str(th.Err.Message)
	}
	return None
}

func (ev *Evaluator) matchesHandler(h *ast.ExceptHandler, th *thrown, env *Environment) (bool, error) {
	if h.Type == nil {
		return true, nil
	}
	classVal, err := env.Get(h.Type.Id)
	if err != nil {
		return false, err
	}
	switch class := classVal.(type) {
	case *UserClass:
		inst, ok := th.Payload.(*UserInstance)
		return ok && inst.Class == class, nil
	case *HostClass:
		if ev.Bridge == nil {
			return false, nil
		}
		target := th.Payload
		if target == nil {
			// A wrapped host exception with no script payload: match
			// against a synthetic HostObject carrying the Go error so
			// IsInstance still has something concrete to inspect.
			var handle any = th.Err
			if th.Err != nil && th.Err.Unwrap() != nil {
				handle = th.Err.Unwrap()
			}
			target = &HostObject{ClassName: "HostException", Handle: handle}
		}
		return ev.Bridge.IsInstance(target, class)
	default:
		return false, newScriptError(ErrType, "catch clauses must name a class")
	}
}
