package interp

// This file holds the internal, script-invisible Value variants used to
// propagate control flow and errors through Eval's ordinary return
// channel, instead of Go panics. Statement execution inspects every
// evaluated Value for one of these before continuing.

// returnSignal carries a `return` statement's value up to the enclosing
// function call.
type returnSignal struct{ Value Value }

func (*returnSignal) Kind() Kind      { return kindReturnSignal }
func (*returnSignal) Inspect() string { return "<return>" }

// breakSignal carries a `break` statement up to the enclosing loop.
type breakSignal struct{}

func (*breakSignal) Kind() Kind      { return kindBreakSignal }
func (*breakSignal) Inspect() string { return "<break>" }

// continueSignal carries a `continue` statement up to the enclosing loop.
type continueSignal struct{}

func (*continueSignal) Kind() Kind      { return kindContinueSignal }
func (*continueSignal) Inspect() string { return "<continue>" }

// thrown wraps a `raise`d Value as it propagates looking for a matching
// `except` handler. Err is non-nil when the throw crossed a Go error
// boundary: a host exception (wrapHostError), or a script exception
// coming back out of Apply.
type thrown struct {
	Payload Value
	Err     *ScriptError
}

func (*thrown) Kind() Kind      { return kindThrown }
func (*thrown) Inspect() string { return "<exception>" }

// errSignal wraps a terminal *ScriptError (NameError, TypeError, ...)
// that is not catchable by script `try`/`except` — only ScriptException
// and HostException are — and always bubbles to the embedder.
type errSignal struct{ Err *ScriptError }

func (*errSignal) Kind() Kind      { return kindError }
func (*errSignal) Inspect() string { return "<error>" }

func isReturn(v Value) (*returnSignal, bool)     { s, ok := v.(*returnSignal); return s, ok }
func isBreak(v Value) bool                       { _, ok := v.(*breakSignal); return ok }
func isContinue(v Value) bool                    { _, ok := v.(*continueSignal); return ok }
func isThrown(v Value) (*thrown, bool)           { t, ok := v.(*thrown); return t, ok }
func isErrSignal(v Value) (*errSignal, bool)     { e, ok := v.(*errSignal); return e, ok }

// isUnwinding reports whether v is any signal that should make statement
// execution stop processing the rest of its block and propagate up
// unchanged.
func isUnwinding(v Value) bool {
	switch v.(type) {
	case *returnSignal, *breakSignal, *continueSignal, *thrown, *errSignal:
		return true
	default:
		return false
	}
}

// AsError converts a terminal Eval/EvalBlock result into a Go error, for
// embedders (pkg/pyjinn) that only want a plain (error) return from
// top-level execution: an errSignal or thrown unwraps to its
// *ScriptError, anything else reports ok=false (there is no error).
func AsError(v Value) (*ScriptError, bool) {
	switch s := v.(type) {
	case *errSignal:
		return s.Err, true
	case *thrown:
		if s.Err != nil {
			return s.Err, true
		}
		return &ScriptError{Kind: ErrScriptException, Message: StrOf(s.Payload), Value: s.Payload}, true
	default:
		return nil, false
	}
}

// newError builds a terminal errSignal from a ScriptError, the
// Value-level equivalent of returning a bare Go error.
func newError(kind ErrorKind, format string, args ...any) *errSignal {
	return &errSignal{Err: newScriptError(kind, format, args...)}
}

// signalFromError converts a Go error crossing back into the evaluator
// (from Apply, or from a HostBridge call) into the right internal
// signal: ErrScriptException/ErrHostException become a catchable
// *thrown, everything else becomes a terminal errSignal that bubbles
// past any enclosing try/except.
func signalFromError(err error) Value {
	se, ok := err.(*ScriptError)
	if !ok {
		se = wrapHostError(err)
	}
	switch se.Kind {
	case ErrScriptException:
		return &thrown{Payload: se.Value, Err: se}
	case ErrHostException:
		return &thrown{Err: se}
	default:
		return &errSignal{Err: se}
	}
}
