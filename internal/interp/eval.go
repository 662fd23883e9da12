package interp

import (
	"io"
	"os"

	"github.com/maxuser0/pyjinn/internal/ast"
)

// Evaluator drives execution of a decoded AST against an Environment: a
// type switch over ast.Node plus signal-value propagation for control
// flow.
type Evaluator struct {
	Bridge HostBridge
	Stdout io.Writer
}

func NewEvaluator(bridge HostBridge) *Evaluator {
	return &Evaluator{Bridge: bridge, Stdout: os.Stdout}
}

// Frame carries per-call-frame control-flow bookkeeping. It's kept
// separate from Environment because Return/Break/Continue are modeled as
// signal Values (see value_signals.go) threaded through Eval's return
// channel rather than as polled boolean flags on the environment itself;
// loopDepth is the one piece of state that still needs explicit
// tracking, to reject `break`/`continue` outside a loop.
type Frame struct {
	loopDepth int
	inFunc    bool
}

// EvalBlock executes a statement list in order, stopping at the first
// statement that produces an unwinding signal (return/break/continue/
// thrown/error).
func (ev *Evaluator) EvalBlock(stmts []ast.Statement, env *Environment, frame *Frame) Value {
	var result Value = None
	for _, stmt := range stmts {
		result = ev.EvalStatement(stmt, env, frame)
		if isUnwinding(result) {
			return result
		}
	}
	return result
}

// EvalStatement dispatches on stmt's concrete type.
func (ev *Evaluator) EvalStatement(stmt ast.Statement, env *Environment, frame *Frame) Value {
	switch s := stmt.(type) {
	case *ast.StatementBlock:
		return ev.EvalBlock(s.Body, env, frame)
	case *ast.ExprStmt:
		return ev.evalExprForEffect(s.Expr, env, frame)
	case *ast.Assign:
		return ev.evalAssign(s, env, frame)
	case *ast.AugAssign:
		return ev.evalAugAssign(s, env, frame)
	case *ast.AnnAssign:
		return ev.evalAnnAssign(s, env, frame)
	case *ast.Delete:
		return ev.evalDelete(s, env, frame)
	case *ast.If:
		return ev.evalIf(s, env, frame)
	case *ast.For:
		return ev.evalFor(s, env, frame)
	case *ast.While:
		return ev.evalWhile(s, env, frame)
	case *ast.Break:
		if frame.loopDepth <= 0 {
			return newError(ErrUnsupportedOp, "'break' outside loop")
		}
		return &breakSignal{}
	case *ast.Continue:
		if frame.loopDepth <= 0 {
			return newError(ErrUnsupportedOp, "'continue' not properly in loop")
		}
		return &continueSignal{}
	case *ast.Return:
		if !frame.inFunc {
			return newError(ErrUnsupportedOp, "'return' outside function")
		}
		if s.Value == nil {
			return &returnSignal{Value: None}
		}
		v := ev.Eval(s.Value, env, frame)
		if isUnwinding(v) {
			return v
		}
		return &returnSignal{Value: v}
	case *ast.Raise:
		return ev.evalRaise(s, env, frame)
	case *ast.Try:
		return ev.evalTry(s, env, frame)
	case *ast.GlobalDecl:
		for _, name := range s.Names {
			env.DeclareGlobal(name)
		}
		return None
	case *ast.FunctionDef:
		env.Set(s.Name, &Function{Def: s, Env: env})
		return None
	case *ast.ClassDef:
		return ev.evalClassDef(s, env, frame)
	default:
		return newError(ErrParse, "unsupported statement node %T", stmt)
	}
}

func (ev *Evaluator) evalExprForEffect(expr ast.Expression, env *Environment, frame *Frame) Value {
	v := ev.Eval(expr, env, frame)
	return v
}
