package interp

import "github.com/maxuser0/pyjinn/internal/ast"

// Function is a user-defined, top-level or nested function value. Env is
// the definition-time environment (not the call site), giving it Python
// closure semantics.
type Function struct {
	Def *ast.FunctionDef
	Env *Environment
}

func (*Function) Kind() Kind      { return KindFunction }
func (f *Function) Inspect() string { return "<function " + f.Def.Name + ">" }

// BoundFunction is a user instance method bound to a receiver: calling
// it prepends Receiver as the first argument.
type BoundFunction struct {
	Func     *Function
	Receiver Value
}

func (*BoundFunction) Kind() Kind { return KindBoundFunction }
func (b *BoundFunction) Inspect() string {
	return "<bound method " + b.Func.Def.Name + ">"
}

// Lambda is an anonymous function literal; like Function it closes over
// its definition-time environment.
type Lambda struct {
	Node *ast.Lambda
	Env  *Environment
}

func (*Lambda) Kind() Kind      { return KindLambda }
func (*Lambda) Inspect() string { return "<lambda>" }

// NativeFn wraps a Go closure as a callable script value: every
// built-in, plus the synthesized list.append/dict.get-style methods
// attribute access produces on collections, is one of these.
type NativeFn struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*NativeFn) Kind() Kind        { return KindNativeFn }
func (n *NativeFn) Inspect() string { return "<built-in function " + n.Name + ">" }
