package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxuser0/pyjinn/internal/ast"
)

func testEvaluator(t *testing.T) (*Evaluator, *Environment) {
	t.Helper()
	env := NewGlobals()
	ev := NewEvaluator(nil)
	RegisterBuiltins(env, ev)
	return ev, env
}

func runProgram(t *testing.T, ev *Evaluator, env *Environment, stmts []ast.Statement) {
	t.Helper()
	res := ev.EvalBlock(stmts, env, &Frame{})
	if es, ok := isErrSignal(res); ok {
		t.Fatalf("program failed: %v", es.Err)
	}
	require.False(t, isUnwinding(res))
}

func intConst(v int64) *ast.Constant  { return &ast.Constant{Typename: "int", Value: v} }
func strConst(s string) *ast.Constant { return &ast.Constant{Typename: "str", Value: s} }
func nm(id string) *ast.Name          { return &ast.Name{Id: id} }

func assignName(id string, v ast.Expression) *ast.Assign {
	return &ast.Assign{Targets: []ast.Expression{nm(id)}, Value: v}
}

func mustGet(t *testing.T, env *Environment, name string) Value {
	t.Helper()
	v, err := env.Get(name)
	require.NoError(t, err)
	return v
}

func TestForLoopBreakAndContinue(t *testing.T) {
	ev, env := testEvaluator(t)
	// total = 0
	// for i in range(10):
	//     if i == 7: break
	//     if i % 2 == 1: continue
	//     total += i
	stmts := []ast.Statement{
		assignName("total", intConst(0)),
		&ast.For{
			Target: nm("i"),
			Iter:   &ast.Call{Callee: nm("range"), Args: []ast.Expression{intConst(10)}},
			Body: []ast.Statement{
				&ast.If{
					Test: &ast.Compare{Lhs: nm("i"), Op: "Eq", Rhs: intConst(7)},
					Body: []ast.Statement{&ast.Break{}},
				},
				&ast.If{
					Test: &ast.Compare{
						Lhs: &ast.BinaryOp{Left: nm("i"), Op: "Mod", Right: intConst(2)},
						Op:  "Eq", Rhs: intConst(1),
					},
					Body: []ast.Statement{&ast.Continue{}},
				},
				&ast.AugAssign{Target: nm("total"), Op: "Add", Value: nm("i")},
			},
		},
	}
	runProgram(t, ev, env, stmts)
	assert.Equal(t, NewInt(12), mustGet(t, env, "total"))
}

func TestWhileLoop(t *testing.T) {
	ev, env := testEvaluator(t)
	// n = 3; count = 0
	// while n: count += n; n -= 1
	stmts := []ast.Statement{
		assignName("n", intConst(3)),
		assignName("count", intConst(0)),
		&ast.While{
			Test: nm("n"),
			Body: []ast.Statement{
				&ast.AugAssign{Target: nm("count"), Op: "Add", Value: nm("n")},
				&ast.AugAssign{Target: nm("n"), Op: "Sub", Value: intConst(1)},
			},
		},
	}
	runProgram(t, ev, env, stmts)
	assert.Equal(t, NewInt(6), mustGet(t, env, "count"))
}

func TestAugAssignListConcatMutatesInPlace(t *testing.T) {
	ev, env := testEvaluator(t)
	stmts := []ast.Statement{
		assignName("l", &ast.ListLit{Elts: []ast.Expression{intConst(1)}}),
		assignName("l2", nm("l")),
		&ast.AugAssign{Target: nm("l"), Op: "Add", Value: &ast.ListLit{Elts: []ast.Expression{intConst(2)}}},
	}
	runProgram(t, ev, env, stmts)
	l := mustGet(t, env, "l").(*List)
	l2 := mustGet(t, env, "l2").(*List)
	assert.Same(t, l, l2)
	assert.Equal(t, 2, l.Len())
}

func TestTupleDestructuringAssignment(t *testing.T) {
	ev, env := testEvaluator(t)
	stmts := []ast.Statement{
		&ast.Assign{
			Targets: []ast.Expression{&ast.TupleLit{Elts: []ast.Expression{nm("a"), nm("b")}}},
			Value:   &ast.TupleLit{Elts: []ast.Expression{intConst(1), strConst("x")}},
		},
	}
	runProgram(t, ev, env, stmts)
	assert.Equal(t, NewInt(1), mustGet(t, env, "a"))
	assert.Equal(t, Str("x"), mustGet(t, env, "b"))
}

func TestTupleDestructuringLengthMismatch(t *testing.T) {
	ev, env := testEvaluator(t)
	res := ev.EvalStatement(&ast.Assign{
		Targets: []ast.Expression{&ast.TupleLit{Elts: []ast.Expression{nm("a"), nm("b")}}},
		Value:   &ast.TupleLit{Elts: []ast.Expression{intConst(1)}},
	}, env, &Frame{})
	es, ok := isErrSignal(res)
	require.True(t, ok)
	assert.Equal(t, ErrType, es.Err.Kind)
}

func TestFStringInterpolation(t *testing.T) {
	ev, env := testEvaluator(t)
	stmts := []ast.Statement{
		assignName("x", intConst(7)),
		assignName("s", &ast.FormattedString{Parts: []ast.FStringPart{
			{Literal: "v="},
			{Expr: nm("x")},
		}}),
	}
	runProgram(t, ev, env, stmts)
	assert.Equal(t, Str("v=7"), mustGet(t, env, "s"))
}

func TestLambdaCallAndArity(t *testing.T) {
	ev, env := testEvaluator(t)
	stmts := []ast.Statement{
		assignName("f", &ast.Lambda{
			Params: []ast.Param{{Name: "x"}},
			Body:   &ast.BinaryOp{Left: nm("x"), Op: "Add", Right: intConst(1)},
		}),
		assignName("r", &ast.Call{Callee: nm("f"), Args: []ast.Expression{intConst(2)}}),
	}
	runProgram(t, ev, env, stmts)
	assert.Equal(t, NewInt(3), mustGet(t, env, "r"))

	fn := mustGet(t, env, "f")
	_, err := ev.Apply(fn, []Value{NewInt(1), NewInt(2)})
	require.Error(t, err)
	se, ok := err.(*ScriptError)
	require.True(t, ok)
	assert.Equal(t, ErrArity, se.Kind)
}

func TestDictLiteralSubscriptAndMembership(t *testing.T) {
	ev, env := testEvaluator(t)
	stmts := []ast.Statement{
		assignName("d", &ast.DictLit{
			Keys:   []ast.Expression{strConst("a")},
			Values: []ast.Expression{intConst(1)},
		}),
		&ast.Assign{
			Targets: []ast.Expression{&ast.Subscript{Value: nm("d"), Index: strConst("b")}},
			Value:   intConst(2),
		},
		assignName("hasA", &ast.Compare{Lhs: strConst("a"), Op: "In", Rhs: nm("d")}),
		assignName("hasZ", &ast.Compare{Lhs: strConst("z"), Op: "In", Rhs: nm("d")}),
		assignName("b", &ast.Subscript{Value: nm("d"), Index: strConst("b")}),
	}
	runProgram(t, ev, env, stmts)
	assert.Equal(t, True, mustGet(t, env, "hasA"))
	assert.Equal(t, False, mustGet(t, env, "hasZ"))
	assert.Equal(t, NewInt(2), mustGet(t, env, "b"))

	d := mustGet(t, env, "d").(*Dict)
	assert.Equal(t, []Value{Str("a"), Str("b")}, d.Keys())
}

func TestMissingDictKeyIsKeyError(t *testing.T) {
	ev, env := testEvaluator(t)
	runProgram(t, ev, env, []ast.Statement{
		assignName("d", &ast.DictLit{}),
	})
	res := ev.Eval(&ast.Subscript{Value: nm("d"), Index: strConst("nope")}, env, &Frame{})
	es, ok := isErrSignal(res)
	require.True(t, ok)
	assert.Equal(t, ErrKey, es.Err.Kind)
}

func TestEnumerateYieldsIndexValueTuples(t *testing.T) {
	ev, _ := testEvaluator(t)
	next, err := ev.iterate(&Enumerate{Inner: Str("ab"), Start: 1})
	require.NoError(t, err)

	first, ok, err := next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewTuple([]Value{NewInt(1), Str("a")}), first)

	second, ok, err := next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewTuple([]Value{NewInt(2), Str("b")}), second)

	_, ok, err = next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStringPercentFormatting(t *testing.T) {
	out, err := Mod(Str("%s-%d"), NewTuple([]Value{Str("a"), NewInt(3)}))
	require.NoError(t, err)
	assert.Equal(t, Str("a-3"), out)

	out, err = Mod(Str("%s!"), Str("hi"))
	require.NoError(t, err)
	assert.Equal(t, Str("hi!"), out)
}

func TestDivisionAlwaysFloat(t *testing.T) {
	out, err := Div(NewInt(1), NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, NewFloat(0.5), out)
}

func TestPowNarrowsExactIntegerResults(t *testing.T) {
	out, err := Pow(NewInt(2), NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, NewInt(1024), out)

	out, err = Pow(NewInt(2), NewInt(-1))
	require.NoError(t, err)
	assert.Equal(t, NewFloat(0.5), out)
}

func TestPrintWritesToConfiguredSink(t *testing.T) {
	ev, env := testEvaluator(t)
	var buf bytes.Buffer
	ev.Stdout = &buf
	pr := mustGet(t, env, "print").(*NativeFn)
	_, err := pr.Fn([]Value{Str("a"), NewInt(1), None})
	require.NoError(t, err)
	assert.Equal(t, "a 1 None\n", buf.String())
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	ev, env := testEvaluator(t)
	res := ev.EvalStatement(&ast.Break{}, env, &Frame{})
	es, ok := isErrSignal(res)
	require.True(t, ok)
	assert.Equal(t, ErrUnsupportedOp, es.Err.Kind)
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	ev, env := testEvaluator(t)
	res := ev.EvalStatement(&ast.Return{Value: intConst(1)}, env, &Frame{})
	es, ok := isErrSignal(res)
	require.True(t, ok)
	assert.Equal(t, ErrUnsupportedOp, es.Err.Kind)
}

func TestConditionalExpression(t *testing.T) {
	ev, env := testEvaluator(t)
	expr := &ast.IfExpr{
		Test:   &ast.Compare{Lhs: intConst(1), Op: "Lt", Rhs: intConst(2)},
		Body:   strConst("yes"),
		Orelse: strConst("no"),
	}
	assert.Equal(t, Str("yes"), ev.Eval(expr, env, &Frame{}))
}

func TestBoolOpReturnsOperandNotBool(t *testing.T) {
	ev, env := testEvaluator(t)
	// "" or "fallback" -> "fallback"; "x" and "y" -> "y"
	orExpr := &ast.BoolOp{Op: "OR", Values: []ast.Expression{strConst(""), strConst("fallback")}}
	assert.Equal(t, Str("fallback"), ev.Eval(orExpr, env, &Frame{}))
	andExpr := &ast.BoolOp{Op: "AND", Values: []ast.Expression{strConst("x"), strConst("y")}}
	assert.Equal(t, Str("y"), ev.Eval(andExpr, env, &Frame{}))
}

func TestSliceStepUnsupported(t *testing.T) {
	_, _, _, err := resolveSliceBounds(&Slice{Step: NewInt(2)}, 10)
	require.Error(t, err)
	se, ok := err.(*ScriptError)
	require.True(t, ok)
	assert.Equal(t, ErrUnsupportedOp, se.Kind)
}

func TestExceptionClassStrIsMessage(t *testing.T) {
	ev, env := testEvaluator(t)
	classVal := mustGet(t, env, "Exception").(*UserClass)
	inst, err := ev.construct(classVal, []Value{Str("boom")})
	require.NoError(t, err)
	assert.Equal(t, "boom", StrOf(inst))
	assert.Equal(t, "Exception('boom')", inst.Inspect())
}
