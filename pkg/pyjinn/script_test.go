package pyjinn

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxuser0/pyjinn/internal/hostbridge"
	"github.com/maxuser0/pyjinn/internal/interp"
)

// The j* helpers below build the JSON node shapes the upstream parser
// emits, so each end-to-end fixture reads as a tree instead of a wall of
// raw JSON.

func jmod(body ...any) map[string]any {
	return map[string]any{"type": "Module", "body": body}
}

func jint(v int) map[string]any {
	return map[string]any{"type": "Constant", "typename": "int", "value": v}
}

func jfloat(v float64) map[string]any {
	return map[string]any{"type": "Constant", "typename": "float", "value": v}
}

func jstr(s string) map[string]any {
	return map[string]any{"type": "Constant", "typename": "str", "value": s}
}

func jname(id string) map[string]any { return map[string]any{"type": "Name", "id": id} }

func jassign(target, value any) map[string]any {
	return map[string]any{"type": "Assign", "targets": []any{target}, "value": value}
}

func jbin(op string, left, right any) map[string]any {
	return map[string]any{"type": "BinaryOp", "op": op, "left": left, "right": right}
}

func jcmp(op string, left, right any) map[string]any {
	return map[string]any{"type": "Compare", "left": left, "ops": []any{op}, "comparators": []any{right}}
}

func jcall(fn any, args ...any) map[string]any {
	if args == nil {
		args = []any{}
	}
	return map[string]any{"type": "Call", "callee": fn, "args": args}
}

func jattr(obj any, attr string) map[string]any {
	return map[string]any{"type": "Attribute", "object": obj, "attr": attr}
}

func jret(v any) map[string]any  { return map[string]any{"type": "Return", "value": v} }
func jexpr(e any) map[string]any { return map[string]any{"type": "ExprStmt", "value": e} }

func jdef(name string, params []string, body ...any) map[string]any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = map[string]any{"arg": p}
	}
	return map[string]any{
		"type":           "FunctionDef",
		"name":           name,
		"args":           map[string]any{"args": args},
		"decorator_list": []any{},
		"body":           body,
	}
}

func jif(test any, body, orelse []any) map[string]any {
	return map[string]any{"type": "If", "test": test, "body": body, "orelse": orelse}
}

func jfor(target, iter any, body ...any) map[string]any {
	return map[string]any{"type": "For", "target": target, "iter": iter, "body": body}
}

func jlist(elts ...any) map[string]any {
	if elts == nil {
		elts = []any{}
	}
	return map[string]any{"type": "ListLit", "elts": elts}
}

func jsub(value, index any) map[string]any {
	return map[string]any{"type": "Subscript", "value": value, "slice": index}
}

func jslice(lower, upper any) map[string]any {
	m := map[string]any{"type": "Slice"}
	if lower != nil {
		m["lower"] = lower
	}
	if upper != nil {
		m["upper"] = upper
	}
	return m
}

func jraise(exc any) map[string]any {
	return map[string]any{"type": "Raise", "exc": exc}
}

func mustParse(t *testing.T, mod map[string]any) *Script {
	t.Helper()
	data, err := json.Marshal(mod)
	require.NoError(t, err)
	s := New(nil)
	require.NoError(t, s.Parse(data))
	return s
}

func mustExec(t *testing.T, mod map[string]any) *Script {
	t.Helper()
	s := mustParse(t, mod)
	require.NoError(t, s.Exec())
	return s
}

func globalOf(t *testing.T, s *Script, name string) any {
	t.Helper()
	v, err := s.GetGlobal(name)
	require.NoError(t, err)
	return v
}

func TestTimesTwo(t *testing.T) {
	mod := jmod(jdef("times_two", []string{"x"},
		jassign(jname("y"), jbin("Mult", jname("x"), jint(2))),
		jret(jname("y")),
	))
	s := mustExec(t, mod)
	fn, err := s.GetFunction("times_two")
	require.NoError(t, err)
	out, err := s.Invoke(fn, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), out)
}

func TestDistanceScalar(t *testing.T) {
	mod := jmod(jdef("distance_scalar2", []string{"x1", "y1", "x2", "y2"},
		jret(jcall(jattr(jname("math"), "sqrt"),
			jbin("Add",
				jbin("Pow", jbin("Sub", jname("x1"), jname("x2")), jint(2)),
				jbin("Pow", jbin("Sub", jname("y1"), jname("y2")), jint(2)))))))
	s := mustExec(t, mod)
	fn, err := s.GetFunction("distance_scalar2")
	require.NoError(t, err)
	out, err := s.Invoke(fn, 100, 100, 103, 104)
	require.NoError(t, err)
	assert.Equal(t, float64(5), out)
}

func TestFizzBuzzOutput(t *testing.T) {
	pr := func(arg any) any { return jexpr(jcall(jname("print"), arg)) }
	divisibleBy := func(n int) any { return jcmp("Eq", jbin("Mod", jname("i"), jint(n)), jint(0)) }
	mod := jmod(jfor(jname("i"), jcall(jname("range"), jint(1), jint(16)),
		jif(divisibleBy(15), []any{pr(jstr("FizzBuzz"))}, []any{
			jif(divisibleBy(3), []any{pr(jstr("Fizz"))}, []any{
				jif(divisibleBy(5), []any{pr(jstr("Buzz"))}, []any{
					pr(jcall(jname("str"), jname("i"))),
				}),
			}),
		}),
	))
	s := mustParse(t, mod)
	var buf bytes.Buffer
	s.RedirectStdout(&buf)
	require.NoError(t, s.Exec())
	want := "1\n2\nFizz\n4\nBuzz\nFizz\n7\n8\nFizz\nBuzz\n11\nFizz\n13\n14\nFizzBuzz\n"
	assert.Equal(t, want, buf.String())
}

func jdataclassFrozen(name string, fields ...string) map[string]any {
	body := make([]any, len(fields))
	for i, f := range fields {
		body[i] = map[string]any{
			"type":       "AnnAssign",
			"target":     jname(f),
			"annotation": map[string]any{"type": "Name", "id": "int"},
		}
	}
	return map[string]any{
		"type": "ClassDef",
		"name": name,
		"decorator_list": []any{map[string]any{
			"type":     "Call",
			"func":     map[string]any{"type": "Name", "id": "dataclass"},
			"keywords": []any{map[string]any{"arg": "frozen", "value": map[string]any{"value": true}}},
		}},
		"body": body,
	}
}

func TestFrozenDataclassEqualityAndHash(t *testing.T) {
	mod := jmod(
		jdataclassFrozen("P", "x", "y"),
		jassign(jname("eq"), jcmp("Eq",
			jcall(jname("P"), jint(1), jint(2)),
			jcall(jname("P"), jint(1), jint(2)))),
		jassign(jname("same_hash"), jcmp("Eq",
			jcall(jname("hash"), jcall(jname("P"), jint(1), jint(2))),
			jcall(jname("hash"), jcall(jname("P"), jint(1), jint(2))))),
	)
	s := mustExec(t, mod)
	assert.Equal(t, true, globalOf(t, s, "eq"))
	assert.Equal(t, true, globalOf(t, s, "same_hash"))
}

func TestFrozenDataclassFieldWriteFails(t *testing.T) {
	mod := jmod(
		jdataclassFrozen("P", "x", "y"),
		jassign(jname("p"), jcall(jname("P"), jint(1), jint(2))),
		jassign(jattr(jname("p"), "x"), jint(9)),
	)
	s := mustParse(t, mod)
	err := s.Exec()
	var se *interp.ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, interp.ErrFrozenInstance, se.Kind)
}

func TestListComprehension(t *testing.T) {
	comp := map[string]any{
		"type":      "ListComp",
		"transform": jbin("Mult", jname("x"), jname("x")),
		"generators": []any{map[string]any{
			"target": jname("x"),
			"iter":   jcall(jname("range"), jint(5)),
			"ifs":    []any{jcmp("Eq", jbin("Mod", jname("x"), jint(2)), jint(0))},
		}},
	}
	s := mustExec(t, jmod(jassign(jname("r"), comp)))
	assert.Equal(t, []any{int64(0), int64(4), int64(16)}, globalOf(t, s, "r"))
}

func TestTryExceptFinallyOrdering(t *testing.T) {
	appendTo := func(v any) any { return jexpr(jcall(jattr(jname("t"), "append"), v)) }
	try := map[string]any{
		"type": "Try",
		"body": []any{
			appendTo(jstr("a")),
			jraise(jcall(jname("Exception"), jstr("e"))),
		},
		"handlers": []any{map[string]any{
			"type":  "ExceptHandler",
			"type_": jname("Exception"),
			"name":  "e",
			"body":  []any{appendTo(jcall(jname("str"), jname("e")))},
		}},
		"finalbody": []any{appendTo(jstr("f"))},
	}
	s := mustExec(t, jmod(jassign(jname("t"), jlist()), try))
	assert.Equal(t, []any{"a", "e", "f"}, globalOf(t, s, "t"))
}

func TestExceptionMatchingByClass(t *testing.T) {
	appendTo := func(v any) any { return jexpr(jcall(jattr(jname("r"), "append"), v)) }
	try := map[string]any{
		"type": "Try",
		"body": []any{jraise(jcall(jname("ValueError"), jstr("v")))},
		"handlers": []any{
			map[string]any{"type": "ExceptHandler", "type_": jname("RuntimeError"), "name": "e",
				"body": []any{appendTo(jstr("wrong"))}},
			map[string]any{"type": "ExceptHandler", "type_": jname("ValueError"), "name": "e",
				"body": []any{appendTo(jcall(jname("str"), jname("e")))}},
		},
	}
	s := mustExec(t, jmod(jassign(jname("r"), jlist()), try))
	assert.Equal(t, []any{"v"}, globalOf(t, s, "r"))
}

func TestBareExceptCatchesAnything(t *testing.T) {
	appendTo := func(v any) any { return jexpr(jcall(jattr(jname("r"), "append"), v)) }
	try := map[string]any{
		"type":     "Try",
		"body":     []any{jraise(jcall(jname("ValueError"), jstr("v")))},
		"handlers": []any{map[string]any{"type": "ExceptHandler", "body": []any{appendTo(jstr("caught"))}}},
	}
	s := mustExec(t, jmod(jassign(jname("r"), jlist()), try))
	assert.Equal(t, []any{"caught"}, globalOf(t, s, "r"))
}

func TestUncaughtRaiseSurfacesAsScriptException(t *testing.T) {
	s := mustParse(t, jmod(jraise(jcall(jname("Exception"), jstr("boom")))))
	err := s.Exec()
	var se *interp.ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, interp.ErrScriptException, se.Kind)
	assert.Equal(t, "boom", se.Message)
}

func TestClosureSeesOuterRebinding(t *testing.T) {
	mod := jmod(
		jdef("outer", nil,
			jassign(jname("x"), jint(1)),
			jdef("inner", nil, jret(jname("x"))),
			jassign(jname("x"), jint(2)),
			jret(jcall(jname("inner")))),
		jassign(jname("r"), jcall(jname("outer"))),
	)
	s := mustExec(t, mod)
	assert.Equal(t, int64(2), globalOf(t, s, "r"))
}

func TestListAliasingIsVisible(t *testing.T) {
	mod := jmod(
		jassign(jname("l"), jlist(jint(1))),
		jassign(jname("l2"), jname("l")),
		jexpr(jcall(jattr(jname("l"), "append"), jint(2))),
		jassign(jname("same"), jcmp("Eq", jname("l2"), jlist(jint(1), jint(2)))),
		jassign(jname("alias"), jcmp("Is", jname("l"), jname("l2"))),
		jassign(jname("fresh"), jcmp("Is", jlist(), jlist())),
	)
	s := mustExec(t, mod)
	assert.Equal(t, true, globalOf(t, s, "same"))
	assert.Equal(t, true, globalOf(t, s, "alias"))
	assert.Equal(t, false, globalOf(t, s, "fresh"))
}

func TestNumericEqualityVersusIdentity(t *testing.T) {
	mod := jmod(
		jassign(jname("eq"), jcmp("Eq", jint(1), jfloat(1.0))),
		jassign(jname("ident"), jcmp("Is", jint(1), jfloat(1.0))),
	)
	s := mustExec(t, mod)
	assert.Equal(t, true, globalOf(t, s, "eq"))
	assert.Equal(t, false, globalOf(t, s, "ident"))
}

func TestSlicing(t *testing.T) {
	mod := jmod(
		jassign(jname("tail"), jsub(jstr("abcdef"), jslice(jint(-2), nil))),
		jassign(jname("mid"), jsub(jlist(jint(1), jint(2), jint(3), jint(4)), jslice(jint(1), jint(3)))),
	)
	s := mustExec(t, mod)
	assert.Equal(t, "ef", globalOf(t, s, "tail"))
	assert.Equal(t, []any{int64(2), int64(3)}, globalOf(t, s, "mid"))
}

func TestIndexPastEndRaises(t *testing.T) {
	s := mustParse(t, jmod(jassign(jname("x"), jsub(jlist(jint(1)), jint(5)))))
	err := s.Exec()
	var se *interp.ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, interp.ErrIndex, se.Kind)
}

func TestGlobalDeclaration(t *testing.T) {
	mod := jmod(
		jassign(jname("g"), jint(1)),
		jdef("bump", nil,
			map[string]any{"type": "GlobalDecl", "names": []any{"g"}},
			jassign(jname("g"), jbin("Add", jname("g"), jint(1)))),
		jexpr(jcall(jname("bump"))),
	)
	s := mustExec(t, mod)
	assert.Equal(t, int64(2), globalOf(t, s, "g"))
}

func TestSetGlobalAndGetGlobalRoundTrip(t *testing.T) {
	s := mustExec(t, jmod())
	require.NoError(t, s.SetGlobal("k", 41))
	assert.Equal(t, int64(41), globalOf(t, s, "k"))
}

func TestBindGoFunctionCallableFromScript(t *testing.T) {
	mod := jmod(jdef("twice_shifted", []string{"x"},
		jret(jcall(jname("shift"), jbin("Mult", jname("x"), jint(2))))))
	s := mustParse(t, mod)
	require.NoError(t, s.Bind("shift", func(v int) int { return v + 1 }))
	require.NoError(t, s.Exec())
	fn, err := s.GetFunction("twice_shifted")
	require.NoError(t, err)
	out, err := s.Invoke(fn, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out)
}

type hostPoint struct{ X, Y int }

func newHostPoint(x, y int) *hostPoint  { return &hostPoint{X: x, Y: y} }
func (p *hostPoint) Norm2() int         { return p.X*p.X + p.Y*p.Y }

func TestJavaClassConstructionAndMethodCall(t *testing.T) {
	reg := hostbridge.NewRegistry()
	reg.Register(&hostbridge.ClassSpec{
		Name:         "geom.Point",
		GoType:       reflect.TypeOf(&hostPoint{}),
		Constructors: []reflect.Value{reflect.ValueOf(newHostPoint)},
		Methods: map[string][]reflect.Value{
			"norm2": {reflect.ValueOf((*hostPoint).Norm2)},
		},
	})
	s := New(reg)
	mod := jmod(
		jassign(jname("Point"), jcall(jname("JavaClass"), jstr("geom.Point"))),
		jassign(jname("p"), jcall(jname("Point"), jint(3), jint(4))),
		jassign(jname("n"), jcall(jattr(jname("p"), "norm2"))),
		jassign(jname("x"), jattr(jname("p"), "X")),
	)
	data, err := json.Marshal(mod)
	require.NoError(t, err)
	require.NoError(t, s.Parse(data))
	require.NoError(t, s.Exec())
	assert.Equal(t, int64(25), globalOf(t, s, "n"))
	assert.Equal(t, int64(3), globalOf(t, s, "x"))
}

func TestJavaClassUnknownNameIsParseError(t *testing.T) {
	s := New(nil)
	data, err := json.Marshal(jmod(jassign(jname("C"), jcall(jname("JavaClass"), jstr("no.such.Class")))))
	require.NoError(t, err)
	assert.Error(t, s.Parse(data))
}

func TestExecBeforeParseFails(t *testing.T) {
	s := New(nil)
	assert.Error(t, s.Exec())
}
