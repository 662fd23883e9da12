package astdecode

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxuser0/pyjinn/internal/ast"
)

func unmarshal(src string, out *map[string]any) error {
	return json.Unmarshal([]byte(src), out)
}

func TestDecodeRejectsNonModuleTop(t *testing.T) {
	_, err := New().Decode([]byte(`{"type":"FunctionDef"}`))
	require.Error(t, err)
}

func TestDecodeSimpleFunction(t *testing.T) {
	src := `{
		"type": "Module",
		"body": [
			{
				"type": "FunctionDef",
				"name": "times_two",
				"args": {"args": [{"arg": "x"}]},
				"decorator_list": [],
				"body": [
					{
						"type": "Assign",
						"targets": [{"type": "Name", "id": "y"}],
						"value": {
							"type": "BinaryOp",
							"op": "Mult",
							"left": {"type": "Name", "id": "x"},
							"right": {"type": "Constant", "typename": "int", "value": 2}
						}
					},
					{"type": "Return", "value": {"type": "Name", "id": "y"}}
				]
			}
		]
	}`
	mod, err := New().Decode([]byte(src))
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	fn, ok := mod.Body[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "times_two", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
	require.Len(t, fn.Body, 2)

	assign, ok := fn.Body[0].(*ast.Assign)
	require.True(t, ok)
	bin, ok := assign.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "Mult", bin.Op)

	ret, ok := fn.Body[1].(*ast.Return)
	require.True(t, ok)
	name, ok := ret.Value.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "y", name.Id)
}

func TestDecodeListCompWithFilter(t *testing.T) {
	src := `{
		"type": "ListComp",
		"transform": {
			"type": "BinaryOp", "op": "Mult",
			"left": {"type": "Name", "id": "x"},
			"right": {"type": "Name", "id": "x"}
		},
		"generators": [{
			"target": {"type": "Name", "id": "x"},
			"iter": {"type": "Call", "callee": {"type": "Name", "id": "range"},
				"args": [{"type": "Constant", "typename": "int", "value": 5}]},
			"ifs": [{
				"type": "Compare", "ops": ["Eq"],
				"left": {
					"type": "BinaryOp", "op": "Mod",
					"left": {"type": "Name", "id": "x"},
					"right": {"type": "Constant", "typename": "int", "value": 2}
				},
				"comparators": [{"type": "Constant", "typename": "int", "value": 0}]
			}]
		}]
	}`
	d := New()
	var raw map[string]any
	require.NoError(t, unmarshal(src, &raw))
	expr, err := d.decodeExpression(raw)
	require.NoError(t, err)

	lc, ok := expr.(*ast.ListComp)
	require.True(t, ok)
	require.Len(t, lc.Ifs, 1)
	target, ok := lc.Target.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "x", target.Id)
}

func TestJavaClassResolvesThroughResolver(t *testing.T) {
	d := New()
	d.Resolver = stubResolver{known: map[string]bool{"java.util.ArrayList": true}}
	src := `{
		"type": "Call",
		"callee": {"type": "Name", "id": "JavaClass"},
		"args": [{"type": "Constant", "typename": "str", "value": "java.util.ArrayList"}]
	}`
	var raw map[string]any
	require.NoError(t, unmarshal(src, &raw))
	expr, err := d.decodeExpression(raw)
	require.NoError(t, err)
	ref, ok := expr.(*ast.HostClassRef)
	require.True(t, ok)
	assert.Equal(t, "java.util.ArrayList", ref.ClassName)
}

func TestJavaClassResolverFailureIsParseError(t *testing.T) {
	d := New()
	d.Resolver = stubResolver{known: map[string]bool{}}
	src := `{
		"type": "Call",
		"callee": {"type": "Name", "id": "JavaClass"},
		"args": [{"type": "Constant", "typename": "str", "value": "no.such.Class"}]
	}`
	var raw map[string]any
	require.NoError(t, unmarshal(src, &raw))
	_, err := d.decodeExpression(raw)
	require.Error(t, err)
}

type stubResolver struct{ known map[string]bool }

func (r stubResolver) ResolveHostClass(name string) error {
	if r.known[name] {
		return nil
	}
	return fmt.Errorf("unknown host class: %s", name)
}
