package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxuser0/pyjinn/internal/ast"
)

// buildFrozenPointClass hand-builds the ClassDef a decoder would produce
// for:
//
//	@dataclass(frozen=True)
//	class P:
//	    x: int
//	    y: int
func buildFrozenPointClass() *ast.ClassDef {
	return &ast.ClassDef{
		Name: "P",
		Decorators: []ast.Decorator{
			{Name: "dataclass", Keywords: map[string]any{"frozen": true}},
		},
		AnnFields: []*ast.AnnAssign{
			{Target: &ast.Name{Id: "x"}, Annotation: "int"},
			{Target: &ast.Name{Id: "y"}, Annotation: "int"},
		},
	}
}

func TestFrozenDataclassEqualityAndHash(t *testing.T) {
	env := NewGlobals()
	ev := NewEvaluator(nil)
	frame := &Frame{}

	result := ev.evalClassDef(buildFrozenPointClass(), env, frame)
	require.False(t, isUnwinding(result))

	classVal, err := env.Get("P")
	require.NoError(t, err)
	class := classVal.(*UserClass)

	p1, err := ev.construct(class, []Value{NewInt(1), NewInt(2)})
	require.NoError(t, err)
	p2, err := ev.construct(class, []Value{NewInt(1), NewInt(2)})
	require.NoError(t, err)

	assert.True(t, valuesEqual(p1, p2))

	h1, err := p1.(*UserInstance).Hash()
	require.NoError(t, err)
	h2, err := p2.(*UserInstance).Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	err = p1.(*UserInstance).SetField("x", NewInt(9))
	require.Error(t, err)
	se, ok := err.(*ScriptError)
	require.True(t, ok)
	assert.Equal(t, ErrFrozenInstance, se.Kind)
}

func TestDataclassMissingRequiredFieldIsArityError(t *testing.T) {
	env := NewGlobals()
	ev := NewEvaluator(nil)
	frame := &Frame{}
	result := ev.evalClassDef(buildFrozenPointClass(), env, frame)
	require.False(t, isUnwinding(result))
	classVal, _ := env.Get("P")
	class := classVal.(*UserClass)

	_, err := ev.construct(class, []Value{NewInt(1)})
	require.Error(t, err)
	se, ok := err.(*ScriptError)
	require.True(t, ok)
	assert.Equal(t, ErrArity, se.Kind)
}

func TestClassMethodAndStaticMethodBinding(t *testing.T) {
	env := NewGlobals()
	ev := NewEvaluator(nil)
	frame := &Frame{}

	cd := &ast.ClassDef{
		Name: "Counter",
		Methods: []*ast.FunctionDef{
			{
				Name:   "make",
				Params: []ast.Param{{Name: "cls"}},
				Body:   []ast.Statement{&ast.Return{Value: &ast.Name{Id: "cls"}}},
				Decorators: []string{"classmethod"},
			},
			{
				Name:       "zero",
				Params:     nil,
				Body:       []ast.Statement{&ast.Return{Value: &ast.Constant{Typename: "int", Value: float64(0)}}},
				Decorators: []string{"staticmethod"},
			},
		},
	}
	result := ev.evalClassDef(cd, env, frame)
	require.False(t, isUnwinding(result))
	classVal, _ := env.Get("Counter")
	class := classVal.(*UserClass)

	bound := ev.getAttribute(class, "make")
	require.False(t, isUnwinding(bound))
	bf, ok := bound.(*BoundFunction)
	require.True(t, ok)
	assert.Equal(t, Value(class), bf.Receiver)

	static := ev.getAttribute(class, "zero")
	_, ok = static.(*Function)
	require.True(t, ok, "staticmethod should not be wrapped in BoundFunction")
}
