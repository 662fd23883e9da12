package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeChainLookup(t *testing.T) {
	globals := NewGlobals()
	globals.Set("x", NewInt(1))

	inner := NewEnclosed(globals)
	v, err := inner.Get("x")
	require.NoError(t, err)
	assert.Equal(t, NewInt(1), v)

	inner.Set("y", NewInt(2))
	_, err = globals.Get("y")
	require.Error(t, err)
	se, ok := err.(*ScriptError)
	require.True(t, ok)
	assert.Equal(t, ErrName, se.Kind)
}

func TestInnerWriteShadowsOuter(t *testing.T) {
	globals := NewGlobals()
	globals.Set("x", NewInt(1))
	inner := NewEnclosed(globals)

	inner.Set("x", NewInt(2))

	v, _ := inner.Get("x")
	assert.Equal(t, NewInt(2), v)
	v, _ = globals.Get("x")
	assert.Equal(t, NewInt(1), v)
}

func TestDeclaredGlobalWritesToGlobals(t *testing.T) {
	globals := NewGlobals()
	globals.Set("g", NewInt(1))
	inner := NewEnclosed(globals)

	inner.DeclareGlobal("g")
	inner.Set("g", NewInt(5))

	v, _ := globals.Get("g")
	assert.Equal(t, NewInt(5), v)

	// Reads of a declared-global name skip any intermediate scopes.
	mid := NewEnclosed(globals)
	mid.Set("g", NewInt(99))
	deepest := NewEnclosed(mid)
	deepest.DeclareGlobal("g")
	v, err := deepest.Get("g")
	require.NoError(t, err)
	assert.Equal(t, NewInt(5), v)
}

func TestDeleteRemovesFromOwningScope(t *testing.T) {
	globals := NewGlobals()
	globals.Set("x", NewInt(1))
	inner := NewEnclosed(globals)

	require.NoError(t, inner.Delete("x"))
	_, err := globals.Get("x")
	assert.Error(t, err)
}

func TestDeleteUndefinedIsNameError(t *testing.T) {
	globals := NewGlobals()
	err := globals.Delete("nope")
	require.Error(t, err)
	se, ok := err.(*ScriptError)
	require.True(t, ok)
	assert.Equal(t, ErrName, se.Kind)
}

func TestClosureEnvironmentIsDefinitionTime(t *testing.T) {
	globals := NewGlobals()
	defSite := NewEnclosed(globals)
	defSite.Set("v", NewInt(10))

	// A call frame enclosed on defSite sees defSite's binding even when
	// some unrelated caller scope holds a different v.
	callerScope := NewEnclosed(globals)
	callerScope.Set("v", NewInt(99))

	frameEnv := NewEnclosed(defSite)
	v, err := frameEnv.Get("v")
	require.NoError(t, err)
	assert.Equal(t, NewInt(10), v)
}
