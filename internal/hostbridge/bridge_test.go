package hostbridge

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxuser0/pyjinn/internal/interp"
)

func cacheLen(m *sync.Map) int {
	n := 0
	m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Point stands in for an embedder's registered Go type: a plain struct
// with constructor and pointer-receiver methods.
type Point struct {
	X, Y int
}

func (p *Point) Add(dx, dy int) *Point  { return &Point{X: p.X + dx, Y: p.Y + dy} }
func (p *Point) Scale(f float64) *Point { return &Point{X: int(float64(p.X) * f), Y: int(float64(p.Y) * f)} }
func NewPoint(x, y int) *Point          { return &Point{X: x, Y: y} }

func newPointBridge(t *testing.T) (*Bridge, *interp.HostClass) {
	t.Helper()
	reg := NewRegistry()
	reg.Register(&ClassSpec{
		Name:   "Point",
		GoType: reflect.TypeOf(&Point{}),
		Constructors: []reflect.Value{
			reflect.ValueOf(NewPoint),
		},
		Methods: map[string][]reflect.Value{
			"add":   {reflect.ValueOf((*Point).Add)},
			"scale": {reflect.ValueOf((*Point).Scale)},
		},
	})
	b := New(reg)
	class, err := b.ResolveClass("Point")
	require.NoError(t, err)
	return b, class
}

func TestConstructAndCallMethod(t *testing.T) {
	b, class := newPointBridge(t)

	v, err := b.Construct(class, []interp.Value{interp.NewInt(1), interp.NewInt(2)})
	require.NoError(t, err)
	ho, ok := v.(*interp.HostObject)
	require.True(t, ok)
	assert.Equal(t, "Point", ho.ClassName)

	sum, err := b.CallMethod(ho, "add", []interp.Value{interp.NewInt(3), interp.NewInt(4)})
	require.NoError(t, err)
	sumObj, ok := sum.(*interp.HostObject)
	require.True(t, ok)
	p := sumObj.Handle.(*Point)
	assert.Equal(t, 4, p.X)
	assert.Equal(t, 6, p.Y)
}

func TestCallMethodNumericPromotion(t *testing.T) {
	b, class := newPointBridge(t)
	v, err := b.Construct(class, []interp.Value{interp.NewInt(2), interp.NewInt(2)})
	require.NoError(t, err)

	// scale's parameter is float64; an Int32 argument must be promoted,
	// not rejected, per the numeric-promotion rule.
	scaled, err := b.CallMethod(v, "scale", []interp.Value{interp.NewInt(3)})
	require.NoError(t, err)
	p := scaled.(*interp.HostObject).Handle.(*Point)
	assert.Equal(t, 6, p.X)
}

func TestOverloadResolutionRejectsArityMismatch(t *testing.T) {
	b, class := newPointBridge(t)
	_, err := b.Construct(class, []interp.Value{interp.NewInt(1)})
	assert.Error(t, err)
}

func TestIsInstance(t *testing.T) {
	b, class := newPointBridge(t)
	v, err := b.Construct(class, []interp.Value{interp.NewInt(0), interp.NewInt(0)})
	require.NoError(t, err)

	ok, err := b.IsInstance(v, class)
	require.NoError(t, err)
	assert.True(t, ok)

	other := &interp.HostObject{ClassName: "Other"}
	ok, err = b.IsInstance(other, class)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverloadCacheReusedAcrossCalls(t *testing.T) {
	b, class := newPointBridge(t)
	v, err := b.Construct(class, []interp.Value{interp.NewInt(1), interp.NewInt(1)})
	require.NoError(t, err)

	_, err = b.CallMethod(v, "add", []interp.Value{interp.NewInt(1), interp.NewInt(1)})
	require.NoError(t, err)
	sizeAfterFirst := cacheLen(&b.cache)

	_, err = b.CallMethod(v, "add", []interp.Value{interp.NewInt(2), interp.NewInt(2)})
	require.NoError(t, err)
	assert.Equal(t, sizeAfterFirst, cacheLen(&b.cache))
}
