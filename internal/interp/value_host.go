package interp

// HostClass, HostObject, and HostArray are opaque handles into the
// embedding host's managed runtime; the core never interprets Handle
// itself, it only ever passes it back to the injected HostBridge. The
// evaluator cannot know what a host value actually is, only that some
// external capability can act on it.
type HostClass struct {
	Name   string
	Handle any
}

func (*HostClass) Kind() Kind        { return KindHostClass }
func (c *HostClass) Inspect() string { return "<host class '" + c.Name + "'>" }

type HostObject struct {
	ClassName string
	Handle    any
}

func (*HostObject) Kind() Kind        { return KindHostObject }
func (o *HostObject) Inspect() string { return "<host object of '" + o.ClassName + "'>" }

type HostArray struct {
	ElemClassName string
	Handle        any
}

func (*HostArray) Kind() Kind        { return KindHostArray }
func (a *HostArray) Inspect() string { return "<host array of '" + a.ElemClassName + "'>" }

// HostBridge is the injected host-registry capability. interp depends
// only on this interface, never on internal/hostbridge's concrete
// reflection-based implementation, which would otherwise create an
// import cycle. internal/hostbridge implements HostBridge and is wired
// in by pkg/pyjinn at construction time.
type HostBridge interface {
	// ResolveClass resolves a fully-qualified host class name, used by the
	// decode-time JavaClass("...") rewrite and by HostClassRef evaluation.
	ResolveClass(name string) (*HostClass, error)

	// Construct performs overload-resolved construction against class's
	// registered constructors.
	Construct(class *HostClass, args []Value) (Value, error)

	// CallMethod performs overload-resolved method invocation against
	// receiver (a *HostObject, or a *HostClass for a static call).
	CallMethod(receiver Value, methodName string, args []Value) (Value, error)

	GetField(receiver Value, name string) (Value, error)
	SetField(receiver Value, name string, val Value) error

	// IsInstance reports whether val's underlying host runtime type is
	// assignable to class, used by `except HostClassName` matching.
	IsInstance(val Value, class *HostClass) (bool, error)

	// Iterable adapts a host object exposing the host's iteration
	// protocol into a pull-based next function, or reports ok=false if it
	// isn't iterable.
	Iterable(val Value) (next func() (Value, bool, error), ok bool)

	ArrayLen(arr *HostArray) (int, error)
	ArrayGet(arr *HostArray, index int) (Value, error)
	ArraySet(arr *HostArray, index int, val Value) error
	ArraySlice(arr *HostArray, lower, upper int) (*HostArray, error)
}
