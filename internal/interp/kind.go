package interp

// Kind tags every runtime Value. Dispatch throughout the evaluator and
// numeric/equality code keys on Kind, a small int rather than a string
// for cheaper comparison.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindStr
	KindList
	KindTuple
	KindDict
	KindSlice
	KindRange
	KindEnumerate
	KindIterableString
	KindHostClass
	KindHostObject
	KindHostArray
	KindUserClass
	KindUserInstance
	KindFunction
	KindBoundFunction
	KindLambda
	KindNativeFn
	// KindNativeModule backs constant built-in modules such as `math`;
	// it is never constructible from script source.
	KindNativeModule
	// KindTypeObject represents the result of the `type(x)` builtin for
	// builtin (non-host, non-user-class) kinds, e.g. `type(5)`. For
	// UserInstance/HostObject values, `type(x)` instead returns the
	// existing UserClass/HostClass value, so this kind only backs the
	// builtin-kind case.
	KindTypeObject

	// Internal signal kinds. Never constructible from script source and
	// never observable as an ordinary value; Eval uses them to propagate
	// return/break/continue/raise/error out of nested evaluation without
	// a non-local exit.
	kindReturnSignal
	kindBreakSignal
	kindContinueSignal
	kindThrown
	kindError
)

var kindNames = map[Kind]string{
	KindNone:           "NoneType",
	KindBool:           "bool",
	KindInt32:          "int",
	KindInt64:          "int",
	KindFloat32:        "float",
	KindFloat64:        "float",
	KindStr:            "str",
	KindList:           "list",
	KindTuple:          "tuple",
	KindDict:           "dict",
	KindSlice:          "slice",
	KindRange:          "range",
	KindEnumerate:      "enumerate",
	KindIterableString: "str_iterator",
	KindHostClass:      "host_class",
	KindHostObject:     "host_object",
	KindHostArray:      "host_array",
	KindUserClass:      "type",
	KindUserInstance:   "instance",
	KindFunction:       "function",
	KindBoundFunction:  "bound_method",
	KindLambda:         "function",
	KindNativeFn:       "builtin_function_or_method",
	KindNativeModule:   "module",
	KindTypeObject:     "type",
}

// TypeName returns the Python-visible type name of k, as returned by the
// `type()` builtin and used in error messages.
func (k Kind) TypeName() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "object"
}

func (k Kind) String() string { return k.TypeName() }

// isSignal reports whether k is one of the internal control-flow signal
// kinds that must never leak into script-visible values.
func isSignal(k Kind) bool {
	switch k {
	case kindReturnSignal, kindBreakSignal, kindContinueSignal, kindThrown, kindError:
		return true
	default:
		return false
	}
}

func isNumeric(k Kind) bool {
	switch k {
	case KindInt32, KindInt64, KindFloat32, KindFloat64:
		return true
	default:
		return false
	}
}

func isInteger(k Kind) bool {
	return k == KindInt32 || k == KindInt64
}

func isFloat(k Kind) bool {
	return k == KindFloat32 || k == KindFloat64
}
