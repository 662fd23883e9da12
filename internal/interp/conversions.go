package interp

// typeObject backs the builtin-kind case of `type(x)`.
type typeObject struct{ name string }

func (*typeObject) Kind() Kind        { return KindTypeObject }
func (t *typeObject) Inspect() string { return "<class '" + t.name + "'>" }

// StrOf implements the `str(x)` builtin's Python-style conversion:
// None -> "None", True/False capitalized, strings return their bare
// text, exception instances their message, everything else falls back to
// Inspect's repr form (which already matches Python's repr for
// numbers/lists/tuples/dicts).
func StrOf(v Value) string {
	if x, ok := v.(Str); ok {
		return string(x)
	}
	if inst, ok := v.(*UserInstance); ok && inst.Class.Exception {
		if m, ok := inst.getOwn("message"); ok {
			return StrOf(m)
		}
	}
	return v.Inspect()
}

// TypeOf implements `type(x)`: UserInstance/HostObject report their own
// class/host-class value; everything else reports a typeObject named
// after its Kind.
func TypeOf(v Value) Value {
	switch x := v.(type) {
	case *UserInstance:
		return x.Class
	case *HostObject:
		return &HostClass{Name: x.ClassName}
	default:
		return &typeObject{name: v.Kind().TypeName()}
	}
}

// IntOf implements `int(x)`: parse from string (decimal) or narrow from
// a number.
func IntOf(v Value) (Value, error) {
	switch x := v.(type) {
	case Str:
		n, err := parseIntStr(string(x))
		if err != nil {
			return nil, newScriptError(ErrType, "invalid literal for int(): %q", string(x))
		}
		return NewInt(n), nil
	case Bool:
		if x {
			return Int32(1), nil
		}
		return Int32(0), nil
	default:
		if f, ok := floatValue(v); ok {
			return NewInt(int64(f)), nil
		}
		return nil, newScriptError(ErrType, "int() argument must be a string or a number")
	}
}

// FloatOf implements `float(x)`.
func FloatOf(v Value) (Value, error) {
	switch x := v.(type) {
	case Str:
		f, err := parseFloatStr(string(x))
		if err != nil {
			return nil, newScriptError(ErrType, "could not convert string to float: %q", string(x))
		}
		return NewFloat(f), nil
	default:
		if f, ok := floatValue(v); ok {
			return NewFloat(f), nil
		}
		return nil, newScriptError(ErrType, "float() argument must be a string or a number")
	}
}

// BoolOf implements `bool(x)`.
func BoolOf(v Value) Value { return Bool(truthy(v)) }
