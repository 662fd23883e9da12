package interp

import "reflect"

// reflectPointer returns the pointer identity of a heap-allocated Value,
// used for `is`/`is not` comparisons and for hashing non-frozen
// UserInstances by reference identity.
func reflectPointer(p any) uintptr {
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Slice:
		return v.Pointer()
	default:
		return 0
	}
}

// sameIdentity implements `is`: same heap object for reference types, or
// the same scalar value for value types.
func sameIdentity(a, b Value) bool {
	switch av := a.(type) {
	case NoneValue:
		_, ok := b.(NoneValue)
		return ok
	case Bool, Int32, Int64, Float32, Float64, Str:
		return a == b
	case *List:
		bv, ok := b.(*List)
		return ok && av == bv
	case *Tuple:
		bv, ok := b.(*Tuple)
		return ok && av == bv
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && av == bv
	case *UserInstance:
		bv, ok := b.(*UserInstance)
		return ok && av == bv
	case *HostObject:
		bv, ok := b.(*HostObject)
		return ok && av == bv
	default:
		return reflectPointer(a) != 0 && reflectPointer(a) == reflectPointer(b)
	}
}
