package interp

import "strings"

// truthy implements the truthiness table. None and False are falsy;
// empty string/list/tuple/dict and numeric zero are falsy; everything
// else is truthy. Only "" and the literal text "False" are falsy
// strings.
func truthy(v Value) bool {
	switch x := v.(type) {
	case NoneValue:
		return false
	case Bool:
		return bool(x)
	case Int32:
		return x != 0
	case Int64:
		return x != 0
	case Float32:
		return x != 0
	case Float64:
		return x != 0
	case Str:
		return string(x) != "" && string(x) != "False"
	case *List:
		return len(x.Elems) > 0
	case *Tuple:
		return len(x.Elems) > 0
	case *Dict:
		return x.Len() > 0
	default:
		return true
	}
}

// valuesEqual implements `==`: numbers compare by mathematical value
// across the tower, collections structurally, frozen dataclass instances
// by field values, everything else by identity.
func valuesEqual(a, b Value) bool {
	if isNumeric(a.Kind()) && isNumeric(b.Kind()) {
		af, _ := floatValue(a)
		bf, _ := floatValue(b)
		return af == bf
	}
	switch av := a.(type) {
	case NoneValue:
		_, ok := b.(NoneValue)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !valuesEqual(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !valuesEqual(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.entries {
			other, found, err := bv.Get(e.key)
			if err != nil || !found || !valuesEqual(e.value, other) {
				return false
			}
		}
		return true
	case *UserInstance:
		bv, ok := b.(*UserInstance)
		if !ok {
			return false
		}
		if av.Class.Frozen && bv.Class.Frozen && av.Class == bv.Class {
			ah, aerr := av.Hash()
			bh, berr := bv.Hash()
			if aerr == nil && berr == nil && ah == bh {
				for _, name := range av.Class.FieldOrder {
					va, _ := av.getOwn(name)
					vb, _ := bv.getOwn(name)
					if va == nil || vb == nil || !valuesEqual(va, vb) {
						return false
					}
				}
				return true
			}
			return false
		}
		return av == bv
	default:
		return sameIdentity(a, b)
	}
}

// compareOrder implements ordering (<, <=, >, >=): numeric tower by
// mathematical value, strings lexicographically; any other cross-type
// pair is a TypeError. Returns -1/0/1.
func compareOrder(a, b Value) (int, error) {
	if isNumeric(a.Kind()) && isNumeric(b.Kind()) {
		af, _ := floatValue(a)
		bf, _ := floatValue(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	as, aok := a.(Str)
	bs, bok := b.(Str)
	if aok && bok {
		return strings.Compare(string(as), string(bs)), nil
	}
	return 0, newScriptError(ErrType, "unorderable types: %s and %s", a.Kind(), b.Kind())
}
