package interp

import "strings"

// listMethod, dictMethod, and strMethod synthesize the core collection
// methods (append, get, split, ...) as NativeFn closures bound over the
// receiver, the same mechanism builtins use, just attached to a receiver
// instead of to globals.
func listMethod(l *List, name string) (Value, bool) {
	switch name {
	case "append":
		return &NativeFn{Name: "list.append", Fn: func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, newScriptError(ErrArity, "append() takes exactly one argument (%d given)", len(args))
			}
			l.Append(args[0])
			return None, nil
		}}, true
	case "extend":
		return &NativeFn{Name: "list.extend", Fn: func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, newScriptError(ErrArity, "extend() takes exactly one argument (%d given)", len(args))
			}
			other, err := toIndexableSlice(args[0])
			if err != nil {
				return nil, err
			}
			l.Elems = append(l.Elems, other...)
			return None, nil
		}}, true
	case "pop":
		return &NativeFn{Name: "list.pop", Fn: func(args []Value) (Value, error) {
			idx := len(l.Elems) - 1
			if len(args) == 1 {
				n, ok := intValue(args[0])
				if !ok {
					return nil, newScriptError(ErrType, "pop() index must be an int")
				}
				idx = int(n)
			}
			i, ok := l.index(idx)
			if !ok {
				return nil, newScriptError(ErrIndex, "pop index out of range")
			}
			v := l.Elems[i]
			l.Elems = append(l.Elems[:i], l.Elems[i+1:]...)
			return v, nil
		}}, true
	case "index":
		return &NativeFn{Name: "list.index", Fn: func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, newScriptError(ErrArity, "index() takes exactly one argument (%d given)", len(args))
			}
			for i, e := range l.Elems {
				if valuesEqual(e, args[0]) {
					return NewInt(int64(i)), nil
				}
			}
			return nil, newScriptError(ErrType, "%s is not in list", args[0].Inspect())
		}}, true
	case "count":
		return &NativeFn{Name: "list.count", Fn: func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, newScriptError(ErrArity, "count() takes exactly one argument (%d given)", len(args))
			}
			n := 0
			for _, e := range l.Elems {
				if valuesEqual(e, args[0]) {
					n++
				}
			}
			return NewInt(int64(n)), nil
		}}, true
	case "sort":
		return &NativeFn{Name: "list.sort", Fn: func(args []Value) (Value, error) {
			if err := sortValues(l.Elems); err != nil {
				return nil, err
			}
			return None, nil
		}}, true
	case "reverse":
		return &NativeFn{Name: "list.reverse", Fn: func(args []Value) (Value, error) {
			for i, j := 0, len(l.Elems)-1; i < j; i, j = i+1, j-1 {
				l.Elems[i], l.Elems[j] = l.Elems[j], l.Elems[i]
			}
			return None, nil
		}}, true
	case "clear":
		return &NativeFn{Name: "list.clear", Fn: func(args []Value) (Value, error) {
			l.Elems = nil
			return None, nil
		}}, true
	default:
		return nil, false
	}
}

// sortValues sorts in place using compareOrder, insertion sort is fine
// for script-sized lists and keeps the comparator's error path simple.
func sortValues(elems []Value) error {
	for i := 1; i < len(elems); i++ {
		for j := i; j > 0; j-- {
			c, err := compareOrder(elems[j-1], elems[j])
			if err != nil {
				return err
			}
			if c <= 0 {
				break
			}
			elems[j-1], elems[j] = elems[j], elems[j-1]
		}
	}
	return nil
}

func dictMethod(d *Dict, name string) (Value, bool) {
	switch name {
	case "get":
		return &NativeFn{Name: "dict.get", Fn: func(args []Value) (Value, error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, newScriptError(ErrArity, "get() takes 1 or 2 arguments")
			}
			v, found, err := d.Get(args[0])
			if err != nil {
				return nil, err
			}
			if found {
				return v, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return None, nil
		}}, true
	case "keys":
		return &NativeFn{Name: "dict.keys", Fn: func(args []Value) (Value, error) {
			return NewList(append([]Value{}, d.Keys()...)), nil
		}}, true
	case "values":
		return &NativeFn{Name: "dict.values", Fn: func(args []Value) (Value, error) {
			out := make([]Value, len(d.entries))
			for i, e := range d.entries {
				out[i] = e.value
			}
			return NewList(out), nil
		}}, true
	case "items":
		return &NativeFn{Name: "dict.items", Fn: func(args []Value) (Value, error) {
			out := make([]Value, len(d.entries))
			for i, e := range d.entries {
				out[i] = NewTuple([]Value{e.key, e.value})
			}
			return NewList(out), nil
		}}, true
	case "pop":
		return &NativeFn{Name: "dict.pop", Fn: func(args []Value) (Value, error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, newScriptError(ErrArity, "pop() takes 1 or 2 arguments")
			}
			v, found, err := d.Get(args[0])
			if err != nil {
				return nil, err
			}
			if !found {
				if len(args) == 2 {
					return args[1], nil
				}
				return nil, newScriptError(ErrKey, "%s", args[0].Inspect())
			}
			_, _ = d.Delete(args[0])
			return v, nil
		}}, true
	default:
		return nil, false
	}
}

func strMethod(s Str, name string) (Value, bool) {
	switch name {
	case "upper":
		return &NativeFn{Name: "str.upper", Fn: func(args []Value) (Value, error) {
			return Str(strings.ToUpper(string(s))), nil
		}}, true
	case "lower":
		return &NativeFn{Name: "str.lower", Fn: func(args []Value) (Value, error) {
			return Str(strings.ToLower(string(s))), nil
		}}, true
	case "strip":
		return &NativeFn{Name: "str.strip", Fn: func(args []Value) (Value, error) {
			return Str(strings.TrimSpace(string(s))), nil
		}}, true
	case "split":
		return &NativeFn{Name: "str.split", Fn: func(args []Value) (Value, error) {
			sep := " "
			if len(args) == 1 {
				sepStr, ok := args[0].(Str)
				if !ok {
					return nil, newScriptError(ErrType, "split() separator must be a str")
				}
				sep = string(sepStr)
			}
			var parts []string
			if len(args) == 0 {
				parts = strings.Fields(string(s))
			} else {
				parts = strings.Split(string(s), sep)
			}
			out := make([]Value, len(parts))
			for i, p := range parts {
				out[i] = Str(p)
			}
			return NewList(out), nil
		}}, true
	case "join":
		return &NativeFn{Name: "str.join", Fn: func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, newScriptError(ErrArity, "join() takes exactly one argument")
			}
			items, err := toIndexableSlice(args[0])
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(items))
			for i, it := range items {
				itemStr, ok := it.(Str)
				if !ok {
					return nil, newScriptError(ErrType, "sequence item %d: expected str instance", i)
				}
				parts[i] = string(itemStr)
			}
			return Str(strings.Join(parts, string(s))), nil
		}}, true
	case "startswith":
		return &NativeFn{Name: "str.startswith", Fn: func(args []Value) (Value, error) {
			prefix, ok := oneStrArg(args)
			if !ok {
				return nil, newScriptError(ErrType, "startswith() requires one str argument")
			}
			return Bool(strings.HasPrefix(string(s), prefix)), nil
		}}, true
	case "endswith":
		return &NativeFn{Name: "str.endswith", Fn: func(args []Value) (Value, error) {
			suffix, ok := oneStrArg(args)
			if !ok {
				return nil, newScriptError(ErrType, "endswith() requires one str argument")
			}
			return Bool(strings.HasSuffix(string(s), suffix)), nil
		}}, true
	case "replace":
		return &NativeFn{Name: "str.replace", Fn: func(args []Value) (Value, error) {
			if len(args) != 2 {
				return nil, newScriptError(ErrArity, "replace() takes exactly two arguments")
			}
			old, ok1 := args[0].(Str)
			newS, ok2 := args[1].(Str)
			if !ok1 || !ok2 {
				return nil, newScriptError(ErrType, "replace() arguments must be str")
			}
			return Str(strings.ReplaceAll(string(s), string(old), string(newS))), nil
		}}, true
	default:
		return nil, false
	}
}

func oneStrArg(args []Value) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	s, ok := args[0].(Str)
	return string(s), ok
}
