package hostbridge

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/maxuser0/pyjinn/internal/interp"
)

type sigKind int

const (
	sigConstruct sigKind = iota
	sigMethod
	sigStaticMethod
)

// signatureKey is the Bridge's overload cache key:
// (kind, owner_class, method_name?, arg_runtime_types[]). It carries
// only the runtime *kinds* of the arguments, never the values
// themselves, so the cache is safe to retain and share across calls
// indefinitely.
type signatureKey struct {
	kind   sigKind
	owner  string
	method string
	args   string
}

func argKinds(args []interp.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = a.Kind().String()
	}
	return strings.Join(parts, ",")
}

// cachedOverload is what the sync.Map stores per signature key: the
// winning candidate's index into its overload slice, so a repeat call
// with the same argument-kind shape skips re-scoring every candidate.
type cachedOverload struct{ index int }

// invokeOverloadSet resolves and calls the winning candidate in
// overloads against plain args (no implicit receiver prepended), used
// for constructors and static methods.
func (b *Bridge) invokeOverloadSet(key signatureKey, overloads []reflect.Value, args []interp.Value) (any, error) {
	idx, err := b.resolve(key, overloads, args)
	if err != nil {
		return nil, err
	}
	return callOverload(overloads[idx], args)
}

// invokeOverloadSetWithReceiver is the same resolution, but recvArgs[0]
// is the bound receiver, which does not participate in the published
// signature key (only args[1:]'s kinds do) since a method name together
// with its owner class already fixes the receiver's type.
func (b *Bridge) invokeOverloadSetWithReceiver(key signatureKey, overloads []reflect.Value, recvArgs []interp.Value) (any, error) {
	idx, err := b.resolveReceiver(key, overloads, recvArgs)
	if err != nil {
		return nil, err
	}
	return callOverload(overloads[idx], recvArgs)
}

// resolveReceiver is resolve's method-call variant: each candidate's
// first parameter is the receiver type (a method expression like
// (*Point).Add), which the published signature key deliberately omits
// (the method name plus owner class already fix it), so receiver
// compatibility is assumed rather than scored — only recvArgs[1:] counts
// toward the score.
func (b *Bridge) resolveReceiver(key signatureKey, overloads []reflect.Value, recvArgs []interp.Value) (int, error) {
	if cached, ok := b.cache.Load(key); ok {
		return cached.(cachedOverload).index, nil
	}
	if len(overloads) == 0 {
		return 0, fmt.Errorf("%s: no candidates for %v", key.method, key.args)
	}
	best, bestScore := -1, 0
	for i, candidate := range overloads {
		t := candidate.Type()
		if t.NumIn() < 1 {
			continue
		}
		receiverless := reflect.FuncOf(paramTypes(t)[1:], outTypes(t), t.IsVariadic())
		score, ok := scoreCandidate(receiverless, recvArgs[1:])
		if !ok {
			continue
		}
		if score > bestScore || best < 0 {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("no overload of %q accepts argument types (%s)", key.method, key.args)
	}
	b.cache.Store(key, cachedOverload{index: best})
	return best, nil
}

func paramTypes(t reflect.Type) []reflect.Type {
	out := make([]reflect.Type, t.NumIn())
	for i := range out {
		out[i] = t.In(i)
	}
	return out
}

func outTypes(t reflect.Type) []reflect.Type {
	out := make([]reflect.Type, t.NumOut())
	for i := range out {
		out[i] = t.Out(i)
	}
	return out
}

func (b *Bridge) resolve(key signatureKey, overloads []reflect.Value, args []interp.Value) (int, error) {
	if cached, ok := b.cache.Load(key); ok {
		return cached.(cachedOverload).index, nil
	}
	if len(overloads) == 0 {
		return 0, fmt.Errorf("%s: no candidates for %v", key.method, key.args)
	}
	best, bestScore := -1, 0
	for i, candidate := range overloads {
		score, ok := scoreCandidate(candidate.Type(), args)
		if !ok {
			continue
		}
		if score > bestScore || best < 0 {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("no overload of %q accepts argument types (%s)", key.method, key.args)
	}
	b.cache.Store(key, cachedOverload{index: best})
	return best, nil
}

// scoreCandidate scores a single candidate func type against the
// arguments, returning ok=false when the candidate is disqualified
// (parameter count mismatch, or any argument has no legal conversion).
func scoreCandidate(fn reflect.Type, args []interp.Value) (int, bool) {
	variadic := fn.IsVariadic()
	fixed := fn.NumIn()
	if variadic {
		fixed--
	}
	if variadic {
		if len(args) < fixed {
			return 0, false
		}
	} else if len(args) != fixed {
		return 0, false
	}
	score := 1
	for i, arg := range args {
		var paramType reflect.Type
		switch {
		case i < fixed:
			paramType = fn.In(i)
		case variadic:
			paramType = fn.In(fn.NumIn() - 1).Elem()
		default:
			return 0, false
		}
		s, ok := scoreArg(arg, paramType)
		if !ok {
			return 0, false
		}
		score += s
	}
	return score, true
}

// scoreArg scores a single argument/parameter pair: +2 exact match, +1
// permitted conversion, null only against reference-kind parameters,
// numeric promotion narrow->wide and int->float only (never the
// reverse).
func scoreArg(arg interp.Value, paramType reflect.Type) (int, bool) {
	// String parameters count as reference-typed here: the host model
	// treats String as a reference class even though Go's string is a
	// value type, so null stays compatible with it (zero value "").
	if arg == nil || arg == interp.None {
		if isReferenceKind(paramType.Kind()) || paramType.Kind() == reflect.String {
			return 1, true
		}
		return 0, false
	}
	switch a := arg.(type) {
	case interp.Bool:
		if paramType.Kind() == reflect.Bool {
			return 2, true
		}
		return 0, false
	case interp.Str:
		if paramType.Kind() == reflect.String {
			return 2, true
		}
		return 0, false
	case interp.Int32:
		return scoreNumeric(paramType, 32, false)
	case interp.Int64:
		return scoreNumeric(paramType, 64, false)
	case interp.Float32:
		return scoreNumeric(paramType, 32, true)
	case interp.Float64:
		return scoreNumeric(paramType, 64, true)
	case *interp.HostObject:
		rv := reflect.ValueOf(a.Handle)
		if !rv.IsValid() {
			return 0, false
		}
		if rv.Type() == paramType {
			return 2, true
		}
		if rv.Type().AssignableTo(paramType) {
			return 2, true
		}
		if rv.Type().ConvertibleTo(paramType) {
			return 1, true
		}
		return 0, false
	default:
		if paramType.Kind() == reflect.Interface && paramType.NumMethod() == 0 {
			return 1, true
		}
		return 0, false
	}
}

// scoreNumeric implements the numeric half of the scoring:
// narrow-integer -> wider-integer, any integer -> float, float32 ->
// float64 are permitted conversions (+1); an exact match (+2) requires
// kind and width to agree.
func scoreNumeric(paramType reflect.Type, bits int, isFloat bool) (int, bool) {
	switch paramType.Kind() {
	case reflect.Int32:
		if !isFloat && bits <= 32 {
			if bits == 32 {
				return 2, true
			}
			return 1, true
		}
		return 0, false
	case reflect.Int, reflect.Int64:
		if !isFloat {
			if bits == 64 {
				return 2, true
			}
			return 1, true
		}
		return 0, false
	case reflect.Int8, reflect.Int16, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !isFloat {
			return 1, true
		}
		return 0, false
	case reflect.Float32:
		if isFloat && bits == 32 {
			return 2, true
		}
		if !isFloat {
			return 1, true
		}
		return 0, false
	case reflect.Float64:
		if isFloat && bits == 64 {
			return 2, true
		}
		return 1, true
	default:
		return 0, false
	}
}

func callOverload(fn reflect.Value, args []interp.Value) (result any, err error) {
	in := make([]reflect.Value, fn.Type().NumIn())
	variadic := fn.Type().IsVariadic()
	fixed := len(in)
	if variadic {
		fixed--
	}
	// Overload-resolved calls have already matched the parameter count,
	// but Bind'd Go functions reach here directly.
	if variadic {
		if len(args) < fixed {
			return nil, fmt.Errorf("call requires at least %d argument(s), got %d", fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("call requires %d argument(s), got %d", fixed, len(args))
	}
	for i := 0; i < fixed; i++ {
		v, convErr := fromValue(args[i], fn.Type().In(i))
		if convErr != nil {
			return nil, convErr
		}
		in[i] = v
	}
	var callArgs []reflect.Value
	if variadic {
		elemType := fn.Type().In(fn.Type().NumIn() - 1).Elem()
		callArgs = append(callArgs, in[:fixed]...)
		for _, a := range args[fixed:] {
			v, convErr := fromValue(a, elemType)
			if convErr != nil {
				return nil, convErr
			}
			callArgs = append(callArgs, v)
		}
	} else {
		callArgs = in
	}
	out := fn.Call(callArgs)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if errv, ok := out[0].Interface().(error); ok && fn.Type().Out(0).Implements(errType) {
			return nil, errv
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1]
		if last.Type().Implements(errType) && !last.IsNil() {
			return nil, last.Interface().(error)
		}
		return out[0].Interface(), nil
	}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()
