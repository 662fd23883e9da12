package interp

import (
	"fmt"
	"math"
	"strings"
)

// numericRank gives a numeric kind's position in the tower
// Int32 < Int64 < Float32 < Float64 (-1 for a non-numeric kind);
// widestKind below uses it to pick the wider of two kinds.
func numericRank(k Kind) int {
	switch k {
	case KindInt32:
		return 0
	case KindInt64:
		return 1
	case KindFloat32:
		return 2
	case KindFloat64:
		return 3
	default:
		return -1
	}
}

func widestKind(a, b Kind) Kind {
	ranks := []Kind{KindInt32, KindInt64, KindFloat32, KindFloat64}
	ra, rb := numericRank(a), numericRank(b)
	if ra > rb {
		return ranks[ra]
	}
	return ranks[rb]
}

// narrowResult re-applies numeric narrowing after an integer/float-
// producing op: Int32 if it round-trips through 32 bits (for integer
// results) else Int64; Float32 if it round-trips through single
// precision (for float results) else Float64.
func narrowResult(wide Kind, intResult int64, floatResult float64) Value {
	switch wide {
	case KindInt32, KindInt64:
		return NewInt(intResult)
	default:
		return NewFloat(floatResult)
	}
}

// Add implements `+`: numeric add, string concat, list concat (new list).
func Add(a, b Value) (Value, error) {
	if isNumeric(a.Kind()) && isNumeric(b.Kind()) {
		wide := widestKind(a.Kind(), b.Kind())
		if isFloat(wide) {
			af, _ := floatValue(a)
			bf, _ := floatValue(b)
			return narrowResult(wide, 0, af+bf), nil
		}
		ai, _ := intValue(a)
		bi, _ := intValue(b)
		return narrowResult(wide, ai+bi, 0), nil
	}
	if as, ok := a.(Str); ok {
		if bs, ok := b.(Str); ok {
			return as + bs, nil
		}
	}
	if al, ok := a.(*List); ok {
		if bl, ok := b.(*List); ok {
			out := make([]Value, 0, len(al.Elems)+len(bl.Elems))
			out = append(out, al.Elems...)
			out = append(out, bl.Elems...)
			return NewList(out), nil
		}
	}
	if at, ok := a.(*Tuple); ok {
		if bt, ok := b.(*Tuple); ok {
			out := make([]Value, 0, len(at.Elems)+len(bt.Elems))
			out = append(out, at.Elems...)
			out = append(out, bt.Elems...)
			return NewTuple(out), nil
		}
	}
	return nil, typeErrorForBinOp("+", a, b)
}

// Sub implements `-`: numeric only.
func Sub(a, b Value) (Value, error) {
	if !isNumeric(a.Kind()) || !isNumeric(b.Kind()) {
		return nil, typeErrorForBinOp("-", a, b)
	}
	wide := widestKind(a.Kind(), b.Kind())
	if isFloat(wide) {
		af, _ := floatValue(a)
		bf, _ := floatValue(b)
		return narrowResult(wide, 0, af-bf), nil
	}
	ai, _ := intValue(a)
	bi, _ := intValue(b)
	return narrowResult(wide, ai-bi, 0), nil
}

// Mul implements `*`: numeric, plus string/list repetition by an integer.
func Mul(a, b Value) (Value, error) {
	if isNumeric(a.Kind()) && isNumeric(b.Kind()) {
		wide := widestKind(a.Kind(), b.Kind())
		if isFloat(wide) {
			af, _ := floatValue(a)
			bf, _ := floatValue(b)
			return narrowResult(wide, 0, af*bf), nil
		}
		ai, _ := intValue(a)
		bi, _ := intValue(b)
		return narrowResult(wide, ai*bi, 0), nil
	}
	if as, ok := a.(Str); ok {
		if n, ok := intValue(b); ok {
			return Str(strings.Repeat(string(as), maxInt(0, int(n)))), nil
		}
	}
	if bs, ok := b.(Str); ok {
		if n, ok := intValue(a); ok {
			return Str(strings.Repeat(string(bs), maxInt(0, int(n)))), nil
		}
	}
	if al, ok := a.(*List); ok {
		if n, ok := intValue(b); ok {
			return repeatList(al, int(n)), nil
		}
	}
	if bl, ok := b.(*List); ok {
		if n, ok := intValue(a); ok {
			return repeatList(bl, int(n)), nil
		}
	}
	return nil, typeErrorForBinOp("*", a, b)
}

func repeatList(l *List, n int) *List {
	out := make([]Value, 0, maxInt(0, n)*len(l.Elems))
	for i := 0; i < n; i++ {
		out = append(out, l.Elems...)
	}
	return NewList(out)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Div implements `/`: always returns a float (narrowed).
func Div(a, b Value) (Value, error) {
	if !isNumeric(a.Kind()) || !isNumeric(b.Kind()) {
		return nil, typeErrorForBinOp("/", a, b)
	}
	bf, _ := floatValue(b)
	if bf == 0 {
		return nil, newScriptError(ErrType, "division by zero")
	}
	af, _ := floatValue(a)
	return NewFloat(af / bf), nil
}

// Mod implements `%`: numeric modulo, or Python %-style string
// formatting when the left operand is a string.
func Mod(a, b Value) (Value, error) {
	if as, ok := a.(Str); ok {
		return stringFormatPercent(string(as), b)
	}
	if !isNumeric(a.Kind()) || !isNumeric(b.Kind()) {
		return nil, typeErrorForBinOp("%", a, b)
	}
	wide := widestKind(a.Kind(), b.Kind())
	if isFloat(wide) {
		af, _ := floatValue(a)
		bf, _ := floatValue(b)
		if bf == 0 {
			return nil, newScriptError(ErrType, "division by zero")
		}
		return narrowResult(wide, 0, math.Mod(af, bf)), nil
	}
	ai, _ := intValue(a)
	bi, _ := intValue(b)
	if bi == 0 {
		return nil, newScriptError(ErrType, "division by zero")
	}
	m := ai % bi
	if (m < 0) != (bi < 0) && m != 0 {
		m += bi
	}
	return narrowResult(wide, m, 0), nil
}

// stringFormatPercent handles `"%s %d" % (a, b)` / `"%s" % a` style
// formatting with the %s/%d/%f/%% verbs.
func stringFormatPercent(format string, arg Value) (Value, error) {
	var args []Value
	if t, ok := arg.(*Tuple); ok {
		args = t.Elems
	} else {
		args = []Value{arg}
	}
	var b strings.Builder
	argIdx := 0
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' || i == len(runes)-1 {
			b.WriteRune(runes[i])
			continue
		}
		i++
		verb := runes[i]
		if verb == '%' {
			b.WriteByte('%')
			continue
		}
		if argIdx >= len(args) {
			return nil, newScriptError(ErrType, "not enough arguments for format string")
		}
		v := args[argIdx]
		argIdx++
		switch verb {
		case 's':
			b.WriteString(StrOf(v))
		case 'd':
			n, ok := intValue(v)
			if !ok {
				nf, _ := floatValue(v)
				n = int64(nf)
			}
			b.WriteString(fmt.Sprintf("%d", n))
		case 'f':
			f, _ := floatValue(v)
			b.WriteString(fmt.Sprintf("%f", f))
		default:
			return nil, newScriptError(ErrUnsupportedOp, "unsupported format verb %%%c", verb)
		}
	}
	return Str(b.String()), nil
}

// Pow implements `**`: numeric exponent, narrowed to int if the operands
// and result are exact integers.
func Pow(a, b Value) (Value, error) {
	if !isNumeric(a.Kind()) || !isNumeric(b.Kind()) {
		return nil, typeErrorForBinOp("**", a, b)
	}
	af, _ := floatValue(a)
	bf, _ := floatValue(b)
	result := math.Pow(af, bf)
	if isInteger(a.Kind()) && isInteger(b.Kind()) && bf >= 0 && result == math.Trunc(result) && !math.IsInf(result, 0) {
		return NewInt(int64(result)), nil
	}
	wide := widestKind(a.Kind(), b.Kind())
	if !isFloat(wide) {
		wide = KindFloat64
	}
	return narrowResult(wide, 0, result), nil
}

// Neg implements unary `-`.
func Neg(a Value) (Value, error) {
	switch v := a.(type) {
	case Int32:
		return NewInt(-int64(v)), nil
	case Int64:
		return NewInt(-int64(v)), nil
	case Float32:
		return NewFloat(-float64(v)), nil
	case Float64:
		return NewFloat(-float64(v)), nil
	default:
		return nil, newScriptError(ErrType, "bad operand type for unary -: %s", a.Kind())
	}
}

func typeErrorForBinOp(op string, a, b Value) error {
	return newScriptError(ErrType, "unsupported operand type(s) for %s: %s and %s", op, a.Kind(), b.Kind())
}
