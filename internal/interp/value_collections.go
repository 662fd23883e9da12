package interp

import "strings"

// List is a mutable, reference-semantics ordered sequence: mutation
// through one binding is visible through every alias, so it is a thin
// wrapper over a shared Go slice.
type List struct {
	Elems []Value
}

func NewList(elems []Value) *List {
	return &List{Elems: elems}
}

func (*List) Kind() Kind { return KindList }

func (l *List) Inspect() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Len() int { return len(l.Elems) }

func (l *List) Append(v Value) { l.Elems = append(l.Elems, v) }

// index resolves a Python-style (possibly negative) index against l's
// current length; ok is false when out of range.
func (l *List) index(i int) (int, bool) {
	n := len(l.Elems)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// Tuple is an immutable, structurally-compared fixed-length sequence.
type Tuple struct {
	Elems []Value
}

func NewTuple(elems []Value) *Tuple {
	return &Tuple{Elems: elems}
}

func (*Tuple) Kind() Kind { return KindTuple }

func (t *Tuple) Inspect() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.Inspect()
	}
	s := strings.Join(parts, ", ")
	if len(t.Elems) == 1 {
		s += ","
	}
	return "(" + s + ")"
}

func (t *Tuple) Hash() (uint64, error) {
	h := hashUint64(0x7091E)
	for _, e := range t.Elems {
		hv, ok := e.(Hashable)
		if !ok {
			return 0, newScriptError(ErrType, "unhashable type: %s", e.Kind())
		}
		sub, err := hv.Hash()
		if err != nil {
			return 0, err
		}
		h = hashUint64(h, sub)
	}
	return h, nil
}

// dictEntry preserves insertion order.
type dictEntry struct {
	key   Value
	value Value
}

// Dict is an insertion-ordered mapping with Python-style key equality.
// Entries live in a slice with a parallel hash index rather than a
// native Go map, since Go maps can't key on an interface with custom
// equality/hash semantics (lists and most Value kinds aren't
// Go-comparable).
type Dict struct {
	entries []dictEntry
	index   map[uint64][]int // hash -> indices into entries
}

func NewDict() *Dict {
	return &Dict{index: make(map[uint64][]int)}
}

func (*Dict) Kind() Kind { return KindDict }

func (d *Dict) Inspect() string {
	parts := make([]string, len(d.entries))
	for i, e := range d.entries {
		parts[i] = e.key.Inspect() + ": " + e.value.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) Len() int { return len(d.entries) }

func (d *Dict) find(key Value) (int, uint64, error) {
	hv, ok := key.(Hashable)
	if !ok {
		return -1, 0, newScriptError(ErrType, "unhashable type: %s", key.Kind())
	}
	h, err := hv.Hash()
	if err != nil {
		return -1, 0, err
	}
	for _, i := range d.index[h] {
		if valuesEqual(d.entries[i].key, key) {
			return i, h, nil
		}
	}
	return -1, h, nil
}

func (d *Dict) Get(key Value) (Value, bool, error) {
	i, _, err := d.find(key)
	if err != nil {
		return nil, false, err
	}
	if i < 0 {
		return nil, false, nil
	}
	return d.entries[i].value, true, nil
}

func (d *Dict) Set(key, value Value) error {
	i, h, err := d.find(key)
	if err != nil {
		return err
	}
	if i >= 0 {
		d.entries[i].value = value
		return nil
	}
	d.index[h] = append(d.index[h], len(d.entries))
	d.entries = append(d.entries, dictEntry{key: key, value: value})
	return nil
}

func (d *Dict) Delete(key Value) (bool, error) {
	i, h, err := d.find(key)
	if err != nil {
		return false, err
	}
	if i < 0 {
		return false, nil
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.index, h)
	// Rebuild the index: every stored position after i shifted by one.
	d.index = make(map[uint64][]int, len(d.entries))
	for idx, e := range d.entries {
		hv := e.key.(Hashable)
		eh, _ := hv.Hash()
		d.index[eh] = append(d.index[eh], idx)
	}
	return true, nil
}

func (d *Dict) Keys() []Value {
	out := make([]Value, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.key
	}
	return out
}

// Slice is `lower:upper:step`, each component optional.
type Slice struct {
	Lower, Upper, Step Value // nil component means absent/default
}

func (*Slice) Kind() Kind      { return KindSlice }
func (s *Slice) Inspect() string {
	part := func(v Value) string {
		if v == nil {
			return ""
		}
		return v.Inspect()
	}
	return part(s.Lower) + ":" + part(s.Upper) + ":" + part(s.Step)
}

// resolveSliceBounds applies the slice-index defaulting rules: absent
// lower/upper/step default to 0/len/1; negative lower/upper are
// normalized by adding len. Step values other than 1 raise
// UnsupportedOperation.
func resolveSliceBounds(s *Slice, length int) (lower, upper, step int, err error) {
	step = 1
	if s.Step != nil {
		n, ok := intValue(s.Step)
		if !ok {
			return 0, 0, 0, newScriptError(ErrType, "slice step must be an int")
		}
		step = int(n)
	}
	if step != 1 {
		return 0, 0, 0, newScriptError(ErrUnsupportedOp, "slice step %d is not supported", step)
	}
	lower = 0
	if s.Lower != nil {
		n, ok := intValue(s.Lower)
		if !ok {
			return 0, 0, 0, newScriptError(ErrType, "slice lower bound must be an int")
		}
		lower = int(n)
		if lower < 0 {
			lower += length
		}
	}
	upper = length
	if s.Upper != nil {
		n, ok := intValue(s.Upper)
		if !ok {
			return 0, 0, 0, newScriptError(ErrType, "slice upper bound must be an int")
		}
		upper = int(n)
		if upper < 0 {
			upper += length
		}
	}
	if lower < 0 {
		lower = 0
	}
	if upper > length {
		upper = length
	}
	if upper < lower {
		upper = lower
	}
	return lower, upper, step, nil
}

// Range is an integer sequence, matching Python's `range(start,stop,step)`.
type Range struct {
	Start, Stop, Step int64
}

func (*Range) Kind() Kind { return KindRange }

func (r *Range) Inspect() string {
	return "range(" + Int64(r.Start).Inspect() + ", " + Int64(r.Stop).Inspect() + ", " + Int64(r.Step).Inspect() + ")"
}

// Values materializes the range's elements. Called by list()/tuple()/for.
func (r *Range) Values() []Value {
	var out []Value
	if r.Step > 0 {
		for v := r.Start; v < r.Stop; v += r.Step {
			out = append(out, NewInt(v))
		}
	} else if r.Step < 0 {
		for v := r.Start; v > r.Stop; v += r.Step {
			out = append(out, NewInt(v))
		}
	}
	return out
}

func (r *Range) Len() int { return len(r.Values()) }

// Enumerate wraps an inner iterable, yielding (index, value) Tuples.
type Enumerate struct {
	Inner Value
	Start int64
}

func (*Enumerate) Kind() Kind      { return KindEnumerate }
func (*Enumerate) Inspect() string { return "<enumerate object>" }
