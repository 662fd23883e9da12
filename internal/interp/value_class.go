package interp

import (
	"fmt"
	"sort"
	"strings"
)

// UserClass is a script-defined class, produced by evaluating a ClassDef
// statement. Its instances (UserInstance) keep their fields in a slice
// sorted by name so lookups binary-search instead of hashing, which pays
// off for the typically-small field counts dataclasses have; the class's
// own classFields are a short unsorted slice searched linearly.
type UserClass struct {
	Name      string
	Frozen    bool
	DataClass bool
	// Exception marks the pre-registered exception classes scripts raise
	// and catch by name (Exception, ValueError, ...); str() on their
	// instances yields the message rather than the dataclass repr.
	Exception bool
	// FieldOrder is the @dataclass declaration order; it drives both the
	// synthesized constructor's positional argument order and the
	// frozen-instance hash/repr field order.
	FieldOrder []string
	// Defaults holds each dataclass field's default value, evaluated once
	// at class-definition time as in Python. A field with no entry here
	// has no default and is a required constructor argument.
	Defaults map[string]Value

	Methods       map[string]*Function
	ClassMethods  map[string]*Function
	StaticMethods map[string]*Function

	// classFields are class-level values: every plain `name = value`
	// assignment, plus annotated fields with a default on a
	// non-dataclass; consulted as a fallback after the instance
	// __dict__ on field read.
	classFields []classField
}

type classField struct {
	Name  string
	Value Value
}

func (*UserClass) Kind() Kind        { return KindUserClass }
func (c *UserClass) Inspect() string { return "<class '" + c.Name + "'>" }

func (c *UserClass) getClassField(name string) (Value, bool) {
	for _, f := range c.classFields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (c *UserClass) setClassField(name string, v Value) {
	for i, f := range c.classFields {
		if f.Name == name {
			c.classFields[i].Value = v
			return
		}
	}
	c.classFields = append(c.classFields, classField{Name: name, Value: v})
}

// lookupMethod searches instance methods, then classmethods, then
// staticmethods. It reports which table the method was found in so the
// caller can decide whether to prepend self/cls.
func (c *UserClass) lookupMethod(name string) (fn *Function, isClassMethod, isStaticMethod, ok bool) {
	if fn, ok = c.Methods[name]; ok {
		return fn, false, false, true
	}
	if fn, ok = c.ClassMethods[name]; ok {
		return fn, true, false, true
	}
	if fn, ok = c.StaticMethods[name]; ok {
		return fn, false, true, true
	}
	return nil, false, false, false
}

// instanceField is one entry of a UserInstance's __dict__, kept sorted
// by Name.
type instanceField struct {
	Name  string
	Value Value
}

// UserInstance is an instance of a UserClass.
type UserInstance struct {
	Class  *UserClass
	fields []instanceField
}

func NewUserInstance(class *UserClass) *UserInstance {
	return &UserInstance{Class: class}
}

func (*UserInstance) Kind() Kind { return KindUserInstance }

func (inst *UserInstance) Inspect() string {
	if inst.Class.Exception {
		m, _ := inst.getOwn("message")
		return inst.Class.Name + "(" + valueReprIn(m) + ")"
	}
	if inst.Class.DataClass {
		parts := make([]string, len(inst.Class.FieldOrder))
		for i, name := range inst.Class.FieldOrder {
			v, _ := inst.getOwn(name)
			parts[i] = fmt.Sprintf("%s=%s", name, valueReprIn(v))
		}
		return inst.Class.Name + "(" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("<%s object at %p>", inst.Class.Name, inst)
}

func valueReprIn(v Value) string {
	if v == nil {
		return "None"
	}
	return v.Inspect()
}

func (inst *UserInstance) fieldIndex(name string) int {
	return sort.Search(len(inst.fields), func(i int) bool { return inst.fields[i].Name >= name })
}

func (inst *UserInstance) getOwn(name string) (Value, bool) {
	i := inst.fieldIndex(name)
	if i < len(inst.fields) && inst.fields[i].Name == name {
		return inst.fields[i].Value, true
	}
	return nil, false
}

func (inst *UserInstance) setOwn(name string, v Value) {
	i := inst.fieldIndex(name)
	if i < len(inst.fields) && inst.fields[i].Name == name {
		inst.fields[i].Value = v
		return
	}
	inst.fields = append(inst.fields, instanceField{})
	copy(inst.fields[i+1:], inst.fields[i:])
	inst.fields[i] = instanceField{Name: name, Value: v}
}

// GetField reads instance __dict__ first, then class __dict__; missing
// raises AttributeError.
func (inst *UserInstance) GetField(name string) (Value, error) {
	if v, ok := inst.getOwn(name); ok {
		return v, nil
	}
	if v, ok := inst.Class.getClassField(name); ok {
		return v, nil
	}
	return nil, newScriptError(ErrAttribute, "'%s' object has no attribute '%s'", inst.Class.Name, name)
}

// SetField implements the write side: instance-only, frozen classes
// reject every write with FrozenInstanceError.
func (inst *UserInstance) SetField(name string, v Value) error {
	if inst.Class.Frozen {
		return newScriptError(ErrFrozenInstance, "cannot assign to field '%s' of frozen instance '%s'", name, inst.Class.Name)
	}
	inst.setOwn(name, v)
	return nil
}

// Hash implements frozen-dataclass hashing: a deterministic hash over the
// field tuple in declaration order.
func (inst *UserInstance) Hash() (uint64, error) {
	if !inst.Class.Frozen {
		// Reference identity hash for non-frozen instances.
		return hashUint64(0x1D, uint64(reflectPointer(inst))), nil
	}
	h := hashUint64(0xDA7AC1A55)
	for _, name := range inst.Class.FieldOrder {
		v, _ := inst.getOwn(name)
		hv, ok := v.(Hashable)
		if !ok {
			return 0, newScriptError(ErrType, "unhashable type: %s", v.Kind())
		}
		sub, err := hv.Hash()
		if err != nil {
			return 0, err
		}
		h = hashUint64(h, sub)
	}
	return h, nil
}
