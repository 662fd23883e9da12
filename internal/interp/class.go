package interp

import "github.com/maxuser0/pyjinn/internal/ast"

// evalClassDef builds a UserClass from a ClassDef's decorators,
// annotated/plain class-level assignments, and methods, then binds it
// into env by name.
func (ev *Evaluator) evalClassDef(s *ast.ClassDef, env *Environment, frame *Frame) Value {
	class := &UserClass{
		Name:          s.Name,
		Methods:       make(map[string]*Function),
		ClassMethods:  make(map[string]*Function),
		StaticMethods: make(map[string]*Function),
	}

	var isDataClass bool
	for _, dec := range s.Decorators {
		switch dec.Name {
		case "dataclass":
			isDataClass = true
			if frozen, _ := dec.Keywords["frozen"].(bool); frozen {
				class.Frozen = true
			}
		}
	}
	class.DataClass = isDataClass

	for _, fn := range s.Methods {
		classMethod, static := false, false
		for _, dec := range fn.Decorators {
			switch dec {
			case "classmethod":
				classMethod = true
			case "staticmethod":
				static = true
			}
		}
		bound := &Function{Def: fn, Env: env}
		switch {
		case static:
			class.StaticMethods[fn.Name] = bound
		case classMethod:
			class.ClassMethods[fn.Name] = bound
		default:
			class.Methods[fn.Name] = bound
		}
	}

	for _, a := range s.Assigns {
		name, ok := a.Targets[0].(*ast.Name)
		if !ok || len(a.Targets) != 1 {
			return newError(ErrParse, "class-level assignment target must be a single Name")
		}
		v := ev.Eval(a.Value, env, frame)
		if isUnwinding(v) {
			return v
		}
		class.setClassField(name.Id, v)
	}

	if isDataClass {
		class.Defaults = make(map[string]Value)
		for _, field := range s.AnnFields {
			name, ok := field.Target.(*ast.Name)
			if !ok {
				return newError(ErrParse, "dataclass field target must be a Name")
			}
			class.FieldOrder = append(class.FieldOrder, name.Id)
			// Defaults are evaluated once at class-definition time, not
			// re-evaluated for every instance.
			if field.Value != nil {
				v := ev.Eval(field.Value, env, frame)
				if isUnwinding(v) {
					return v
				}
				class.Defaults[name.Id] = v
			}
		}
	} else {
		for _, field := range s.AnnFields {
			if field.Value == nil {
				continue
			}
			name, ok := field.Target.(*ast.Name)
			if !ok {
				return newError(ErrParse, "class field target must be a Name")
			}
			v := ev.Eval(field.Value, env, frame)
			if isUnwinding(v) {
				return v
			}
			class.setClassField(name.Id, v)
		}
	}

	env.Set(s.Name, class)
	return None
}

// construct creates an instance: a @dataclass ignores any __init__ and
// synthesizes a constructor from its annotated fields in declaration
// order; a plain class with an __init__ defined calls it with the new
// (empty) instance bound as self; a plain class with no __init__ takes
// zero arguments.
func (ev *Evaluator) construct(class *UserClass, args []Value) (Value, error) {
	inst := NewUserInstance(class)
	if class.DataClass {
		return inst, ev.initDataClassFields(class, inst, args)
	}
	if init, ok := class.Methods["__init__"]; ok {
		_, err := ev.callUserFunction(init, append([]Value{Value(inst)}, args...))
		if err != nil {
			return nil, err
		}
		return inst, nil
	}
	if len(args) != 0 {
		return nil, newScriptError(ErrArity, "%s() takes 0 arguments but %d were given", class.Name, len(args))
	}
	return inst, nil
}

// initDataClassFields assigns positional args to FieldOrder, falling back
// to each field's once-evaluated default, and errors if a
// default-less field is left unsupplied.
func (ev *Evaluator) initDataClassFields(class *UserClass, inst *UserInstance, args []Value) error {
	if len(args) > len(class.FieldOrder) {
		return newScriptError(ErrArity, "%s() takes %d argument(s) but %d were given", class.Name, len(class.FieldOrder), len(args))
	}
	for i, name := range class.FieldOrder {
		if i < len(args) {
			inst.setOwn(name, args[i])
			continue
		}
		def, ok := class.Defaults[name]
		if !ok {
			return newScriptError(ErrArity, "%s() missing required argument: '%s'", class.Name, name)
		}
		inst.setOwn(name, def)
	}
	return nil
}
