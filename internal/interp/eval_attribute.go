package interp

import "github.com/maxuser0/pyjinn/internal/ast"

func (ev *Evaluator) evalAttributeGet(e *ast.Attribute, env *Environment, frame *Frame) Value {
	obj := ev.Eval(e.Object, env, frame)
	if isUnwinding(obj) {
		return obj
	}
	return ev.getAttribute(obj, e.Attr)
}

// getAttribute implements field reads on UserInstance, method binding
// for UserClass methods, synthesized builtin-collection methods
// (list.append etc.), and delegates to the HostBridge for host
// objects/classes.
func (ev *Evaluator) getAttribute(obj Value, attr string) Value {
	switch x := obj.(type) {
	case *UserInstance:
		if v, err := x.GetField(attr); err == nil {
			return v
		}
		if fn, isClassMethod, isStatic, ok := x.Class.lookupMethod(attr); ok {
			return bindMethod(fn, x, isClassMethod, isStatic, x.Class)
		}
		return newError(ErrAttribute, "'%s' object has no attribute '%s'", x.Class.Name, attr)
	case *UserClass:
		if v, ok := x.getClassField(attr); ok {
			return v
		}
		if fn, isClassMethod, isStatic, ok := x.lookupMethod(attr); ok {
			return bindMethod(fn, x, isClassMethod, isStatic, x)
		}
		return newError(ErrAttribute, "type object '%s' has no attribute '%s'", x.Name, attr)
	case *List:
		if m, ok := listMethod(x, attr); ok {
			return m
		}
		return newError(ErrAttribute, "'list' object has no attribute '%s'", attr)
	case *Dict:
		if m, ok := dictMethod(x, attr); ok {
			return m
		}
		return newError(ErrAttribute, "'dict' object has no attribute '%s'", attr)
	case Str:
		if m, ok := strMethod(x, attr); ok {
			return m
		}
		return newError(ErrAttribute, "'str' object has no attribute '%s'", attr)
	case *NativeModule:
		if v, ok := x.Attrs[attr]; ok {
			return v
		}
		return newError(ErrAttribute, "module '%s' has no attribute '%s'", x.Name, attr)
	case *HostObject, *HostClass:
		if ev.Bridge == nil {
			return newError(ErrHostException, "no host bridge configured")
		}
		v, err := ev.Bridge.GetField(obj, attr)
		if err == nil {
			return v
		}
		// Field lookup failing doesn't necessarily mean the attribute is a
		// method: a bound call defers resolution to evalCall via
		// CallMethod, so expose a callable stand-in here.
		return &NativeFn{Name: attr, Fn: func(args []Value) (Value, error) {
			return ev.Bridge.CallMethod(obj, attr, args)
		}}
	default:
		return newError(ErrAttribute, "'%s' object has no attribute '%s'", obj.Kind(), attr)
	}
}

// bindMethod applies the classmethod/staticmethod/instance-method rules:
// classmethods bind the class as first argument, staticmethods take no
// implicit first argument, instance methods bind the instance.
func bindMethod(fn *Function, receiver Value, isClassMethod, isStatic bool, class *UserClass) Value {
	if isStatic {
		return fn
	}
	if isClassMethod {
		return &BoundFunction{Func: fn, Receiver: class}
	}
	return &BoundFunction{Func: fn, Receiver: receiver}
}

func (ev *Evaluator) assignAttribute(t *ast.Attribute, value Value, env *Environment, frame *Frame) Value {
	obj := ev.Eval(t.Object, env, frame)
	if isUnwinding(obj) {
		return obj
	}
	switch x := obj.(type) {
	case *UserInstance:
		if err := x.SetField(t.Attr, value); err != nil {
			return &errSignal{Err: toScriptError(err, ErrFrozenInstance)}
		}
		return nil
	case *UserClass:
		x.setClassField(t.Attr, value)
		return nil
	case *HostObject, *HostClass:
		if ev.Bridge == nil {
			return newError(ErrHostException, "no host bridge configured")
		}
		if err := ev.Bridge.SetField(obj, t.Attr, value); err != nil {
			return signalFromError(err)
		}
		return nil
	default:
		return newError(ErrType, "'%s' object attributes are not assignable", obj.Kind())
	}
}
