package interp

// The exception classes pre-bound into every global scope. Scripts raise
// and catch instances of these by name; matching in evalTry discriminates
// on class identity, so the same *UserClass value registered here is the
// one every `except Exception` handler resolves.
var builtinExceptionNames = []string{
	"Exception",
	"ValueError",
	"RuntimeError",
	"KeyError",
	"IndexError",
}

// newExceptionClass builds one built-in exception class as an ordinary
// user dataclass with a single optional `message` field, so construction
// (`Exception('boom')`), field access, and frozen/equality machinery all
// reuse the regular class-system path.
func newExceptionClass(name string) *UserClass {
	return &UserClass{
		Name:          name,
		DataClass:     true,
		Exception:     true,
		FieldOrder:    []string{"message"},
		Defaults:      map[string]Value{"message": Str("")},
		Methods:       map[string]*Function{},
		ClassMethods:  map[string]*Function{},
		StaticMethods: map[string]*Function{},
	}
}

func registerExceptionClasses(globals *Environment) {
	for _, name := range builtinExceptionNames {
		globals.Set(name, newExceptionClass(name))
	}
}
