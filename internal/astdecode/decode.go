// Package astdecode maps the JSON AST produced by the upstream Python
// parser into the typed node tree defined by internal/ast.
//
// Every JSON object in the tree carries a "type" field. Decode
// unmarshals generically into map[string]any first, then switches into
// the internal/ast node tree by hand, since each node kind needs
// different child shapes that a single struct-tag scheme can't express.
package astdecode

import (
	"encoding/json"
	"fmt"

	"github.com/maxuser0/pyjinn/internal/ast"
)

// HostClassResolver checks that a fully-qualified host-class name exists,
// returning an error if it does not. JavaClass("x.Y") call nodes are
// checked against this capability while decoding.
type HostClassResolver interface {
	ResolveHostClass(name string) error
}

// Decoder turns AST JSON into an *ast.Module.
type Decoder struct {
	// Resolver is consulted for every JavaClass("...") literal encountered.
	// If nil, JavaClass names are accepted unresolved (useful for tests
	// that don't exercise host interop).
	Resolver HostClassResolver
}

// New returns a Decoder with no host resolver attached.
func New() *Decoder {
	return &Decoder{}
}

// Decode parses astJSON (a {"type":"Module",...} document) into an
// *ast.Module.
func (d *Decoder) Decode(astJSON []byte) (*ast.Module, error) {
	var raw map[string]any
	if err := json.Unmarshal(astJSON, &raw); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if t, _ := raw["type"].(string); t != "Module" {
		return nil, newParseError(raw, "expected top-level Module, got %q", t)
	}
	body, err := d.decodeBlock(raw, "body")
	if err != nil {
		return nil, err
	}
	return &ast.Module{Body: body}, nil
}

func asObj(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

func nodeType(n map[string]any) string {
	t, _ := n["type"].(string)
	return t
}

// decodeBlock decodes node[key] (a JSON array of statement nodes) into a
// []ast.Statement.
func (d *Decoder) decodeBlock(node map[string]any, key string) ([]ast.Statement, error) {
	raw, ok := asList(node[key])
	if !ok {
		if node[key] == nil {
			return nil, nil
		}
		return nil, newParseError(node, "field %q must be a list of statements", key)
	}
	out := make([]ast.Statement, 0, len(raw))
	for _, item := range raw {
		obj, ok := asObj(item)
		if !ok {
			return nil, newParseError(node, "statement in %q is not an object", key)
		}
		stmt, err := d.decodeStatement(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (d *Decoder) decodeStatement(n map[string]any) (ast.Statement, error) {
	switch nodeType(n) {
	case "StatementBlock":
		body, err := d.decodeBlock(n, "body")
		if err != nil {
			return nil, err
		}
		return &ast.StatementBlock{Body: body}, nil
	case "Assign":
		return d.decodeAssign(n)
	case "AugAssign":
		return d.decodeAugAssign(n)
	case "AnnAssign":
		return d.decodeAnnAssign(n)
	case "Delete":
		target, err := d.decodeTargetField(n, "target")
		if err != nil {
			return nil, err
		}
		return &ast.Delete{Target: target}, nil
	case "If":
		return d.decodeIf(n)
	case "For":
		return d.decodeFor(n)
	case "While":
		test, err := d.decodeExprField(n, "test")
		if err != nil {
			return nil, err
		}
		body, err := d.decodeBlock(n, "body")
		if err != nil {
			return nil, err
		}
		return &ast.While{Test: test, Body: body}, nil
	case "Break":
		return &ast.Break{}, nil
	case "Continue":
		return &ast.Continue{}, nil
	case "Return":
		var value ast.Expression
		if n["value"] != nil {
			v, err := d.decodeExprField(n, "value")
			if err != nil {
				return nil, err
			}
			value = v
		}
		return &ast.Return{Value: value}, nil
	case "Raise":
		exc, err := d.decodeExprField(n, "exc")
		if err != nil {
			return nil, err
		}
		return &ast.Raise{Exc: exc}, nil
	case "Try":
		return d.decodeTry(n)
	case "GlobalDecl", "Global":
		names, err := d.decodeNameList(n, "names")
		if err != nil {
			return nil, err
		}
		return &ast.GlobalDecl{Names: names}, nil
	case "FunctionDef":
		return d.decodeFunctionDef(n)
	case "ClassDef":
		return d.decodeClassDef(n)
	case "ExprStmt", "Expr":
		expr, err := d.decodeExprField(n, "value")
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr}, nil
	default:
		return nil, newParseError(n, "unrecognized statement node")
	}
}

func (d *Decoder) decodeAssign(n map[string]any) (ast.Statement, error) {
	rawTargets, ok := asList(n["targets"])
	if !ok || len(rawTargets) == 0 {
		return nil, newParseError(n, "Assign.targets must be a non-empty list")
	}
	targets := make([]ast.Expression, 0, len(rawTargets))
	for _, rt := range rawTargets {
		obj, ok := asObj(rt)
		if !ok {
			return nil, newParseError(n, "Assign target is not an object")
		}
		t, err := d.decodeAssignTarget(obj)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	value, err := d.decodeExprField(n, "value")
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Targets: targets, Value: value}, nil
}

// decodeAssignTarget validates that a target is a Name, Attribute,
// Subscript, or a Tuple of Names.
func (d *Decoder) decodeAssignTarget(n map[string]any) (ast.Expression, error) {
	switch nodeType(n) {
	case "Name":
		return d.decodeExpression(n)
	case "Attribute":
		return d.decodeExpression(n)
	case "Subscript":
		return d.decodeExpression(n)
	case "TupleLit", "Tuple":
		rawElts, _ := asList(n["elts"])
		elts := make([]ast.Expression, 0, len(rawElts))
		for _, re := range rawElts {
			obj, ok := asObj(re)
			if !ok || nodeType(obj) != "Name" {
				return nil, newParseError(n, "tuple assignment target elements must be Names")
			}
			e, err := d.decodeExpression(obj)
			if err != nil {
				return nil, err
			}
			elts = append(elts, e)
		}
		return &ast.TupleLit{Elts: elts}, nil
	default:
		return nil, newParseError(n, "invalid assignment target kind %q", nodeType(n))
	}
}

func (d *Decoder) decodeAugAssign(n map[string]any) (ast.Statement, error) {
	target, err := d.decodeTargetField(n, "target")
	if err != nil {
		return nil, err
	}
	op, _ := n["op"].(string)
	switch op {
	case "Add", "Sub", "Mult", "Div", "Mod", "Pow":
	default:
		return nil, newParseError(n, "unsupported augmented assignment operator %q", op)
	}
	value, err := d.decodeExprField(n, "value")
	if err != nil {
		return nil, err
	}
	return &ast.AugAssign{Target: target, Op: op, Value: value}, nil
}

func (d *Decoder) decodeAnnAssign(n map[string]any) (ast.Statement, error) {
	target, err := d.decodeTargetField(n, "target")
	if err != nil {
		return nil, err
	}
	ann := annotationName(n["annotation"])
	var value ast.Expression
	if n["value"] != nil {
		v, err := d.decodeExprField(n, "value")
		if err != nil {
			return nil, err
		}
		value = v
	}
	return &ast.AnnAssign{Target: target, Annotation: ann, Value: value}, nil
}

// annotationName extracts a best-effort type name from a type-annotation
// expression node (e.g. {"type":"Name","id":"int"}). Unrecognized shapes
// degrade to "" rather than erroring: the interpreter only actually uses
// the annotation for dataclass field declaration order, never for
// enforcement.
func annotationName(v any) string {
	obj, ok := asObj(v)
	if !ok {
		return ""
	}
	if id, ok := obj["id"].(string); ok {
		return id
	}
	return ""
}

func (d *Decoder) decodeIf(n map[string]any) (ast.Statement, error) {
	test, err := d.decodeExprField(n, "test")
	if err != nil {
		return nil, err
	}
	body, err := d.decodeBlock(n, "body")
	if err != nil {
		return nil, err
	}
	orelse, err := d.decodeBlock(n, "orelse")
	if err != nil {
		return nil, err
	}
	return &ast.If{Test: test, Body: body, Orelse: orelse}, nil
}

func (d *Decoder) decodeFor(n map[string]any) (ast.Statement, error) {
	target, err := d.decodeTargetField(n, "target")
	if err != nil {
		return nil, err
	}
	iter, err := d.decodeExprField(n, "iter")
	if err != nil {
		return nil, err
	}
	body, err := d.decodeBlock(n, "body")
	if err != nil {
		return nil, err
	}
	return &ast.For{Target: target, Iter: iter, Body: body}, nil
}

func (d *Decoder) decodeTry(n map[string]any) (ast.Statement, error) {
	body, err := d.decodeBlock(n, "body")
	if err != nil {
		return nil, err
	}
	rawHandlers, _ := asList(n["handlers"])
	handlers := make([]*ast.ExceptHandler, 0, len(rawHandlers))
	for _, rh := range rawHandlers {
		hObj, ok := asObj(rh)
		if !ok {
			return nil, newParseError(n, "Try handler is not an object")
		}
		handler := &ast.ExceptHandler{}
		if hObj["type_"] != nil || hObj["type"] != nil {
			key := "type_"
			if hObj["type_"] == nil {
				key = "type"
			}
			typeObj, ok := asObj(hObj[key])
			if ok && nodeType(typeObj) == "Name" {
				nameExpr, err := d.decodeExpression(typeObj)
				if err != nil {
					return nil, err
				}
				nm := nameExpr.(*ast.Name)
				handler.Type = nm
			}
		}
		if nm, ok := hObj["name"].(string); ok {
			handler.Name = nm
		}
		hBody, err := d.decodeBlock(hObj, "body")
		if err != nil {
			return nil, err
		}
		handler.Body = hBody
		handlers = append(handlers, handler)
	}
	finalBody, err := d.decodeBlock(n, "finalbody")
	if err != nil {
		return nil, err
	}
	return &ast.Try{Body: body, Handlers: handlers, FinalBody: finalBody}, nil
}

func (d *Decoder) decodeNameList(n map[string]any, key string) ([]string, error) {
	raw, ok := asList(n[key])
	if !ok {
		return nil, newParseError(n, "field %q must be a list of names", key)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, newParseError(n, "field %q contains a non-string entry", key)
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *Decoder) decodeParams(n map[string]any) ([]ast.Param, error) {
	argsObj, ok := asObj(n["args"])
	if !ok {
		return nil, nil
	}
	rawArgs, _ := asList(argsObj["args"])
	params := make([]ast.Param, 0, len(rawArgs))
	for _, ra := range rawArgs {
		obj, ok := asObj(ra)
		if !ok {
			return nil, newParseError(n, "parameter entry is not an object")
		}
		name, _ := obj["arg"].(string)
		if name == "" {
			return nil, newParseError(n, "parameter missing 'arg' name")
		}
		params = append(params, ast.Param{Name: name})
	}
	return params, nil
}

func (d *Decoder) decoratorNames(n map[string]any) ([]string, []ast.Decorator, error) {
	raw, _ := asList(n["decorator_list"])
	var plainNames []string
	var full []ast.Decorator
	for _, rd := range raw {
		obj, ok := asObj(rd)
		if !ok {
			return nil, nil, newParseError(n, "decorator entry is not an object")
		}
		switch nodeType(obj) {
		case "Name":
			name, _ := obj["id"].(string)
			plainNames = append(plainNames, name)
			full = append(full, ast.Decorator{Name: name})
		case "Call":
			fnObj, ok := asObj(obj["func"])
			if !ok {
				return nil, nil, newParseError(n, "decorator Call missing func")
			}
			name, _ := fnObj["id"].(string)
			kw := map[string]any{}
			rawKw, _ := asList(obj["keywords"])
			for _, rk := range rawKw {
				kObj, ok := asObj(rk)
				if !ok {
					continue
				}
				argName, _ := kObj["arg"].(string)
				valObj, _ := asObj(kObj["value"])
				kw[argName] = valObj["value"]
			}
			plainNames = append(plainNames, name)
			full = append(full, ast.Decorator{Name: name, Keywords: kw})
		default:
			return nil, nil, newParseError(n, "unsupported decorator form %q", nodeType(obj))
		}
	}
	return plainNames, full, nil
}

func (d *Decoder) decodeFunctionDef(n map[string]any) (*ast.FunctionDef, error) {
	name, _ := n["name"].(string)
	if name == "" {
		return nil, newParseError(n, "FunctionDef missing name")
	}
	params, err := d.decodeParams(n)
	if err != nil {
		return nil, err
	}
	body, err := d.decodeBlock(n, "body")
	if err != nil {
		return nil, err
	}
	decNames, _, err := d.decoratorNames(n)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDef{Name: name, Params: params, Body: body, Decorators: decNames}, nil
}

func (d *Decoder) decodeClassDef(n map[string]any) (*ast.ClassDef, error) {
	name, _ := n["name"].(string)
	if name == "" {
		return nil, newParseError(n, "ClassDef missing name")
	}
	_, decorators, err := d.decoratorNames(n)
	if err != nil {
		return nil, err
	}
	rawBody, _ := asList(n["body"])
	cd := &ast.ClassDef{Name: name, Decorators: decorators}
	for _, rb := range rawBody {
		obj, ok := asObj(rb)
		if !ok {
			return nil, newParseError(n, "class body statement is not an object")
		}
		switch nodeType(obj) {
		case "AnnAssign":
			stmt, err := d.decodeAnnAssign(obj)
			if err != nil {
				return nil, err
			}
			cd.AnnFields = append(cd.AnnFields, stmt.(*ast.AnnAssign))
		case "Assign":
			stmt, err := d.decodeAssign(obj)
			if err != nil {
				return nil, err
			}
			cd.Assigns = append(cd.Assigns, stmt.(*ast.Assign))
		case "FunctionDef":
			fn, err := d.decodeFunctionDef(obj)
			if err != nil {
				return nil, err
			}
			cd.Methods = append(cd.Methods, fn)
		case "ExprStmt", "Expr":
			// Bare docstring or expression statement inside a class body;
			// has no runtime effect, discard.
		default:
			return nil, newParseError(obj, "unsupported class body statement %q", nodeType(obj))
		}
	}
	return cd, nil
}

func (d *Decoder) decodeTargetField(n map[string]any, key string) (ast.Expression, error) {
	obj, ok := asObj(n[key])
	if !ok {
		return nil, newParseError(n, "field %q must be an object", key)
	}
	return d.decodeAssignTarget(obj)
}

func (d *Decoder) decodeExprField(n map[string]any, key string) (ast.Expression, error) {
	obj, ok := asObj(n[key])
	if !ok {
		return nil, newParseError(n, "field %q must be an expression object", key)
	}
	return d.decodeExpression(obj)
}

var validBinaryOps = map[string]bool{"Add": true, "Sub": true, "Mult": true, "Div": true, "Pow": true, "Mod": true}
var validUnaryOps = map[string]bool{"USub": true, "Not": true}
var validCompareOps = map[string]bool{
	"Is": true, "IsNot": true, "Eq": true, "Lt": true, "LtE": true,
	"Gt": true, "GtE": true, "NotEq": true, "In": true, "NotIn": true,
}

func (d *Decoder) decodeExpression(n map[string]any) (ast.Expression, error) {
	switch nodeType(n) {
	case "Constant":
		typename, _ := n["typename"].(string)
		switch typename {
		case "bool", "int", "float", "str", "NoneType":
		default:
			return nil, newParseError(n, "unsupported constant typename %q", typename)
		}
		return &ast.Constant{Typename: typename, Value: n["value"]}, nil
	case "Name":
		id, _ := n["id"].(string)
		if id == "" {
			return nil, newParseError(n, "Name missing id")
		}
		return &ast.Name{Id: id}, nil
	case "UnaryOp":
		op, _ := n["op"].(string)
		if !validUnaryOps[op] {
			return nil, newParseError(n, "unsupported unary operator %q", op)
		}
		operand, err := d.decodeExprField(n, "operand")
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op, Operand: operand}, nil
	case "BinaryOp":
		op, _ := n["op"].(string)
		if !validBinaryOps[op] {
			return nil, newParseError(n, "unsupported binary operator %q", op)
		}
		left, err := d.decodeExprField(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := d.decodeExprField(n, "right")
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Left: left, Op: op, Right: right}, nil
	case "BoolOp":
		op, _ := n["op"].(string)
		if op != "AND" && op != "OR" {
			return nil, newParseError(n, "unsupported bool operator %q", op)
		}
		rawValues, _ := asList(n["values"])
		if len(rawValues) < 2 {
			return nil, newParseError(n, "BoolOp needs at least 2 values")
		}
		values := make([]ast.Expression, 0, len(rawValues))
		for _, rv := range rawValues {
			obj, ok := asObj(rv)
			if !ok {
				return nil, newParseError(n, "BoolOp value is not an object")
			}
			e, err := d.decodeExpression(obj)
			if err != nil {
				return nil, err
			}
			values = append(values, e)
		}
		return &ast.BoolOp{Op: op, Values: values}, nil
	case "Compare":
		lhs, err := d.decodeExprField(n, "left")
		if err != nil {
			return nil, err
		}
		rawOps, _ := asList(n["ops"])
		rawComparators, _ := asList(n["comparators"])
		if len(rawOps) == 0 || len(rawComparators) == 0 {
			return nil, newParseError(n, "Compare needs at least one op/comparator")
		}
		op, _ := rawOps[0].(string)
		if !validCompareOps[op] {
			return nil, newParseError(n, "unsupported compare operator %q", op)
		}
		rhsObj, ok := asObj(rawComparators[0])
		if !ok {
			return nil, newParseError(n, "Compare comparator is not an object")
		}
		rhs, err := d.decodeExpression(rhsObj)
		if err != nil {
			return nil, err
		}
		return &ast.Compare{Lhs: lhs, Op: op, Rhs: rhs}, nil
	case "IfExpr":
		test, err := d.decodeExprField(n, "test")
		if err != nil {
			return nil, err
		}
		body, err := d.decodeExprField(n, "body")
		if err != nil {
			return nil, err
		}
		orelse, err := d.decodeExprField(n, "orelse")
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Test: test, Body: body, Orelse: orelse}, nil
	case "Attribute":
		obj, err := d.decodeExprField(n, "object")
		if err != nil {
			// Python ast uses "value" for Attribute's object field; accept
			// either since upstream parsers vary.
			obj, err = d.decodeExprField(n, "value")
			if err != nil {
				return nil, err
			}
		}
		attr, _ := n["attr"].(string)
		if attr == "" {
			return nil, newParseError(n, "Attribute missing attr")
		}
		return &ast.Attribute{Object: obj, Attr: attr}, nil
	case "Subscript":
		return d.decodeSubscript(n)
	case "Slice":
		return d.decodeSlice(n)
	case "Call":
		return d.decodeCall(n)
	case "TupleLit", "Tuple":
		return d.decodeExprListAs(n, "elts", func(elts []ast.Expression) ast.Expression {
			return &ast.TupleLit{Elts: elts}
		})
	case "ListLit", "List":
		return d.decodeExprListAs(n, "elts", func(elts []ast.Expression) ast.Expression {
			return &ast.ListLit{Elts: elts}
		})
	case "DictLit", "Dict":
		return d.decodeDictLit(n)
	case "ListComp":
		return d.decodeListComp(n)
	case "FormattedString", "JoinedStr":
		return d.decodeFormattedString(n)
	case "Lambda":
		return d.decodeLambda(n)
	default:
		return nil, newParseError(n, "unrecognized expression node")
	}
}

func (d *Decoder) decodeExprListAs(n map[string]any, key string, build func([]ast.Expression) ast.Expression) (ast.Expression, error) {
	raw, _ := asList(n[key])
	elts := make([]ast.Expression, 0, len(raw))
	for _, re := range raw {
		obj, ok := asObj(re)
		if !ok {
			return nil, newParseError(n, "%q element is not an object", key)
		}
		e, err := d.decodeExpression(obj)
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	return build(elts), nil
}

func (d *Decoder) decodeSubscript(n map[string]any) (ast.Expression, error) {
	value, err := d.decodeExprField(n, "value")
	if err != nil {
		return nil, err
	}
	sliceObj, ok := asObj(n["slice"])
	if !ok {
		return nil, newParseError(n, "Subscript.slice must be an object")
	}
	idx, err := d.decodeExpression(sliceObj)
	if err != nil {
		return nil, err
	}
	return &ast.Subscript{Value: value, Index: idx}, nil
}

func (d *Decoder) decodeSlice(n map[string]any) (ast.Expression, error) {
	var lower, upper, step ast.Expression
	var err error
	if n["lower"] != nil {
		if lower, err = d.decodeExprField(n, "lower"); err != nil {
			return nil, err
		}
	}
	if n["upper"] != nil {
		if upper, err = d.decodeExprField(n, "upper"); err != nil {
			return nil, err
		}
	}
	if n["step"] != nil {
		if step, err = d.decodeExprField(n, "step"); err != nil {
			return nil, err
		}
	}
	return &ast.Slice{Lower: lower, Upper: upper, Step: step}, nil
}

// decodeCall handles the general Call case and the magic JavaClass("...")
// rewrite into a resolved host-class reference.
func (d *Decoder) decodeCall(n map[string]any) (ast.Expression, error) {
	fnObj, ok := asObj(n["callee"])
	if !ok {
		fnObj, ok = asObj(n["func"])
	}
	if !ok {
		return nil, newParseError(n, "Call missing callee")
	}
	rawArgs, _ := asList(n["args"])

	if nodeType(fnObj) == "Name" {
		if id, _ := fnObj["id"].(string); id == "JavaClass" {
			return d.decodeJavaClassCall(n, rawArgs)
		}
	}

	callee, err := d.decodeExpression(fnObj)
	if err != nil {
		return nil, err
	}
	args := make([]ast.Expression, 0, len(rawArgs))
	for _, ra := range rawArgs {
		obj, ok := asObj(ra)
		if !ok {
			return nil, newParseError(n, "Call argument is not an object")
		}
		a, err := d.decodeExpression(obj)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return &ast.Call{Callee: callee, Args: args}, nil
}

func (d *Decoder) decodeJavaClassCall(n map[string]any, rawArgs []any) (ast.Expression, error) {
	if len(rawArgs) != 1 {
		return nil, newParseError(n, "JavaClass(...) requires exactly one string-literal argument")
	}
	argObj, ok := asObj(rawArgs[0])
	if !ok || nodeType(argObj) != "Constant" {
		return nil, newParseError(n, "JavaClass(...) argument must be a string literal")
	}
	typename, _ := argObj["typename"].(string)
	className, ok := argObj["value"].(string)
	if typename != "str" || !ok {
		return nil, newParseError(n, "JavaClass(...) argument must be a string literal")
	}
	if d.Resolver != nil {
		if err := d.Resolver.ResolveHostClass(className); err != nil {
			return nil, newParseError(n, "JavaClass(%q): %v", className, err)
		}
	}
	return &ast.HostClassRef{ClassName: className}, nil
}

func (d *Decoder) decodeDictLit(n map[string]any) (ast.Expression, error) {
	rawKeys, _ := asList(n["keys"])
	rawValues, _ := asList(n["values"])
	if len(rawKeys) != len(rawValues) {
		return nil, newParseError(n, "DictLit keys/values length mismatch")
	}
	keys := make([]ast.Expression, 0, len(rawKeys))
	values := make([]ast.Expression, 0, len(rawValues))
	for i := range rawKeys {
		kObj, ok := asObj(rawKeys[i])
		if !ok {
			return nil, newParseError(n, "DictLit key is not an object")
		}
		k, err := d.decodeExpression(kObj)
		if err != nil {
			return nil, err
		}
		vObj, ok := asObj(rawValues[i])
		if !ok {
			return nil, newParseError(n, "DictLit value is not an object")
		}
		v, err := d.decodeExpression(vObj)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	return &ast.DictLit{Keys: keys, Values: values}, nil
}

func (d *Decoder) decodeListComp(n map[string]any) (ast.Expression, error) {
	transform, err := d.decodeExprField(n, "transform")
	if err != nil {
		transform, err = d.decodeExprField(n, "elt")
		if err != nil {
			return nil, err
		}
	}
	rawGens, ok := asList(n["generators"])
	if !ok || len(rawGens) == 0 {
		return nil, newParseError(n, "ListComp requires at least one generator")
	}
	genObj, ok := asObj(rawGens[0])
	if !ok {
		return nil, newParseError(n, "ListComp.generators[0] is not an object")
	}
	target, err := d.decodeTargetField(genObj, "target")
	if err != nil {
		return nil, err
	}
	iter, err := d.decodeExprField(genObj, "iter")
	if err != nil {
		return nil, err
	}
	rawIfs, _ := asList(genObj["ifs"])
	ifs := make([]ast.Expression, 0, len(rawIfs))
	for _, ri := range rawIfs {
		obj, ok := asObj(ri)
		if !ok {
			return nil, newParseError(n, "ListComp if-clause is not an object")
		}
		e, err := d.decodeExpression(obj)
		if err != nil {
			return nil, err
		}
		ifs = append(ifs, e)
	}
	return &ast.ListComp{Transform: transform, Target: target, Iter: iter, Ifs: ifs}, nil
}

func (d *Decoder) decodeFormattedString(n map[string]any) (ast.Expression, error) {
	rawParts, _ := asList(n["parts"])
	if rawParts == nil {
		rawParts, _ = asList(n["values"])
	}
	parts := make([]ast.FStringPart, 0, len(rawParts))
	for _, rp := range rawParts {
		obj, ok := asObj(rp)
		if !ok {
			return nil, newParseError(n, "FormattedString part is not an object")
		}
		switch nodeType(obj) {
		case "Constant":
			typename, _ := obj["typename"].(string)
			s, isStr := obj["value"].(string)
			// Python-style JoinedStr constants omit the typename field.
			if typename != "str" && !(typename == "" && isStr) {
				return nil, newParseError(obj, "FormattedString literal part must be a str constant")
			}
			parts = append(parts, ast.FStringPart{Literal: s})
		case "FormattedValue":
			e, err := d.decodeExprField(obj, "value")
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.FStringPart{Expr: e})
		default:
			e, err := d.decodeExpression(obj)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.FStringPart{Expr: e})
		}
	}
	return &ast.FormattedString{Parts: parts}, nil
}

func (d *Decoder) decodeLambda(n map[string]any) (ast.Expression, error) {
	params, err := d.decodeParams(n)
	if err != nil {
		return nil, err
	}
	body, err := d.decodeExprField(n, "body")
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Params: params, Body: body}, nil
}
