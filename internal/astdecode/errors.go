package astdecode

import "fmt"

// ParseError reports a malformed or unrecognized AST node. It carries the
// raw JSON node that triggered the failure so embedders can surface it
// alongside the offending source location from the upstream Python parser.
type ParseError struct {
	Message string
	Node    map[string]any
}

func (e *ParseError) Error() string {
	if e.Node == nil {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	t, _ := e.Node["type"].(string)
	return fmt.Sprintf("parse error: %s (node type %q)", e.Message, t)
}

func newParseError(node map[string]any, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Node: node}
}
