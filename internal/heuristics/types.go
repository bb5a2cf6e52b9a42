// Package heuristics infers parameter types and result schemas from the
// free text used in procedure documentation.
//
// Both inferences are ordered rule tables evaluated top to bottom, first
// match wins. The tables are exposed so their priority can be inspected and
// pinned by tests, and the whole layer sits behind Strategy so it can be
// swapped out.
package heuristics

import "github.com/rpavlik/kanboard-documentation/internal/openrpc"

// ParamType is the closed vocabulary of inferred parameter types.
type ParamType string

const (
	String        ParamType = "string"
	Integer       ParamType = "integer"
	Boolean       ParamType = "boolean"
	Object        ParamType = "object"
	Array         ParamType = "array"
	ListOfStrings ParamType = "list-of-strings"
	Unknown       ParamType = "unknown"
)

// Schema returns the JSON schema for the type. Unknown yields an untyped
// schema flagged as unresolved.
func (p ParamType) Schema() *openrpc.Schema {
	switch p {
	case String, Integer, Boolean, Object, Array:
		return &openrpc.Schema{Type: string(p)}
	case ListOfStrings:
		return &openrpc.Schema{Type: "array", Items: &openrpc.Schema{Type: "string"}}
	default:
		return &openrpc.Schema{Unresolved: true}
	}
}

// PythonType returns the annotation used in Python stubs.
func (p ParamType) PythonType() string {
	switch p {
	case String:
		return "str"
	case Integer:
		return "int"
	case Boolean:
		return "bool"
	case Object:
		return "dict"
	case Array:
		return "list"
	case ListOfStrings:
		return "list[str]"
	default:
		return "Any"
	}
}

// Strategy infers types and schemas from description text. The boolean
// result reports whether a rule matched; on false the returned value is
// the degraded fallback.
type Strategy interface {
	ParamType(desc string) (ParamType, bool)
	ResultSchema(desc string) (*openrpc.Schema, bool)
}
