package heuristics

import (
	"strings"
	"unicode"

	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
)

// ParamRule maps a description to a parameter type.
type ParamRule struct {
	Name  string
	Match func(d Description) bool
	Type  ParamType
}

// ResultRule maps a result description to a schema.
type ResultRule struct {
	Name  string
	Match func(d Description) bool
	Build func(text string) *openrpc.Schema
}

// Description is the normalized text rules match against.
type Description struct {
	Text  string // trimmed original
	Lower string
	Words []string
}

// NewDescription trims s and splits its lowercased form into words.
func NewDescription(s string) Description {
	text := strings.TrimSpace(s)
	lower := strings.ToLower(text)
	return Description{
		Text:  text,
		Lower: lower,
		Words: strings.FieldsFunc(lower, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		}),
	}
}

// Contains reports whether any of subs occurs in the lowercased text.
func (d Description) Contains(subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(d.Lower, s) {
			return true
		}
	}
	return false
}

// HasWord reports whether w appears as a whole word.
func (d Description) HasWord(w string) bool {
	for _, x := range d.Words {
		if x == w {
			return true
		}
	}
	return false
}

// Rules is a Strategy backed by ordered rule tables.
type Rules struct {
	Params  []ParamRule
	Results []ResultRule
}

var _ Strategy = (*Rules)(nil)

// Default returns the rule tables for Kanboard style documentation.
func Default() *Rules {
	return &Rules{
		Params: []ParamRule{
			{
				Name:  "list of strings",
				Match: func(d Description) bool { return d.Contains("list of strings", "array of strings", "[]string") },
				Type:  ListOfStrings,
			},
			{
				Name:  "string",
				Match: func(d Description) bool { return d.Contains("string") },
				Type:  String,
			},
			{
				Name:  "integer",
				Match: func(d Description) bool { return d.Contains("integer") || d.HasWord("int") },
				Type:  Integer,
			},
			{
				Name:  "boolean",
				Match: func(d Description) bool { return d.Contains("boolean") || d.HasWord("bool") },
				Type:  Boolean,
			},
			{
				Name:  "dict",
				Match: func(d Description) bool { return d.Contains("dict", "key-value", "key/value") },
				Type:  Object,
			},
			{
				Name:  "array",
				Match: func(d Description) bool { return d.Contains("array") || d.HasWord("list") },
				Type:  Array,
			},
		},
		Results: []ResultRule{
			{
				Name:  "true",
				Match: func(d Description) bool { return d.Lower == "true" },
				Build: func(string) *openrpc.Schema { return &openrpc.Schema{Enum: []interface{}{true}} },
			},
			{
				Name:  "false",
				Match: func(d Description) bool { return d.Lower == "false" },
				Build: func(string) *openrpc.Schema { return &openrpc.Schema{Enum: []interface{}{false}} },
			},
			{
				Name:  "null",
				Match: func(d Description) bool { return d.Lower == "null" },
				Build: func(string) *openrpc.Schema { return &openrpc.Schema{Enum: []interface{}{nil}} },
			},
			{
				Name:  "identifier",
				Match: func(d Description) bool {
					return d.Lower == "id" || strings.HasSuffix(d.Lower, "_id") || strings.HasSuffix(d.Lower, " id")
				},
				Build: func(text string) *openrpc.Schema { return &openrpc.Schema{Type: "integer", Title: text} },
			},
			{
				Name:  "empty array",
				Match: func(d Description) bool { return d.Contains("empty array", "empty list") || d.Lower == "[]" },
				Build: func(string) *openrpc.Schema {
					zero := 0
					return &openrpc.Schema{Type: "array", MaxItems: &zero}
				},
			},
			{
				Name:  "empty string",
				Match: func(d Description) bool { return d.Contains("empty string") || d.Lower == `""` },
				Build: func(string) *openrpc.Schema { return &openrpc.Schema{Enum: []interface{}{""}} },
			},
			{
				Name:  "list of",
				Match: func(d Description) bool { return strings.HasPrefix(d.Lower, "list of") },
				Build: func(text string) *openrpc.Schema { return &openrpc.Schema{Type: "array", Title: text} },
			},
			{
				Name:  "dict",
				Match: func(d Description) bool { return strings.HasPrefix(d.Lower, "dict") },
				Build: func(text string) *openrpc.Schema { return &openrpc.Schema{Type: "object", Title: text} },
			},
			{
				Name:  "string",
				Match: func(d Description) bool { return d.Contains("string") },
				Build: func(text string) *openrpc.Schema { return &openrpc.Schema{Type: "string", Title: text} },
			},
		},
	}
}

// ParamType implements Strategy.
func (r *Rules) ParamType(desc string) (ParamType, bool) {
	if rule, ok := r.MatchParam(desc); ok {
		return rule.Type, true
	}
	return Unknown, false
}

// MatchParam returns the first parameter rule matching desc.
func (r *Rules) MatchParam(desc string) (ParamRule, bool) {
	d := NewDescription(desc)
	for _, rule := range r.Params {
		if rule.Match(d) {
			return rule, true
		}
	}
	return ParamRule{}, false
}

// ResultSchema implements Strategy. Unmatched text yields a schema titled
// with the text and marked unresolved.
func (r *Rules) ResultSchema(desc string) (*openrpc.Schema, bool) {
	d := NewDescription(desc)
	if rule, ok := r.MatchResult(desc); ok {
		return rule.Build(d.Text), true
	}
	return &openrpc.Schema{Title: d.Text, Unresolved: true}, false
}

// MatchResult returns the first result rule matching desc.
func (r *Rules) MatchResult(desc string) (ResultRule, bool) {
	d := NewDescription(desc)
	for _, rule := range r.Results {
		if rule.Match(d) {
			return rule, true
		}
	}
	return ResultRule{}, false
}

// IsOptional reports whether a parameter description marks it optional.
func IsOptional(desc string) bool {
	return strings.Contains(strings.ToLower(desc), "optional")
}
