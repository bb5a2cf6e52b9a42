// Package naming converts documentation headings into identifiers and link
// anchors.
package naming

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// Caser maps a human readable heading to an identifier.
type Caser interface {
	Identifier(heading string) string
}

// SnakeCaser produces snake_case identifiers, so "createTask" and
// "Create Task" both become "create_task".
type SnakeCaser struct{}

// Identifier implements Caser.
func (SnakeCaser) Identifier(heading string) string {
	return strcase.ToSnake(strings.TrimSpace(heading))
}

// CaserFunc adapts a plain function to Caser.
type CaserFunc func(string) string

// Identifier implements Caser.
func (f CaserFunc) Identifier(heading string) string { return f(heading) }

// Anchor lowercases a heading and replaces each run of whitespace with a
// single hyphen.
func Anchor(heading string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(heading), unicode.IsSpace), "-")
}

// DocURL builds the documentation link for a heading in the given document.
func DocURL(baseURL, key, heading string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key + "/#" + Anchor(heading)
}
