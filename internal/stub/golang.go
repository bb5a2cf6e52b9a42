package stub

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"

	"github.com/dave/jennifer/jen"
	"github.com/iancoleman/strcase"

	"github.com/rpavlik/kanboard-documentation/internal/extractor"
	"github.com/rpavlik/kanboard-documentation/internal/heuristics"
)

var goFile = template.Must(template.New("go").Parse(`// {{.Header}}

package {{.Package}}

import (
{{- if .HasMethods}}
	"context"
{{- end}}
	"encoding/json"
)

// CallResult is delivered by the asynchronous call forms.
type CallResult struct {
	Result json.RawMessage
	Err    error
}

// Client declares every documented procedure.
type Client interface {
{{- range .Lines}}
{{.}}
{{- end}}
}
`))

// Go renders a Client interface with context-first methods returning the
// raw JSON result.
type Go struct {
	Package string
}

var _ Dialect = Go{}

// Name implements Dialect.
func (Go) Name() string { return "go" }

// Declare implements extractor.Declarer.
func (g Go) Declare(rec *extractor.MethodRecord) ([]string, error) {
	if rec.Identifier == "" {
		return nil, fmt.Errorf("method %q has no identifier", rec.OriginalName)
	}
	name := strcase.ToCamel(rec.Identifier)

	params := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	for _, p := range rec.Parameters {
		params = append(params, jen.Id(goParamName(p.Name)).Add(goType(p.Type, p.Optional)))
	}

	// Render inside a throwaway interface so the output is valid source
	// for the formatter, then keep only the method lines.
	decl := jen.Type().Id("_").Interface(
		jen.Comment(rec.URL),
		jen.Id(name).Params(params...).Params(jen.Qual("encoding/json", "RawMessage"), jen.Error()),
		jen.Comment(rec.URL),
		jen.Id(name+"Async").Params(params...).Op("<-chan").Id("CallResult"),
	)
	lines := strings.Split(strings.TrimSpace(fmt.Sprintf("%#v", decl)), "\n")
	if len(lines) < 3 {
		return nil, fmt.Errorf("render %s: unexpected output", name)
	}
	return lines[1 : len(lines)-1], nil
}

func goParamName(name string) string {
	id := strcase.ToLowerCamel(name)
	if token.IsKeyword(id) || id == "ctx" {
		id += "_"
	}
	return id
}

func goType(t heuristics.ParamType, optional bool) *jen.Statement {
	switch t {
	case heuristics.String:
		return pointerIf(optional, jen.String())
	case heuristics.Integer:
		return pointerIf(optional, jen.Int())
	case heuristics.Boolean:
		return pointerIf(optional, jen.Bool())
	case heuristics.Object:
		return jen.Map(jen.String()).Interface()
	case heuristics.Array:
		return jen.Index().Interface()
	case heuristics.ListOfStrings:
		return jen.Index().String()
	}
	return jen.Interface()
}

func pointerIf(optional bool, t *jen.Statement) *jen.Statement {
	if optional {
		return jen.Op("*").Add(t)
	}
	return t
}

// Section implements Dialect.
func (Go) Section(key string) []string {
	return []string{"", "\t// " + key}
}

// Render implements Dialect.
func (g Go) Render(lines []string) ([]byte, error) {
	hasMethods := false
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t != "" && !strings.HasPrefix(t, "//") {
			hasMethods = true
			break
		}
	}

	var buf bytes.Buffer
	err := goFile.Execute(&buf, struct {
		Header     string
		Package    string
		Lines      []string
		HasMethods bool
	}{header, g.Package, lines, hasMethods})
	if err != nil {
		return nil, fmt.Errorf("render go stubs: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format go stubs: %w", err)
	}
	return src, nil
}
