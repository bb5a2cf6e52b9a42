package stub

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/rpavlik/kanboard-documentation/internal/extractor"
)

const pyIndent = "    "

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

var pythonFile = template.Must(template.New("python").Parse(`# {{.Header}}

from typing import Any


class Client:
{{- range .Lines}}
{{.}}
{{- end}}
{{- if not .HasMethods}}
    pass
{{- end}}
`))

// Python renders a .pyi style Client class with keyword-only arguments.
type Python struct{}

var _ Dialect = Python{}

// Name implements Dialect.
func (Python) Name() string { return "python" }

// Declare implements extractor.Declarer.
func (Python) Declare(rec *extractor.MethodRecord) ([]string, error) {
	if rec.Identifier == "" {
		return nil, fmt.Errorf("method %q has no identifier", rec.OriginalName)
	}
	args := pythonArgs(rec.Parameters)
	link := pyIndent + "# " + rec.URL
	return []string{
		link,
		fmt.Sprintf("%sdef %s(%s): ...", pyIndent, rec.Identifier, args),
		link,
		fmt.Sprintf("%sasync def %s_async(%s): ...", pyIndent, rec.Identifier, args),
	}, nil
}

func pythonArgs(params []extractor.Parameter) string {
	if len(params) == 0 {
		return "self"
	}
	parts := []string{"self", "*"}
	for _, p := range params {
		name := p.Name
		if pythonKeywords[name] {
			name += "_"
		}
		if p.Optional {
			parts = append(parts, fmt.Sprintf("%s: %s | None = None", name, p.Type.PythonType()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", name, p.Type.PythonType()))
		}
	}
	return strings.Join(parts, ", ")
}

// Section implements Dialect.
func (Python) Section(key string) []string {
	return []string{"", pyIndent + "# " + key}
}

// Render implements Dialect.
func (Python) Render(lines []string) ([]byte, error) {
	hasMethods := false
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "def ") {
			hasMethods = true
			break
		}
	}

	var buf bytes.Buffer
	err := pythonFile.Execute(&buf, struct {
		Header     string
		Lines      []string
		HasMethods bool
	}{header, lines, hasMethods})
	if err != nil {
		return nil, fmt.Errorf("render python stubs: %w", err)
	}
	return buf.Bytes(), nil
}
