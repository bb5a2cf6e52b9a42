package validator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
)

func validDocument() *openrpc.Document {
	doc := openrpc.NewDocument("Kanboard API", "1.0.0", "")
	doc.Methods = append(doc.Methods,
		openrpc.Method{
			Name: "createTask",
			Params: []openrpc.ContentDescriptor{
				{Name: "project_id", Schema: &openrpc.Schema{Type: "integer"}, Required: true},
				{Name: "color_id", Schema: &openrpc.Schema{Type: "string"}},
			},
			Result: &openrpc.ContentDescriptor{Name: "result", Schema: &openrpc.Schema{Type: "integer"}},
			ExternalDocs: &openrpc.ExternalDocs{
				URL: "https://docs.kanboard.org/v1/api/task_procedures/#createtask",
			},
		},
		openrpc.Method{
			Name:   "getVersion",
			Params: []openrpc.ContentDescriptor{},
			Result: &openrpc.ContentDescriptor{Name: "result", Schema: &openrpc.Schema{Title: "?", Unresolved: true}},
		},
	)
	return doc
}

func TestValidateDocument(t *testing.T) {
	report, err := ValidateDocument(validDocument())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Methods)
	assert.Equal(t, 2, report.Params)
	assert.Equal(t, 1, report.Unresolved)
	assert.Equal(t, []string{"method getVersion has an unresolved result"}, report.Warnings)
}

func TestValidateDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*openrpc.Document)
		wantErr string
	}{
		{"missing version", func(d *openrpc.Document) { d.OpenRPC = "" }, "OpenRPC"},
		{"wrong major", func(d *openrpc.Document) { d.OpenRPC = "2.0.0" }, "unsupported OpenRPC version"},
		{"missing title", func(d *openrpc.Document) { d.Info.Title = "" }, "Title"},
		{"missing result", func(d *openrpc.Document) { d.Methods[0].Result = nil }, "Result"},
		{"bad docs url", func(d *openrpc.Document) { d.Methods[0].ExternalDocs.URL = "nope" }, "URL"},
		{"duplicate param", func(d *openrpc.Document) {
			d.Methods[0].Params[1].Name = "project_id"
		}, "duplicate param project_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)
			_, err := ValidateDocument(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDocumentWarnings(t *testing.T) {
	doc := validDocument()
	doc.Methods = append(doc.Methods, doc.Methods[0])
	doc.Methods[0].Params = []openrpc.ContentDescriptor{
		{Name: "color_id", Schema: &openrpc.Schema{Type: "string"}},
		{Name: "project_id", Schema: &openrpc.Schema{Type: "integer"}, Required: true},
	}

	report, err := ValidateDocument(doc)
	require.NoError(t, err)
	assert.Contains(t, report.Warnings, "method createTask: required param project_id follows an optional one")
	assert.Contains(t, report.Warnings, "method createTask is declared more than once")
}

func TestUnresolvedNested(t *testing.T) {
	assert.False(t, unresolved(nil))
	assert.False(t, unresolved(&openrpc.Schema{Type: "string"}))
	assert.True(t, unresolved(&openrpc.Schema{OneOf: []*openrpc.Schema{
		{Type: "boolean"},
		{Unresolved: true},
	}}))
	assert.True(t, unresolved(&openrpc.Schema{Type: "array", Items: &openrpc.Schema{Unresolved: true}}))
}

func TestValidateFile(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			data, err := openrpc.Marshal(validDocument(), format)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "openrpc."+format)
			require.NoError(t, os.WriteFile(path, data, 0644))

			var out bytes.Buffer
			require.NoError(t, ValidateFile(path, &out))
			assert.Contains(t, out.String(), "✓ Found 2 methods (2 params)")
			assert.Contains(t, out.String(), "1 schemas are unresolved")
			assert.Contains(t, out.String(), "validation passed")
		})
	}
}

func TestValidateFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := ValidateFile(filepath.Join(dir, "missing.json"), &bytes.Buffer{})
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not: [valid"), 0644))
	err = ValidateFile(bad, &bytes.Buffer{})
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("{}"), 0644))
	err = ValidateFile(empty, &bytes.Buffer{})
	assert.Error(t, err)
}
