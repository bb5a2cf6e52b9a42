package extractor

import (
	"github.com/rpavlik/kanboard-documentation/internal/diag"
	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
)

// method converts a finalized record into its document form.
func (m *Machine) method(rec *MethodRecord) openrpc.Method {
	params := make([]openrpc.ContentDescriptor, 0, len(rec.Parameters))
	for _, p := range rec.Parameters {
		params = append(params, openrpc.ContentDescriptor{
			Name:     p.Name,
			Summary:  p.Description,
			Schema:   p.Type.Schema(),
			Required: !p.Optional,
		})
	}

	return openrpc.Method{
		Name:    rec.OriginalName,
		Summary: rec.Purpose,
		Tags:    []openrpc.Tag{{Name: m.key, Description: m.opts.Title}},
		Params:  params,
		Result: &openrpc.ContentDescriptor{
			Name:   "result",
			Schema: m.resultSchema(rec),
		},
		ExternalDocs: &openrpc.ExternalDocs{URL: rec.URL},
	}
}

// resultSchema resolves the documented result. A single Result: field
// takes precedence over a success/failure pair.
func (m *Machine) resultSchema(rec *MethodRecord) *openrpc.Schema {
	switch {
	case rec.HasResult:
		if rec.HasSuccess || rec.HasFailure {
			m.report(diag.Conflict, rec.Result, "both Result and Result on success/failure given, using Result")
		}
		return m.infer(rec.Result)

	case rec.HasSuccess || rec.HasFailure:
		var success, failure *openrpc.Schema
		if rec.HasSuccess {
			success = m.infer(rec.Success)
		}
		if rec.HasFailure {
			failure = m.infer(rec.Failure)
		}
		return openrpc.ResultUnion(success, failure)
	}

	m.report(diag.NoResult, "", "no result documented")
	return &openrpc.Schema{Unresolved: true}
}

func (m *Machine) infer(text string) *openrpc.Schema {
	schema, ok := m.opts.Strategy.ResultSchema(text)
	if !ok {
		m.report(diag.UnresolvedResult, text, "cannot infer result schema")
	}
	return schema
}
