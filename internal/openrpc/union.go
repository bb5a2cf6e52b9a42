package openrpc

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Discriminator descriptions attached to result union branches.
const (
	OnSuccess = "on success"
	OnFailure = "on failure"
)

// ResultUnion combines the success and failure shapes of a result into a
// oneOf schema. Either side may be nil; a lone side is returned as that
// branch alone, still carrying its description. Both nil yields nil.
func ResultUnion(success, failure *Schema) *Schema {
	var branches []*Schema
	if success != nil {
		b := success.Clone()
		b.Description = OnSuccess
		branches = append(branches, b)
	}
	if failure != nil {
		b := failure.Clone()
		b.Description = OnFailure
		branches = append(branches, b)
	}

	switch len(branches) {
	case 0:
		return nil
	case 1:
		return branches[0]
	}
	return &Schema{OneOf: branches}
}

// Marshal encodes the document as json or yaml. JSON output is indented
// and newline terminated.
func Marshal(doc *Document, format string) ([]byte, error) {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
