package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	govalidator "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
)

var (
	structValidator *govalidator.Validate
	validatorOnce   sync.Once
)

func getValidator() *govalidator.Validate {
	validatorOnce.Do(func() {
		structValidator = govalidator.New()
	})
	return structValidator
}

// Report summarizes a document that passed validation.
type Report struct {
	Methods    int
	Params     int
	Unresolved int
	Warnings   []string
}

// Parse decodes an OpenRPC document from YAML or JSON.
func Parse(data []byte) (*openrpc.Document, error) {
	var doc openrpc.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		// Try JSON
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse file as YAML or JSON: %w", err)
		}
	}
	return &doc, nil
}

// ValidateDocument checks the structure of doc. Structural problems are
// errors; questionable but legal content is returned as warnings.
func ValidateDocument(doc *openrpc.Document) (*Report, error) {
	if err := getValidator().Struct(doc); err != nil {
		var verrs govalidator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, ve := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", ve.Namespace(), ve.Tag()))
			}
			return nil, fmt.Errorf("basic validation failed: %s", strings.Join(msgs, "; "))
		}
		return nil, fmt.Errorf("basic validation failed: %w", err)
	}

	if !strings.HasPrefix(doc.OpenRPC, "1.") {
		return nil, fmt.Errorf("unsupported OpenRPC version: %s", doc.OpenRPC)
	}

	report := &Report{Methods: len(doc.Methods)}
	seen := make(map[string]bool, len(doc.Methods))
	for _, m := range doc.Methods {
		if seen[m.Name] {
			report.Warnings = append(report.Warnings, fmt.Sprintf("method %s is declared more than once", m.Name))
		}
		seen[m.Name] = true

		if err := validateMethod(m, report); err != nil {
			return nil, fmt.Errorf("method %s validation failed: %w", m.Name, err)
		}
	}
	return report, nil
}

func validateMethod(m openrpc.Method, report *Report) error {
	names := make(map[string]bool, len(m.Params))
	optionalSeen := false
	for _, p := range m.Params {
		if names[p.Name] {
			return fmt.Errorf("duplicate param %s", p.Name)
		}
		names[p.Name] = true
		report.Params++

		if !p.Required {
			optionalSeen = true
		} else if optionalSeen {
			report.Warnings = append(report.Warnings, fmt.Sprintf("method %s: required param %s follows an optional one", m.Name, p.Name))
		}
		if unresolved(p.Schema) {
			report.Unresolved++
		}
	}

	if unresolved(m.Result.Schema) {
		report.Unresolved++
		report.Warnings = append(report.Warnings, fmt.Sprintf("method %s has an unresolved result", m.Name))
	}
	return nil
}

func unresolved(s *openrpc.Schema) bool {
	if s == nil {
		return false
	}
	if s.Unresolved {
		return true
	}
	for _, b := range s.OneOf {
		if unresolved(b) {
			return true
		}
	}
	return unresolved(s.Items)
}

// ValidateFile validates the document stored in filename and prints a
// summary to w.
func ValidateFile(filename string, w io.Writer) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return err
	}

	report, err := ValidateDocument(doc)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "✓ OpenRPC version is valid")
	fmt.Fprintln(w, "✓ Info object is present")
	fmt.Fprintf(w, "✓ Found %d methods (%d params)\n", report.Methods, report.Params)
	if report.Unresolved > 0 {
		fmt.Fprintf(w, "  ⚠️  %d schemas are unresolved\n", report.Unresolved)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}

	fmt.Fprintln(w, "\n✅ OpenRPC document validation passed!")
	return nil
}
