// Package openrpc models the structured API description emitted for the
// documented procedures.
package openrpc

// Version is the OpenRPC revision the documents declare.
const Version = "1.2.6"

// Document represents an OpenRPC document
type Document struct {
	OpenRPC string   `json:"openrpc" yaml:"openrpc" validate:"required,semver"`
	Info    Info     `json:"info" yaml:"info"`
	Methods []Method `json:"methods" yaml:"methods" validate:"dive"`
}

// Info represents the info object
type Info struct {
	Title       string `json:"title" yaml:"title" validate:"required"`
	Version     string `json:"version" yaml:"version" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Tag groups methods by the document they were read from
type Tag struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ExternalDocs links a method back to its documentation section
type ExternalDocs struct {
	URL string `json:"url" yaml:"url" validate:"required,url"`
}

// Method represents one remote procedure
type Method struct {
	Name         string              `json:"name" yaml:"name" validate:"required"`
	Summary      string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tags         []Tag               `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive"`
	Params       []ContentDescriptor `json:"params" yaml:"params" validate:"dive"`
	Result       *ContentDescriptor  `json:"result" yaml:"result" validate:"required"`
	ExternalDocs *ExternalDocs       `json:"externalDocs,omitempty" yaml:"externalDocs,omitempty"`
}

// ContentDescriptor describes a parameter or a result
type ContentDescriptor struct {
	Name     string  `json:"name" yaml:"name" validate:"required"`
	Summary  string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Schema   *Schema `json:"schema" yaml:"schema" validate:"required"`
	Required bool    `json:"required,omitempty" yaml:"required,omitempty"`
}

// Schema is the subset of JSON Schema the inference rules produce
type Schema struct {
	Title       string        `json:"title,omitempty" yaml:"title,omitempty"`
	Type        string        `json:"type,omitempty" yaml:"type,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Items       *Schema       `json:"items,omitempty" yaml:"items,omitempty"`
	Enum        []interface{} `json:"enum,omitempty" yaml:"enum,omitempty"`
	MaxItems    *int          `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	OneOf       []*Schema     `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`

	// Unresolved marks a schema whose text matched no inference rule.
	Unresolved bool `json:"x-unresolved,omitempty" yaml:"x-unresolved,omitempty"`
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Items != nil {
		c.Items = s.Items.Clone()
	}
	if s.Enum != nil {
		c.Enum = append([]interface{}(nil), s.Enum...)
	}
	if s.MaxItems != nil {
		n := *s.MaxItems
		c.MaxItems = &n
	}
	if s.OneOf != nil {
		c.OneOf = make([]*Schema, len(s.OneOf))
		for i, b := range s.OneOf {
			c.OneOf[i] = b.Clone()
		}
	}
	return &c
}

// NewDocument creates an empty document with the given metadata.
func NewDocument(title, version, description string) *Document {
	return &Document{
		OpenRPC: Version,
		Info: Info{
			Title:       title,
			Version:     version,
			Description: description,
		},
		Methods: []Method{},
	}
}
