// Package extractor walks the token stream of one procedures document and
// turns each documented method into stub declarations and a structured
// method record.
package extractor

import (
	"github.com/rpavlik/kanboard-documentation/internal/diag"
	"github.com/rpavlik/kanboard-documentation/internal/heuristics"
	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
)

// State of the extraction machine.
type State int

const (
	Normal State = iota
	InHeading
	ExpectParamList
	InParamList
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case InHeading:
		return "in-heading"
	case ExpectParamList:
		return "expect-param-list"
	case InParamList:
		return "in-param-list"
	}
	return "unknown"
}

// Parameter is one documented argument of a method.
type Parameter struct {
	Name        string               `json:"name"`
	Type        heuristics.ParamType `json:"type"`
	Optional    bool                 `json:"optional,omitempty"`
	Description string               `json:"description,omitempty"`
}

// MethodRecord holds everything collected for one method heading.
type MethodRecord struct {
	OriginalName string      `json:"original_name"`
	Identifier   string      `json:"identifier"`
	URL          string      `json:"url"`
	Purpose      string      `json:"purpose,omitempty"`
	Parameters   []Parameter `json:"parameters"`

	Result  string `json:"result,omitempty"`
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`

	HasResult  bool `json:"has_result,omitempty"`
	HasSuccess bool `json:"has_success,omitempty"`
	HasFailure bool `json:"has_failure,omitempty"`
}

// Result is the output of one document.
type Result struct {
	Key         string            `json:"key"`
	Title       string            `json:"title,omitempty"`
	StubLines   []string          `json:"stub_lines"`
	Records     []MethodRecord    `json:"records"`
	Methods     []openrpc.Method  `json:"methods"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`

	// Dropped counts tokens that had no transition in the state they
	// arrived in.
	Dropped int `json:"dropped"`
}

// Declarer renders the stub declarations for a finalized method.
type Declarer interface {
	Declare(rec *MethodRecord) ([]string, error)
}

// DeclarerFunc adapts a function to Declarer.
type DeclarerFunc func(rec *MethodRecord) ([]string, error)

// Declare implements Declarer.
func (f DeclarerFunc) Declare(rec *MethodRecord) ([]string, error) { return f(rec) }

type noDeclarer struct{}

func (noDeclarer) Declare(*MethodRecord) ([]string, error) { return nil, nil }
