// Package diag carries non-fatal findings about the documentation out of
// band from the generated artifacts.
package diag

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Kind classifies a diagnostic.
type Kind string

const (
	UnknownType      Kind = "unknown-type"
	UnresolvedResult Kind = "unresolved-result"
	NoResult         Kind = "no-result"
	Conflict         Kind = "conflict"
	DuplicateParam   Kind = "duplicate-param"
	Unfinalized      Kind = "unfinalized"
	MissingParamList Kind = "missing-param-list"
	Orphan           Kind = "orphan"
)

// Diagnostic is a single finding. Text holds the offending documentation
// fragment, if any.
type Diagnostic struct {
	Document string `json:"document"`
	Method   string `json:"method,omitempty"`
	Kind     Kind   `json:"kind"`
	Text     string `json:"text,omitempty"`
	Message  string `json:"message"`
}

func (d Diagnostic) String() string {
	where := d.Document
	if d.Method != "" {
		where += ": " + d.Method
	}
	s := fmt.Sprintf("%s: %s: %s", where, d.Kind, d.Message)
	if d.Text != "" {
		s += fmt.Sprintf(" (%q)", d.Text)
	}
	return s
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// LogReporter writes one line per diagnostic.
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter creates a reporter writing to w.
func NewLogReporter(w io.Writer) *LogReporter {
	return &LogReporter{logger: log.New(w, "warning: ", 0)}
}

// Report implements Reporter.
func (r *LogReporter) Report(d Diagnostic) {
	r.logger.Println(d.String())
}

// Collector keeps every diagnostic in memory.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report implements Reporter.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.items...)
}

// Kinds lists the kinds of the collected diagnostics in report order.
func (c *Collector) Kinds() []Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]Kind, len(c.items))
	for i, d := range c.items {
		kinds[i] = d.Kind
	}
	return kinds
}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Discard drops everything.
var Discard Reporter = discard{}
