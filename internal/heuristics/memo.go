package heuristics

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
)

type paramEntry struct {
	typ ParamType
	ok  bool
}

type resultEntry struct {
	schema *openrpc.Schema
	ok     bool
}

// Memo caches the answers of another Strategy. Documentation repeats the
// same phrases across hundreds of parameters, so lookups mostly hit. It is
// safe for concurrent use.
type Memo struct {
	next    Strategy
	params  *lru.Cache[string, paramEntry]
	results *lru.Cache[string, resultEntry]
}

var _ Strategy = (*Memo)(nil)

// NewMemo wraps next with LRU caches holding up to size entries each.
func NewMemo(next Strategy, size int) (*Memo, error) {
	params, err := lru.New[string, paramEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create param cache: %w", err)
	}
	results, err := lru.New[string, resultEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &Memo{next: next, params: params, results: results}, nil
}

// ParamType implements Strategy.
func (m *Memo) ParamType(desc string) (ParamType, bool) {
	if e, ok := m.params.Get(desc); ok {
		return e.typ, e.ok
	}
	typ, ok := m.next.ParamType(desc)
	m.params.Add(desc, paramEntry{typ: typ, ok: ok})
	return typ, ok
}

// ResultSchema implements Strategy. Callers receive their own copy of the
// cached schema.
func (m *Memo) ResultSchema(desc string) (*openrpc.Schema, bool) {
	if e, ok := m.results.Get(desc); ok {
		return e.schema.Clone(), e.ok
	}
	schema, ok := m.next.ResultSchema(desc)
	m.results.Add(desc, resultEntry{schema: schema.Clone(), ok: ok})
	return schema, ok
}

// Len reports the number of cached entries.
func (m *Memo) Len() int {
	return m.params.Len() + m.results.Len()
}
