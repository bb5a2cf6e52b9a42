package extractor

import (
	"fmt"

	"github.com/rpavlik/kanboard-documentation/internal/diag"
	"github.com/rpavlik/kanboard-documentation/internal/heuristics"
	"github.com/rpavlik/kanboard-documentation/internal/markdown"
	"github.com/rpavlik/kanboard-documentation/internal/naming"
	"github.com/rpavlik/kanboard-documentation/internal/openrpc"
)

// Options configures a Machine.
type Options struct {
	BaseURL  string
	Title    string // document title, used as the tag description
	Caser    naming.Caser
	Strategy heuristics.Strategy
	Declarer Declarer
}

type handler func(m *Machine, tok markdown.Token) error

type transitions struct {
	on map[markdown.TokenType]handler
	// otherwise handles any token type missing from on.
	otherwise handler
}

var table = map[State]transitions{
	Normal: {
		on: map[markdown.TokenType]handler{
			markdown.HeadingOpen:      (*Machine).beginHeading,
			markdown.Inline:           (*Machine).label,
			markdown.BulletListOpen:   (*Machine).openList,
			markdown.OrderedListOpen:  (*Machine).openList,
			markdown.BulletListClose:  (*Machine).closeList,
			markdown.OrderedListClose: (*Machine).closeOrderedList,
		},
		otherwise: (*Machine).drop,
	},
	InHeading: {
		on: map[markdown.TokenType]handler{
			markdown.HeadingClose: (*Machine).endHeading,
		},
		otherwise: (*Machine).headingText,
	},
	ExpectParamList: {
		on: map[markdown.TokenType]handler{
			markdown.BulletListOpen:  (*Machine).openParamList,
			markdown.OrderedListOpen: (*Machine).openParamList,
			markdown.HeadingOpen:     (*Machine).abandonParamList,
		},
		otherwise: (*Machine).drop,
	},
	InParamList: {
		on: map[markdown.TokenType]handler{
			markdown.Inline:           (*Machine).paramItem,
			markdown.BulletListOpen:   (*Machine).nestList,
			markdown.OrderedListOpen:  (*Machine).nestList,
			markdown.BulletListClose:  (*Machine).unnestList,
			markdown.OrderedListClose: (*Machine).unnestList,
		},
		otherwise: (*Machine).drop,
	},
}

// pending accumulates the fields of the method under the current heading.
type pending struct {
	rec      MethodRecord
	heading  bool
	fields   int
	noParams bool
	seen     map[string]bool
}

func (p *pending) resetFields() {
	name, ident, url := p.rec.OriginalName, p.rec.Identifier, p.rec.URL
	p.rec = MethodRecord{OriginalName: name, Identifier: ident, URL: url}
	p.fields = 0
	p.noParams = false
	p.seen = map[string]bool{}
}

// Machine extracts methods from the token stream of a single document. A
// Machine is not safe for concurrent use; create one per document.
type Machine struct {
	key   string
	opts  Options
	state State
	depth int
	// lists counts the lists open in Normal. Only the outermost bullet list
	// finalizes a method.
	lists int
	cur   pending
	res   Result
	err   error
}

// New creates a machine for the document identified by key.
func New(key string, opts Options) *Machine {
	if opts.Caser == nil {
		opts.Caser = naming.SnakeCaser{}
	}
	if opts.Strategy == nil {
		opts.Strategy = heuristics.Default()
	}
	if opts.Declarer == nil {
		opts.Declarer = noDeclarer{}
	}
	return &Machine{
		key:  key,
		opts: opts,
		cur:  pending{seen: map[string]bool{}},
		res: Result{
			Key:       key,
			Title:     opts.Title,
			StubLines: []string{},
			Records:   []MethodRecord{},
			Methods:   []openrpc.Method{},
		},
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Feed consumes one token. Once a token fails, every later call returns the
// same error.
func (m *Machine) Feed(tok markdown.Token) error {
	if m.err != nil {
		return m.err
	}
	t := table[m.state]
	h, ok := t.on[tok.Type]
	if !ok {
		h = t.otherwise
	}
	if err := h(m, tok); err != nil {
		m.err = err
	}
	return m.err
}

// Close ends the document and returns its result. Fields of a method that
// never reached its closing list are reported and discarded.
func (m *Machine) Close() (*Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	switch {
	case m.state == ExpectParamList:
		m.report(diag.MissingParamList, "", "parameter label not followed by a list")
	case m.cur.heading && m.cur.fields > 0:
		m.report(diag.Unfinalized, "", "method fields never closed by a list end")
	}
	res := m.res
	return &res, nil
}

// Run feeds every token and closes the machine.
func Run(key string, opts Options, tokens []markdown.Token) (*Result, error) {
	m := New(key, opts)
	for _, tok := range tokens {
		if err := m.Feed(tok); err != nil {
			return nil, err
		}
	}
	return m.Close()
}

func (m *Machine) drop(markdown.Token) error {
	m.res.Dropped++
	return nil
}

func (m *Machine) beginHeading(markdown.Token) error {
	if m.cur.heading && m.cur.fields > 0 {
		m.report(diag.Unfinalized, "", "method fields never closed by a list end")
	} else if !m.cur.heading && m.cur.fields > 0 {
		m.report(diag.Orphan, "", "labeled fields outside of any method heading")
	}
	m.cur.resetFields()
	m.lists = 0
	m.state = InHeading
	return nil
}

func (m *Machine) headingText(tok markdown.Token) error {
	text := tok.PlainText()
	if text == "" {
		return m.drop(tok)
	}
	m.cur.rec.OriginalName = text
	m.cur.rec.Identifier = m.opts.Caser.Identifier(text)
	m.cur.rec.URL = naming.DocURL(m.opts.BaseURL, m.key, text)
	m.cur.heading = true
	return nil
}

func (m *Machine) endHeading(markdown.Token) error {
	m.state = Normal
	return nil
}

func (m *Machine) openParamList(markdown.Token) error {
	m.cur.rec.Parameters = nil
	m.cur.seen = map[string]bool{}
	m.depth = 0
	m.state = InParamList
	return nil
}

func (m *Machine) abandonParamList(tok markdown.Token) error {
	m.report(diag.MissingParamList, "", "parameter label not followed by a list")
	m.cur.fields = 0
	m.state = Normal
	return m.beginHeading(tok)
}

func (m *Machine) nestList(markdown.Token) error {
	m.depth++
	return nil
}

func (m *Machine) unnestList(markdown.Token) error {
	if m.depth == 0 {
		m.state = Normal
		return nil
	}
	m.depth--
	return nil
}

func (m *Machine) paramItem(tok markdown.Token) error {
	if m.depth > 0 {
		return nil
	}
	m.addParam(spans(tok))
	return nil
}

func (m *Machine) openList(markdown.Token) error {
	m.lists++
	return nil
}

func (m *Machine) closeOrderedList(tok markdown.Token) error {
	if m.lists == 0 {
		return m.drop(tok)
	}
	m.lists--
	return nil
}

// closeList finalizes the pending method when the outermost list closes.
// Lists nested under a field, such as the items describing
// "Result on success:", only unwind.
func (m *Machine) closeList(markdown.Token) error {
	if m.lists > 1 {
		m.lists--
		return nil
	}
	m.lists = 0
	if m.cur.fields == 0 {
		return nil
	}
	if !m.cur.heading {
		m.report(diag.Orphan, "", "labeled fields outside of any method heading")
		m.cur.resetFields()
		return nil
	}
	return m.finalize()
}

func (m *Machine) finalize() error {
	rec := m.cur.rec
	if rec.Parameters == nil || m.cur.noParams {
		rec.Parameters = []Parameter{}
	}

	lines, err := m.opts.Declarer.Declare(&rec)
	if err != nil {
		return fmt.Errorf("%s: %s: declare: %w", m.key, rec.OriginalName, err)
	}

	m.res.StubLines = append(m.res.StubLines, lines...)
	m.res.Records = append(m.res.Records, rec)
	m.res.Methods = append(m.res.Methods, m.method(&rec))

	// The next method needs its own heading.
	m.cur = pending{seen: map[string]bool{}}
	return nil
}

func (m *Machine) report(kind diag.Kind, text, msg string) {
	m.res.Diagnostics = append(m.res.Diagnostics, diag.Diagnostic{
		Document: m.key,
		Method:   m.cur.rec.OriginalName,
		Kind:     kind,
		Text:     text,
		Message:  msg,
	})
}
