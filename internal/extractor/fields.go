package extractor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rpavlik/kanboard-documentation/internal/diag"
	"github.com/rpavlik/kanboard-documentation/internal/heuristics"
	"github.com/rpavlik/kanboard-documentation/internal/markdown"
)

// Field labels, matched at the start of an inline token.
const (
	labelParameters = "Parameters:"
	labelPurpose    = "Purpose:"
	labelResult     = "Result:"
	labelSuccess    = "Result on success:"
	labelFailure    = "Result on failure:"
)

const noneMarker = "none"

// label handles an inline token in Normal state.
func (m *Machine) label(tok markdown.Token) error {
	text := tok.PlainText()

	switch {
	case text == labelParameters:
		m.cur.fields++
		m.state = ExpectParamList

	case strings.HasPrefix(text, labelParameters):
		m.cur.fields++
		rest := strip(runs(tok), labelParameters)
		if len(rest) == 1 && strings.EqualFold(rest[0], noneMarker) {
			m.cur.noParams = true
			m.cur.rec.Parameters = []Parameter{}
			return nil
		}
		m.cur.rec.Parameters = nil
		m.cur.seen = map[string]bool{}
		m.addParam(rest)

	case strings.HasPrefix(text, labelSuccess):
		m.cur.rec.Success, m.cur.rec.HasSuccess = m.capture(tok, labelSuccess), true

	case strings.HasPrefix(text, labelFailure):
		m.cur.rec.Failure, m.cur.rec.HasFailure = m.capture(tok, labelFailure), true

	case strings.HasPrefix(text, labelResult):
		m.cur.rec.Result, m.cur.rec.HasResult = m.capture(tok, labelResult), true

	case strings.HasPrefix(text, labelPurpose):
		m.cur.fields++
		m.cur.rec.Purpose = value(tok, labelPurpose)

	default:
		return m.drop(tok)
	}
	return nil
}

// capture reads a result label. The value may be empty, for instance when
// the result is described by a nested list; inference then leaves it
// unresolved.
func (m *Machine) capture(tok markdown.Token, label string) string {
	m.cur.fields++
	return value(tok, label)
}

// value joins the runs of tok with the label removed from the run that
// starts with it.
func value(tok markdown.Token, label string) string {
	var b strings.Builder
	for _, r := range runs(tok) {
		if s := strings.TrimLeft(r, " \t"); strings.HasPrefix(s, label) {
			b.WriteString(s[len(label):])
			continue
		}
		b.WriteString(r)
	}
	return strings.TrimSpace(b.String())
}

// runs returns the text runs of tok, falling back to its content.
func runs(tok markdown.Token) []string {
	if len(tok.Children) == 0 {
		return []string{tok.Content}
	}
	return tok.Runs()
}

// spans returns the trimmed, non-empty runs of tok.
func spans(tok markdown.Token) []string {
	return nonEmpty(runs(tok))
}

// strip removes label from the run starting with it and returns the
// remaining non-empty spans.
func strip(rs []string, label string) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		if s := strings.TrimLeft(r, " \t"); strings.HasPrefix(s, label) {
			r = s[len(label):]
		}
		out = append(out, r)
	}
	return nonEmpty(out)
}

func nonEmpty(rs []string) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// addParam derives one parameter from the spans of a list item. The first
// span names the parameter; the rest describe its type.
func (m *Machine) addParam(sp []string) {
	if len(sp) == 0 || m.cur.noParams {
		return
	}

	name, rest := sp[0], sp[1:]
	if len(sp) == 1 {
		if i := strings.IndexFunc(name, unicode.IsSpace); i >= 0 {
			name, rest = name[:i], []string{name[i+1:]}
		}
	}
	name = strings.TrimRight(name, ":,-")
	if name == "" {
		return
	}

	if strings.EqualFold(name, noneMarker) {
		m.cur.noParams = true
		m.cur.rec.Parameters = []Parameter{}
		return
	}

	if m.cur.seen[name] {
		m.report(diag.DuplicateParam, name, "parameter declared more than once, keeping the first")
		return
	}
	m.cur.seen[name] = true

	desc := strings.TrimSpace(strings.TrimLeft(strings.Join(rest, " "), "-–—: \t"))

	typ, ok := m.opts.Strategy.ParamType(desc)
	if !ok {
		m.report(diag.UnknownType, desc, fmt.Sprintf("cannot infer type of parameter %s", name))
	}

	m.cur.rec.Parameters = append(m.cur.rec.Parameters, Parameter{
		Name:        name,
		Type:        typ,
		Optional:    heuristics.IsOptional(desc),
		Description: desc,
	})
}
