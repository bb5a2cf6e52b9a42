// Package markdown turns documentation sources into the flat token stream
// consumed by the extractor.
package markdown

import "strings"

// TokenType tags a token. Values follow the markdown-it vocabulary so that
// streams stay readable when dumped.
type TokenType string

// Block tokens
const (
	HeadingOpen      TokenType = "heading_open"
	HeadingClose     TokenType = "heading_close"
	BulletListOpen   TokenType = "bullet_list_open"
	BulletListClose  TokenType = "bullet_list_close"
	OrderedListOpen  TokenType = "ordered_list_open"
	OrderedListClose TokenType = "ordered_list_close"
	ListItemOpen     TokenType = "list_item_open"
	ListItemClose    TokenType = "list_item_close"
	ParagraphOpen    TokenType = "paragraph_open"
	ParagraphClose   TokenType = "paragraph_close"
	BlockquoteOpen   TokenType = "blockquote_open"
	BlockquoteClose  TokenType = "blockquote_close"
	Inline           TokenType = "inline"
	Fence            TokenType = "fence"
	CodeBlock        TokenType = "code_block"
	HTMLBlock        TokenType = "html_block"
	HorizontalRule   TokenType = "hr"
)

// Inline child tokens
const (
	Text        TokenType = "text"
	CodeInline  TokenType = "code_inline"
	Softbreak   TokenType = "softbreak"
	Hardbreak   TokenType = "hardbreak"
	StrongOpen  TokenType = "strong_open"
	StrongClose TokenType = "strong_close"
	EmOpen      TokenType = "em_open"
	EmClose     TokenType = "em_close"
	LinkOpen    TokenType = "link_open"
	LinkClose   TokenType = "link_close"
	HTMLInline  TokenType = "html_inline"
)

// Token is one unit of the stream. Children is only populated for Inline
// tokens.
type Token struct {
	Type     TokenType
	Content  string
	Level    int    // heading level
	Info     string // fence info string or link destination
	Children []Token
}

// Runs groups adjacent text and code children into runs. Any other child
// (emphasis markers, links, line breaks) ends the current run. Runs are
// returned untrimmed and may be blank.
func (t Token) Runs() []string {
	var (
		runs []string
		cur  strings.Builder
		open bool
	)
	flush := func() {
		if open {
			runs = append(runs, cur.String())
			cur.Reset()
			open = false
		}
	}
	for _, c := range t.Children {
		switch c.Type {
		case Text, CodeInline:
			cur.WriteString(c.Content)
			open = true
		case Softbreak, Hardbreak:
			flush()
			runs = append(runs, " ")
		default:
			flush()
		}
	}
	flush()
	return runs
}

// PlainText concatenates the text and code children. It falls back to
// Content when the token has no children.
func (t Token) PlainText() string {
	if len(t.Children) == 0 {
		return strings.TrimSpace(t.Content)
	}
	return strings.TrimSpace(strings.Join(t.Runs(), ""))
}
