package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// FrontMatter holds the keys read from a leading YAML block.
type FrontMatter struct {
	Title string                 `yaml:"title"`
	Extra map[string]interface{} `yaml:",inline"`
}

// Tokenizer linearizes a CommonMark document into block and inline tokens.
type Tokenizer struct {
	md goldmark.Markdown
}

// NewTokenizer creates a tokenizer using a CommonMark parser.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{md: goldmark.New()}
}

// Tokenize strips front matter from src and returns the token stream of the
// remaining body.
func (tz *Tokenizer) Tokenize(src []byte) ([]Token, FrontMatter, error) {
	fm, body, err := SplitFrontMatter(src)
	if err != nil {
		return nil, fm, err
	}

	doc := tz.md.Parser().Parse(text.NewReader(body))

	var tokens []Token
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				tokens = append(tokens,
					Token{Type: HeadingOpen, Level: node.Level},
					inlineToken(node, body),
				)
				return ast.WalkSkipChildren, nil
			}
			tokens = append(tokens, Token{Type: HeadingClose, Level: node.Level})

		case *ast.Paragraph, *ast.TextBlock:
			if entering {
				tokens = append(tokens, Token{Type: ParagraphOpen}, inlineToken(node, body))
				return ast.WalkSkipChildren, nil
			}
			tokens = append(tokens, Token{Type: ParagraphClose})

		case *ast.List:
			open, closing := BulletListOpen, BulletListClose
			if node.IsOrdered() {
				open, closing = OrderedListOpen, OrderedListClose
			}
			if entering {
				tokens = append(tokens, Token{Type: open})
			} else {
				tokens = append(tokens, Token{Type: closing})
			}

		case *ast.ListItem:
			if entering {
				tokens = append(tokens, Token{Type: ListItemOpen})
			} else {
				tokens = append(tokens, Token{Type: ListItemClose})
			}

		case *ast.Blockquote:
			if entering {
				tokens = append(tokens, Token{Type: BlockquoteOpen})
			} else {
				tokens = append(tokens, Token{Type: BlockquoteClose})
			}

		case *ast.FencedCodeBlock:
			if entering {
				tokens = append(tokens, Token{
					Type:    Fence,
					Info:    string(node.Language(body)),
					Content: linesText(node, body),
				})
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if entering {
				tokens = append(tokens, Token{Type: CodeBlock, Content: linesText(node, body)})
			}
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock:
			if entering {
				tokens = append(tokens, Token{Type: HTMLBlock, Content: linesText(node, body)})
			}
			return ast.WalkSkipChildren, nil

		case *ast.ThematicBreak:
			if entering {
				tokens = append(tokens, Token{Type: HorizontalRule})
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fm, fmt.Errorf("walk document: %w", err)
	}

	return tokens, fm, nil
}

// SplitFrontMatter separates a leading `---` delimited YAML block from the
// document body. Documents without a closed block are returned unchanged.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter

	if !bytes.HasPrefix(src, []byte("---\n")) && !bytes.HasPrefix(src, []byte("---\r\n")) {
		return fm, src, nil
	}

	first := bytes.IndexByte(src, '\n') + 1
	pos := first
	for pos < len(src) {
		end := bytes.IndexByte(src[pos:], '\n')
		var line []byte
		next := len(src)
		if end < 0 {
			line = src[pos:]
		} else {
			line = src[pos : pos+end]
			next = pos + end + 1
		}
		trimmed := strings.TrimRight(string(line), "\r")
		if trimmed == "---" || trimmed == "..." {
			if err := yaml.Unmarshal(src[first:pos], &fm); err != nil {
				return fm, src, fmt.Errorf("parse front matter: %w", err)
			}
			return fm, src[next:], nil
		}
		pos = next
	}

	return fm, src, nil
}

func inlineToken(n ast.Node, src []byte) Token {
	return Token{
		Type:     Inline,
		Content:  strings.TrimSpace(linesText(n, src)),
		Children: appendInline(nil, n, src),
	}
}

func linesText(n ast.Node, src []byte) string {
	lines := n.Lines()
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}

func appendInline(dst []Token, n ast.Node, src []byte) []Token {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			dst = append(dst, Token{Type: Text, Content: string(node.Segment.Value(src))})
			if node.HardLineBreak() {
				dst = append(dst, Token{Type: Hardbreak})
			} else if node.SoftLineBreak() {
				dst = append(dst, Token{Type: Softbreak})
			}

		case *ast.String:
			dst = append(dst, Token{Type: Text, Content: string(node.Value)})

		case *ast.CodeSpan:
			dst = append(dst, Token{Type: CodeInline, Content: codeSpanText(node, src)})

		case *ast.Emphasis:
			open, closing := EmOpen, EmClose
			if node.Level >= 2 {
				open, closing = StrongOpen, StrongClose
			}
			dst = append(dst, Token{Type: open})
			dst = appendInline(dst, node, src)
			dst = append(dst, Token{Type: closing})

		case *ast.Link:
			dst = append(dst, Token{Type: LinkOpen, Info: string(node.Destination)})
			dst = appendInline(dst, node, src)
			dst = append(dst, Token{Type: LinkClose})

		case *ast.AutoLink:
			dst = append(dst,
				Token{Type: LinkOpen, Info: string(node.URL(src))},
				Token{Type: Text, Content: string(node.Label(src))},
				Token{Type: LinkClose},
			)

		case *ast.RawHTML:
			var b strings.Builder
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(src))
			}
			dst = append(dst, Token{Type: HTMLInline, Content: b.String()})

		default:
			dst = appendInline(dst, c, src)
		}
	}
	return dst
}

func codeSpanText(n *ast.CodeSpan, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}
