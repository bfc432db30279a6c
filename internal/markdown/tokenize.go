package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	emojiast "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(
	goldmark.WithExtensions(emoji.Emoji),
)

// Tokenize parses Markdown into top-level blocks. Raw HTML, tables and other
// constructs the presenter cannot show are dropped.
func Tokenize(src string) []Block {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))
	return convertBlocks(doc, source)
}

func convertBlocks(parent ast.Node, src []byte) []Block {
	var blocks []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, Heading{Level: n.Level, Spans: convertSpans(n, src)})
		case *ast.Paragraph:
			blocks = append(blocks, Paragraph{Spans: convertSpans(n, src)})
		case *ast.TextBlock:
			blocks = append(blocks, Paragraph{Spans: convertSpans(n, src)})
		case *ast.List:
			blocks = append(blocks, convertList(n, src))
		case *ast.Blockquote:
			blocks = append(blocks, Blockquote{Blocks: convertBlocks(n, src)})
		case *ast.FencedCodeBlock:
			blocks = append(blocks, CodeBlock{
				Language: string(n.Language(src)),
				Code:     codeLines(n, src),
			})
		case *ast.CodeBlock:
			blocks = append(blocks, CodeBlock{Code: codeLines(n, src)})
		case *ast.ThematicBreak:
			blocks = append(blocks, Rule{})
		}
	}
	return blocks
}

func convertList(n *ast.List, src []byte) List {
	list := List{Ordered: n.IsOrdered(), Start: n.Start}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		var spans []Span
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.TextBlock, *ast.Paragraph:
				if len(spans) > 0 {
					spans = append(spans, Text{Text: " "})
				}
				spans = append(spans, convertSpans(c, src)...)
			}
		}
		list.Items = append(list.Items, ListItem{Spans: spans})
	}
	return list
}

func codeLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

func convertSpans(parent ast.Node, src []byte) []Span {
	var spans []Span
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			t := string(n.Segment.Value(src))
			if n.SoftLineBreak() {
				t += " "
			}
			if t != "" {
				spans = append(spans, Text{Text: t})
			}
			if n.HardLineBreak() {
				spans = append(spans, LineBreak{})
			}
		case *ast.String:
			spans = append(spans, Text{Text: string(n.Value)})
		case *ast.CodeSpan:
			spans = append(spans, Code{Text: plainText(n, src)})
		case *ast.Emphasis:
			if n.Level >= 2 {
				spans = append(spans, Strong{Spans: convertSpans(n, src)})
			} else {
				spans = append(spans, Emphasis{Spans: convertSpans(n, src)})
			}
		case *ast.Image:
			spans = append(spans, Image{
				Alt:   plainText(n, src),
				Dest:  string(n.Destination),
				Title: string(n.Title),
			})
		case *ast.Link:
			spans = append(spans, Link{Dest: string(n.Destination), Spans: convertSpans(n, src)})
		case *ast.AutoLink:
			spans = append(spans, Link{
				Dest:  string(n.URL(src)),
				Spans: []Span{Text{Text: string(n.Label(src))}},
			})
		case *emojiast.Emoji:
			if n.Value != nil {
				spans = append(spans, Text{Text: string(n.Value.Unicode)})
			}
		}
	}
	return spans
}

// plainText concatenates the text content below n.
func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
			if c.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		default:
			sb.WriteString(plainText(c, src))
		}
	}
	return sb.String()
}
