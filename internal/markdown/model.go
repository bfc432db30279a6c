// Package markdown turns Markdown text into the block and span model the
// layout engine consumes.
package markdown

import "strings"

// Block is a block-level element of a document.
type Block interface {
	block()
}

// Span is an inline element inside a block.
type Span interface {
	span()
}

type Heading struct {
	Level int
	Spans []Span
}

type Paragraph struct {
	Spans []Span
}

// List is an ordered or unordered list. Only the inline content of each item
// is kept; nested lists are flattened away.
type List struct {
	Ordered bool
	Start   int
	Items   []ListItem
}

type ListItem struct {
	Spans []Span
}

type Blockquote struct {
	Blocks []Block
}

// CodeBlock is a fenced or indented code block. Language is the first word
// of the fence info string, empty when absent.
type CodeBlock struct {
	Language string
	Code     string
}

// Rule is a horizontal rule; it separates slides.
type Rule struct{}

func (Heading) block()    {}
func (Paragraph) block()  {}
func (List) block()       {}
func (Blockquote) block() {}
func (CodeBlock) block()  {}
func (Rule) block()       {}

type Text struct {
	Text string
}

type Code struct {
	Text string
}

type Emphasis struct {
	Spans []Span
}

type Strong struct {
	Spans []Span
}

type Image struct {
	Alt   string
	Dest  string
	Title string
}

// IsBackground reports whether the image sets the slide background instead
// of being shown inline: its alt text is "background".
func (i Image) IsBackground() bool {
	return strings.EqualFold(strings.TrimSpace(i.Alt), "background")
}

type Link struct {
	Dest  string
	Spans []Span
}

// LineBreak is a hard line break inside a paragraph.
type LineBreak struct{}

func (Text) span()      {}
func (Code) span()      {}
func (Emphasis) span()  {}
func (Strong) span()    {}
func (Image) span()     {}
func (Link) span()      {}
func (LineBreak) span() {}

// ImageOnly reports whether the spans are a single image reference,
// ignoring surrounding whitespace.
func ImageOnly(spans []Span) (Image, bool) {
	var img Image
	found := false
	for _, s := range spans {
		switch s := s.(type) {
		case Image:
			if found {
				return Image{}, false
			}
			img, found = s, true
		case Text:
			if !isBlank(s.Text) {
				return Image{}, false
			}
		default:
			return Image{}, false
		}
	}
	return img, found
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
