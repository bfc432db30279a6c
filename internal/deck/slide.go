package deck

import (
	"slider/internal/execcode"
	"slider/internal/layout"
	"slider/internal/markdown"
)

// Slide is one page of the deck: its source blocks, the boxes built from
// them and the outputs of code that was run on it.
type Slide struct {
	blocks     []markdown.Block
	boxes      []layout.DrawBox
	code       execcode.Code
	hasCode    bool
	outputs    []string
	background string
}

func newSlide(b *layout.Builder, blocks []markdown.Block) *Slide {
	s := &Slide{
		blocks:     blocks,
		background: backgroundOf(blocks),
	}
	s.code, s.hasCode = execcode.Find(blocks)
	s.rebuild(b)
	return s
}

func (s *Slide) Blocks() []markdown.Block { return s.blocks }
func (s *Slide) Boxes() []layout.DrawBox  { return s.boxes }
func (s *Slide) Outputs() []string        { return s.outputs }

// Code returns the first executable code block of the slide.
func (s *Slide) Code() (execcode.Code, bool) { return s.code, s.hasCode }

// Background is the path of the slide's own background image, if any.
func (s *Slide) Background() string { return s.background }

func (s *Slide) appendOutput(b *layout.Builder, out string) {
	s.outputs = append(s.outputs, out)
	s.boxes = append(s.boxes, b.CodeBox("", out))
}

func (s *Slide) rebuild(b *layout.Builder) {
	s.boxes = b.Boxes(s.blocks)
	for _, out := range s.outputs {
		s.boxes = append(s.boxes, b.CodeBox("", out))
	}
}

// backgroundOf finds a top-level ![background](path) paragraph.
func backgroundOf(blocks []markdown.Block) string {
	for _, block := range blocks {
		p, ok := block.(markdown.Paragraph)
		if !ok {
			continue
		}
		if img, ok := markdown.ImageOnly(p.Spans); ok && img.IsBackground() {
			return img.Dest
		}
	}
	return ""
}
