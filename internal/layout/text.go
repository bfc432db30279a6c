package layout

import (
	"image/color"

	"slider/internal/theme"
)

// TextPartial is the smallest styled run of text.
type TextPartial struct {
	text    string
	face    Face
	color   color.RGBA
	width   float32
	height  float32
	offsetY float32
}

// NewTextPartial measures text once. Its height is the measured line height
// times lineHeight.
func NewTextPartial(m Measurer, text string, face Face, c color.RGBA, lineHeight float32) TextPartial {
	dim := m.Measure(text, face)
	return TextPartial{
		text:    text,
		face:    face,
		color:   c,
		width:   dim.Width,
		height:  dim.Height * lineHeight,
		offsetY: dim.OffsetY,
	}
}

func (p TextPartial) Text() string      { return p.text }
func (p TextPartial) Face() Face        { return p.face }
func (p TextPartial) Color() color.RGBA { return p.color }
func (p TextPartial) Width() float32    { return p.width }
func (p TextPartial) Height() float32   { return p.height }
func (p TextPartial) OffsetY() float32  { return p.offsetY }

func (p TextPartial) draw(c Canvas, hpos, vpos, offsetY float32) float32 {
	c.DrawText(p.text, hpos, vpos+offsetY, p.face, p.color)
	return hpos + p.width
}

// TextLine is a row of partials sharing a baseline.
type TextLine struct {
	width    float32
	height   float32
	offsetY  float32
	align    theme.Alignment
	partials []TextPartial
}

func NewTextLine(align theme.Alignment, partials []TextPartial) TextLine {
	l := TextLine{align: align.Normalize(), partials: partials}
	for _, p := range partials {
		l.width += p.width
		l.height = max(l.height, p.height)
		l.offsetY = max(l.offsetY, p.offsetY)
	}
	return l
}

func (l TextLine) Width() float32          { return l.width }
func (l TextLine) Height() float32         { return l.height }
func (l TextLine) OffsetY() float32        { return l.offsetY }
func (l TextLine) Align() theme.Alignment  { return l.align }
func (l TextLine) Partials() []TextPartial { return l.partials }

func (l TextLine) draw(c Canvas, hpos, vpos, offsetY float32) float32 {
	for _, p := range l.partials {
		hpos = p.draw(c, hpos, vpos, offsetY)
	}
	return vpos + l.height
}
