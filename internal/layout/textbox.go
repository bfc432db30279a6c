package layout

import (
	"image/color"

	"slider/internal/theme"
)

// BoxPadding is the padding around the content of text and image boxes.
const BoxPadding float32 = 20

// StyleKind tags how a text box is positioned and decorated.
type StyleKind int

const (
	StyleStandard StyleKind = iota
	StyleTitle
	StyleBlockquote
	StyleCode
)

func (k StyleKind) String() string {
	switch k {
	case StyleTitle:
		return "title"
	case StyleBlockquote:
		return "blockquote"
	case StyleCode:
		return "code"
	default:
		return "standard"
	}
}

// Quote holds the decoration of a blockquote box.
type Quote struct {
	Face      Face
	Color     color.RGBA
	Left      string
	Right     string
	LeftWidth float32
}

// Style is a StyleKind plus the quote decoration for blockquotes.
type Style struct {
	Kind  StyleKind
	Quote *Quote
}

// TextBox is a padded block of text lines with an optional background.
type TextBox struct {
	width      float32
	height     float32
	margin     float32
	padding    float32
	offsetY    float32
	background *color.RGBA
	style      Style
	lines      []TextLine
}

// NewTextBox sizes the box from its lines: the widest line and the sum of
// line heights.
func NewTextBox(lines []TextLine, margin float32, background *color.RGBA, style Style, padding float32) *TextBox {
	tb := &TextBox{
		margin:     margin,
		padding:    padding,
		background: background,
		style:      style,
		lines:      lines,
	}
	for _, l := range lines {
		tb.width = max(tb.width, l.width)
		tb.offsetY = max(tb.offsetY, l.offsetY)
		tb.height += l.height
	}
	return tb
}

func (tb *TextBox) Width() float32          { return tb.width }
func (tb *TextBox) Height() float32         { return tb.height }
func (tb *TextBox) Margin() float32         { return tb.margin }
func (tb *TextBox) Padding() float32        { return tb.padding }
func (tb *TextBox) OffsetY() float32        { return tb.offsetY }
func (tb *TextBox) Style() Style            { return tb.style }
func (tb *TextBox) Lines() []TextLine       { return tb.lines }
func (tb *TextBox) Background() *color.RGBA { return tb.background }

func (tb *TextBox) WidthWithPadding() float32 {
	return tb.width + tb.padding*2
}

func (tb *TextBox) HeightWithPadding() float32 {
	return tb.height + tb.padding*2
}

func (tb *TextBox) HeightWithMargin() float32 {
	return tb.HeightWithPadding() + tb.margin
}

// LineOffset is the horizontal position of a line relative to the inner
// left edge of the box.
func (tb *TextBox) LineOffset(l TextLine) float32 {
	switch l.align {
	case theme.AlignLeft:
		return 0
	case theme.AlignRight:
		return tb.width - l.width
	default:
		return tb.width/2 - l.width/2
	}
}

// Top is the vertical position the box is drawn at when the cursor is at
// vpos. Title boxes ignore the cursor and center on the canvas.
func (tb *TextBox) Top(c Canvas, vpos float32) float32 {
	if tb.style.Kind != StyleTitle {
		return vpos
	}
	_, h := c.Size()
	return h/2 - tb.height/2 - tb.margin - tb.padding - tb.offsetY
}

func (tb *TextBox) Draw(c Canvas, hpos, vpos float32) float32 {
	vpos = tb.Top(c, vpos)
	if tb.background != nil {
		c.FillRect(hpos, vpos+tb.margin, tb.WidthWithPadding(), tb.HeightWithPadding(), *tb.background)
	}
	if tb.style.Kind == StyleBlockquote && tb.style.Quote != nil {
		tb.drawQuotes(c, hpos, vpos, tb.style.Quote)
	}
	inner := hpos + tb.padding
	y := vpos + tb.padding + tb.margin
	for _, l := range tb.lines {
		y = l.draw(c, inner+tb.LineOffset(l), y, tb.offsetY)
	}
	return vpos + tb.HeightWithMargin()
}

func (tb *TextBox) drawQuotes(c Canvas, hpos, vpos float32, q *Quote) {
	c.DrawText(q.Left, hpos-q.LeftWidth, vpos+q.Face.Size, q.Face, q.Color)
	c.DrawText(q.Right, hpos+tb.WidthWithPadding(), vpos+tb.HeightWithMargin(), q.Face, q.Color)
}

func (*TextBox) drawBox() {}
