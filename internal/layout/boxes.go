package layout

import (
	"image"
	"image/color"
)

// DrawBox is a sized unit of slide content. The implementations are
// *TextBox, *CodeBox and *ImageBox.
type DrawBox interface {
	WidthWithPadding() float32
	HeightWithPadding() float32
	HeightWithMargin() float32
	// Draw renders the box with its top-left corner at (hpos, vpos) and
	// returns the vertical cursor for the next box.
	Draw(c Canvas, hpos, vpos float32) float32

	drawBox()
}

var (
	_ DrawBox = (*TextBox)(nil)
	_ DrawBox = (*CodeBox)(nil)
	_ DrawBox = (*ImageBox)(nil)
)

const (
	titleBarHeight float32 = 30
	circleDistance float32 = 10
	circleRadius   float32 = 8
)

var (
	titleBarColor = color.RGBA{246, 245, 245, 255}

	chromeCircles = []struct{ fill, outline color.RGBA }{
		{color.RGBA{254, 95, 88, 255}, color.RGBA{220, 58, 55, 255}},
		{color.RGBA{254, 188, 44, 255}, color.RGBA{220, 151, 28, 255}},
		{color.RGBA{40, 200, 64, 255}, color.RGBA{27, 163, 39, 255}},
	}
)

// CodeBox is a code text box inside a window-like frame with a title bar.
type CodeBox struct {
	width      float32
	height     float32
	margin     float32
	background *color.RGBA
	text       *TextBox
}

func NewCodeBox(text *TextBox, margin float32, background *color.RGBA) *CodeBox {
	return &CodeBox{
		width:      text.WidthWithPadding(),
		height:     text.HeightWithMargin(),
		margin:     margin,
		background: background,
		text:       text,
	}
}

func (cb *CodeBox) TextBox() *TextBox { return cb.text }
func (cb *CodeBox) Margin() float32   { return cb.margin }

func (cb *CodeBox) WidthWithPadding() float32 {
	return cb.width
}

// HeightWithPadding includes the title bar.
func (cb *CodeBox) HeightWithPadding() float32 {
	return cb.height + titleBarHeight
}

// HeightWithMargin includes the margin above and below the frame.
func (cb *CodeBox) HeightWithMargin() float32 {
	return cb.HeightWithPadding() + cb.margin*2
}

func (cb *CodeBox) Draw(c Canvas, hpos, vpos float32) float32 {
	top := vpos + cb.margin
	bar := titleBarColor
	if cb.background != nil {
		bar = *cb.background
	}
	c.FillRect(hpos, top, cb.width, cb.HeightWithPadding(), bar)
	cy := top + titleBarHeight/2
	for i, col := range chromeCircles {
		n := float32(i)
		cx := hpos + circleDistance*(n+1) + circleRadius*(2*n+1)
		c.FillCircle(cx, cy, circleRadius, col.fill)
		c.StrokeCircle(cx, cy, circleRadius, 1, col.outline)
	}
	cb.text.Draw(c, hpos, top+titleBarHeight)
	return vpos + cb.HeightWithMargin()
}

func (*CodeBox) drawBox() {}

// ImageBox is a picture scaled to a fixed size at build time. A box whose
// image failed to load has no size and draws nothing.
type ImageBox struct {
	path    string
	img     image.Image
	width   float32
	height  float32
	margin  float32
	padding float32
}

func NewImageBox(path string, img image.Image, width, height, margin float32) *ImageBox {
	ib := &ImageBox{path: path, img: img, margin: margin, padding: BoxPadding}
	if img != nil {
		ib.width, ib.height = width, height
	}
	return ib
}

func (ib *ImageBox) Path() string       { return ib.path }
func (ib *ImageBox) Image() image.Image { return ib.img }
func (ib *ImageBox) Width() float32     { return ib.width }
func (ib *ImageBox) Height() float32    { return ib.height }

func (ib *ImageBox) WidthWithPadding() float32 {
	return ib.width + ib.padding*2
}

func (ib *ImageBox) HeightWithPadding() float32 {
	return ib.height + ib.padding*2
}

func (ib *ImageBox) HeightWithMargin() float32 {
	return ib.HeightWithPadding() + ib.margin
}

func (ib *ImageBox) Draw(c Canvas, hpos, vpos float32) float32 {
	if ib.img != nil {
		c.DrawImage(ib.img, hpos+ib.padding, vpos+ib.padding+ib.margin, ib.width, ib.height)
	}
	return vpos + ib.HeightWithMargin()
}

func (*ImageBox) drawBox() {}
