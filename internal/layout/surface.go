// Package layout converts Markdown blocks into pre-measured draw boxes and
// draws them top to bottom onto a Canvas.
//
// All geometry is in pixels. Boxes are measured once, when they are built,
// and never change afterwards.
package layout

import (
	"image"
	"image/color"

	"slider/internal/highlight"
)

// Font selects one of the theme's typefaces.
type Font int

const (
	FontRegular Font = iota
	FontBold
	FontItalic
	FontCode
)

func (f Font) String() string {
	switch f {
	case FontBold:
		return "bold"
	case FontItalic:
		return "italic"
	case FontCode:
		return "code"
	default:
		return "regular"
	}
}

// Face is a font at a size.
type Face struct {
	Font Font
	Size float32
}

// Metrics are the measured dimensions of a string.
type Metrics struct {
	Width float32
	// Height is the nominal line height before the theme's line height
	// multiplier is applied.
	Height float32
	// OffsetY is the distance from the top of the line to the baseline.
	OffsetY float32
}

// Measurer measures text in a face.
type Measurer interface {
	Measure(text string, face Face) Metrics
}

// Canvas is the drawing surface a slide is rendered onto.
type Canvas interface {
	Size() (width, height float32)
	FillRect(x, y, w, h float32, c color.Color)
	FillCircle(cx, cy, r float32, c color.Color)
	StrokeCircle(cx, cy, r, thickness float32, c color.Color)
	// DrawText draws s with its baseline at y.
	DrawText(s string, x, y float32, face Face, c color.Color)
	// DrawImage draws img scaled into the rectangle at (x, y).
	DrawImage(img image.Image, x, y, w, h float32)
}

// Highlighter splits code into highlighted lines.
type Highlighter interface {
	Highlight(code, language string) []highlight.Line
}

// ImageLoader loads an image referenced from Markdown.
type ImageLoader interface {
	Load(path string) (image.Image, error)
}
