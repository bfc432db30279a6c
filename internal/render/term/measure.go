package term

import (
	"github.com/mattn/go-runewidth"

	"slider/internal/layout"
	"slider/internal/theme"
)

// Measurer measures text in cells. Every line is one cell high whatever the
// font size, with the baseline on its bottom edge.
type Measurer struct{}

func (Measurer) Measure(text string, _ layout.Face) layout.Metrics {
	return layout.Metrics{
		Width:   float32(runewidth.StringWidth(text)) * CellWidth,
		Height:  CellHeight,
		OffsetY: CellHeight,
	}
}

// Theme adapts a theme to cells: single spaced lines, one-row margins and
// font sizes that only tell headings from body text.
func Theme(t theme.Theme) theme.Theme {
	t.LineHeight = 1
	t.CodeLineHeight = 1
	t.FontSizeHeaderTitle = CellHeight
	t.FontSizeHeaderSlides = CellHeight - 1
	t.FontSizeHeaderStep = 0
	t.FontSizeText = CellHeight / 2
	t.FontCodeSize = CellHeight / 2
	t.VerticalOffset = CellHeight
	t.HorizontalOffset = 2 * CellWidth
	t.BlockquotePadding = CellHeight
	return t
}

// Pixels is the layout size of a terminal of cols×rows.
func Pixels(cols, rows int) (float32, float32) {
	return float32(cols) * CellWidth, float32(rows) * CellHeight
}
