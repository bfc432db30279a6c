package term

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slider/internal/deck"
	"slider/internal/highlight"
	"slider/internal/layout"
	"slider/internal/theme"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func rowText(g *Grid, y int) string {
	var sb strings.Builder
	for x := 0; x < g.Cols(); x++ {
		if r := g.Cell(x, y).Rune; r != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func TestMeasure(t *testing.T) {
	m := Measurer{}
	face := layout.Face{Font: layout.FontRegular, Size: 40}
	assert.Equal(t, layout.Metrics{Width: 50, Height: CellHeight, OffsetY: CellHeight}, m.Measure("hello", face))
	assert.Equal(t, float32(40), m.Measure("漢字", face).Width)
}

func TestGridSize(t *testing.T) {
	g := NewGrid(80, 24, black)
	w, h := g.Size()
	assert.Equal(t, float32(800), w)
	assert.Equal(t, float32(480), h)
	pw, ph := Pixels(80, 24)
	assert.Equal(t, w, pw)
	assert.Equal(t, h, ph)
}

func TestDrawText(t *testing.T) {
	g := NewGrid(20, 5, black)
	g.BoldAbove = 10
	// baseline at the bottom of row 2
	g.DrawText("hi", 30, 60, layout.Face{Font: layout.FontRegular, Size: 10}, white)
	assert.Equal(t, 'h', g.Cell(3, 2).Rune)
	assert.Equal(t, 'i', g.Cell(4, 2).Rune)
	assert.Equal(t, white, g.Cell(3, 2).FG)
	assert.False(t, g.Cell(3, 2).Bold)

	g.DrawText("H", 0, 20, layout.Face{Font: layout.FontRegular, Size: 19}, white)
	assert.True(t, g.Cell(0, 0).Bold, "headings are bold")

	g.DrawText("x", 0, 80, layout.Face{Font: layout.FontItalic, Size: 10}, white)
	assert.True(t, g.Cell(0, 3).Italic)

	// clipped at the edges
	g.DrawText("overflowing text", 180, 100, layout.Face{Size: 10}, white)
	g.DrawText("above", 0, -40, layout.Face{Size: 10}, white)
	assert.Equal(t, "ov", strings.TrimSpace(rowText(g, 4)))
}

func TestDrawWideText(t *testing.T) {
	g := NewGrid(5, 1, black)
	g.DrawText("漢字", 0, 20, layout.Face{Size: 10}, white)
	assert.Equal(t, '漢', g.Cell(0, 0).Rune)
	assert.Equal(t, rune(0), g.Cell(1, 0).Rune)
	assert.Equal(t, '字', g.Cell(2, 0).Rune)

	g.DrawText("字", 40, 20, layout.Face{Size: 10}, white)
	assert.Equal(t, ' ', g.Cell(4, 0).Rune, "no room for the right half")
}

func TestFillRect(t *testing.T) {
	g := NewGrid(10, 5, black)
	g.FillRect(20, 20, 40, 40, red)
	assert.Equal(t, red, g.Cell(2, 1).BG)
	assert.Equal(t, red, g.Cell(5, 2).BG)
	assert.Equal(t, black, g.Cell(6, 2).BG)
	assert.Equal(t, black, g.Cell(2, 3).BG)
	assert.Equal(t, black, g.Cell(1, 1).BG)

	g.FillRect(0, 0, 1000, 1000, color.RGBA{0, 0, 128, 128})
	assert.Equal(t, color.RGBA{0, 0, 128, 255}, g.Cell(0, 0).BG)
}

func TestCircles(t *testing.T) {
	g := NewGrid(10, 2, black)
	g.FillCircle(18, 15, 8, red)
	g.StrokeCircle(18, 15, 8, 1, blue)
	assert.Equal(t, '●', g.Cell(1, 0).Rune)
	assert.Equal(t, red, g.Cell(1, 0).FG)

	g.StrokeCircle(44, 15, 8, 1, blue)
	assert.Equal(t, '○', g.Cell(4, 0).Rune)
}

func TestDrawImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.SetRGBA(x, 0, red)
		img.SetRGBA(x, 1, blue)
	}
	g := NewGrid(4, 2, black)
	g.DrawImage(img, 0, 0, 40, 20)
	cell := g.Cell(0, 0)
	assert.Equal(t, '▀', cell.Rune)
	assert.Equal(t, red, cell.FG)
	assert.Equal(t, blue, cell.BG)
	assert.Equal(t, ' ', g.Cell(0, 1).Rune)

	g.DrawImage(nil, 0, 0, 40, 20)
	g.DrawImage(img, 0, 0, 1, 1)
}

func TestBlend(t *testing.T) {
	from := NewGrid(4, 1, red)
	from.DrawText("aaaa", 0, 20, layout.Face{Size: 10}, white)
	to := NewGrid(4, 1, blue)
	to.DrawText("bbbb", 0, 20, layout.Face{Size: 10}, white)

	all := Blend(from, to, func(u, v float64) float64 { return 1 })
	assert.Equal(t, "aaaa", rowText(all, 0))
	assert.Equal(t, red, all.Cell(0, 0).BG)

	none := Blend(from, to, func(u, v float64) float64 { return 0 })
	assert.Equal(t, "bbbb", rowText(none, 0))
	assert.Equal(t, blue, none.Cell(3, 0).BG)

	swipe := Blend(from, to, func(u, v float64) float64 {
		if u < 0.5 {
			return 0
		}
		return 1
	})
	assert.Equal(t, "bbaa", rowText(swipe, 0))

	half := Blend(from, to, func(u, v float64) float64 { return 0.5 })
	bg := half.Cell(0, 0).BG
	assert.InDelta(t, 128, int(bg.R), 1)
	assert.InDelta(t, 128, int(bg.B), 1)

	assert.Equal(t, to.Cell(0, 0), Blend(NewGrid(2, 2, red), to, nil).Cell(0, 0), "size mismatch shows the target")
	assert.Equal(t, "aaaa", rowText(from, 0), "inputs are untouched")
}

func TestBlendWideRunes(t *testing.T) {
	from := NewGrid(4, 1, black)
	from.DrawText("漢漢", 0, 20, layout.Face{Size: 10}, white)
	to := NewGrid(4, 1, black)
	to.DrawText("abcd", 0, 20, layout.Face{Size: 10}, white)

	// the right half of the first wide rune comes from "to", so it is dropped
	out := Blend(from, to, func(u, v float64) float64 {
		if u > 0.25 && u < 0.5 {
			return 0
		}
		return 1
	})
	assert.Equal(t, " b漢", rowText(out, 0))
}

func TestCRT(t *testing.T) {
	g := NewGrid(10, 4, white)
	out := CRT(g)
	assert.Less(t, out.Cell(5, 1).BG.R, out.Cell(5, 2).BG.R, "odd rows are darker")
	assert.Less(t, out.Cell(0, 0).BG.R, out.Cell(5, 2).BG.R, "corners are darker")
	assert.Equal(t, white, g.Cell(5, 1).BG, "input is untouched")
}

func TestString(t *testing.T) {
	g := NewGrid(6, 2, black)
	g.DrawText("hello", 0, 20, layout.Face{Size: 10}, white)
	g.DrawText("漢", 0, 40, layout.Face{Size: 10}, white)

	assert.Equal(t, "hello \n漢    ", g.String(termenv.Ascii))

	colored := g.String(termenv.TrueColor)
	assert.Contains(t, colored, "hello")
	assert.Contains(t, colored, "\x1b[")
	assert.Equal(t, 2, strings.Count(colored, "\n")+1)
}

func TestTheme(t *testing.T) {
	th := Theme(theme.Default())
	assert.Equal(t, float32(1), th.LineHeight)
	assert.Equal(t, CellHeight, th.HeadingSize(1))
	assert.Greater(t, th.HeadingSize(3), th.FontSizeText)
	assert.Equal(t, theme.Default().TextColor, th.TextColor)
}

func TestDeckOnGrid(t *testing.T) {
	b := layout.NewBuilder(Theme(theme.Default()), Measurer{}, highlight.New("solarized-dark"))
	d, err := deck.Parse("# Title\n\n---\n\n## Heading\n\n- one\n- two\n", b)
	require.NoError(t, err)

	g := NewGrid(40, 12, black)
	d.Draw(g)
	var titleRow = -1
	for y := 0; y < g.Rows(); y++ {
		if strings.Contains(rowText(g, y), "Title") {
			titleRow = y
		}
	}
	assert.InDelta(t, 5, titleRow, 1, "title is centered")

	d.Next()
	g = NewGrid(40, 12, black)
	d.Draw(g)
	var all []string
	for y := 0; y < g.Rows(); y++ {
		all = append(all, rowText(g, y))
	}
	text := strings.Join(all, "\n")
	assert.Contains(t, text, "Heading")
	assert.Contains(t, text, "• one")
	assert.Contains(t, text, "• two")
}
