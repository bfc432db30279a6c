package term

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Blend mixes two grids of the same size. factor gives the weight of from
// at the center of each cell, in texture coordinates. Characters switch at
// half weight; colors are mixed.
func Blend(from, to *Grid, factor func(u, v float64) float64) *Grid {
	if from == nil || from.cols != to.cols || from.rows != to.rows {
		return to.Clone()
	}
	out := to.Clone()
	for y := 0; y < to.rows; y++ {
		v := (float64(y) + 0.5) / float64(to.rows)
		for x := 0; x < to.cols; x++ {
			u := (float64(x) + 0.5) / float64(to.cols)
			f := factor(u, v)
			a, b := from.Cell(x, y), to.Cell(x, y)
			c := b
			if f >= 0.5 {
				c = a
			}
			c.FG = mix(b.FG, a.FG, f)
			c.BG = mix(b.BG, a.BG, f)
			out.cells[y*out.cols+x] = c
		}
	}
	fixWide(out)
	return out
}

// fixWide blanks wide runes whose right half was replaced while blending.
func fixWide(g *Grid) {
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			c := &g.cells[y*g.cols+x]
			if c.Rune == 0 && (x == 0 || !wide(g.cells[y*g.cols+x-1].Rune)) {
				c.Rune = ' '
			}
			if wide(c.Rune) && (x+1 >= g.cols || g.cells[y*g.cols+x+1].Rune != 0) {
				c.Rune = ' '
			}
		}
	}
}

// CRT darkens every other row and the corners of a copy of g.
func CRT(g *Grid) *Grid {
	out := g.Clone()
	black := colorful.Color{}
	for y := 0; y < g.rows; y++ {
		v := (float64(y)+0.5)/float64(g.rows) - 0.5
		for x := 0; x < g.cols; x++ {
			u := (float64(x)+0.5)/float64(g.cols) - 0.5
			dark := 0.5 * math.Pow(u*u+v*v, 1.5)
			if y%2 == 1 {
				dark += 0.2
			}
			c := &out.cells[y*out.cols+x]
			c.FG = toRGBA(toColorful(c.FG).BlendRgb(black, dark))
			c.BG = toRGBA(toColorful(c.BG).BlendRgb(black, dark))
		}
	}
	return out
}

// mix returns a*(1-f) + b*f.
func mix(a, b color.RGBA, f float64) color.RGBA {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}
	return toRGBA(toColorful(a).BlendRgb(toColorful(b), f))
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}
