package term

import (
	"image/color"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// String renders the grid as lines of styled text for the given color
// profile. Runs of cells with the same style share one escape sequence.
func (g *Grid) String(p termenv.Profile) string {
	var sb strings.Builder
	for y := 0; y < g.rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var (
			run   strings.Builder
			style Cell
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(styled(p, style, run.String()))
			run.Reset()
		}
		for x := 0; x < g.cols; x++ {
			c := g.Cell(x, y)
			if c.Rune == 0 {
				continue
			}
			if !sameStyle(c, style) {
				flush()
				style = c
			}
			run.WriteRune(c.Rune)
		}
		flush()
	}
	return sb.String()
}

func styled(p termenv.Profile, c Cell, s string) string {
	st := p.String(s).
		Foreground(p.Color(hex(c.FG))).
		Background(p.Color(hex(c.BG)))
	if c.Bold {
		st = st.Bold()
	}
	if c.Italic {
		st = st.Italic()
	}
	return st.String()
}

func sameStyle(a, b Cell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Bold == b.Bold && a.Italic == b.Italic
}

func hex(c color.RGBA) string {
	return toColorful(c).Hex()
}

func wide(r rune) bool {
	return r != 0 && runewidth.RuneWidth(r) == 2
}
