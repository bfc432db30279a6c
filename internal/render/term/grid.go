// Package term renders slides onto a grid of terminal cells. Layout still
// works in pixels; each cell stands for CellWidth×CellHeight of them.
package term

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/mattn/go-runewidth"

	"slider/internal/layout"
)

const (
	CellWidth  float32 = 10
	CellHeight float32 = 20
)

// Cell is one character cell. A zero Rune marks the right half of a wide
// character.
type Cell struct {
	Rune   rune
	FG     color.RGBA
	BG     color.RGBA
	Bold   bool
	Italic bool
}

// Grid is a layout.Canvas of cols×rows cells.
type Grid struct {
	cols, rows int
	cells      []Cell
	// BoldAbove draws text with a larger face than this in bold.
	BoldAbove float32
}

// NewGrid returns a grid of blank cells on bg.
func NewGrid(cols, rows int, bg color.RGBA) *Grid {
	cols, rows = max(cols, 0), max(rows, 0)
	g := &Grid{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
	for i := range g.cells {
		g.cells[i] = Cell{Rune: ' ', BG: bg}
	}
	return g
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// Cell returns the cell at column x, row y.
func (g *Grid) Cell(x, y int) Cell {
	return g.cells[y*g.cols+x]
}

func (g *Grid) at(x, y int) *Cell {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return nil
	}
	return &g.cells[y*g.cols+x]
}

func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = append([]Cell(nil), g.cells...)
	return &c
}

func (g *Grid) Size() (float32, float32) {
	return float32(g.cols) * CellWidth, float32(g.rows) * CellHeight
}

func (g *Grid) FillRect(x, y, w, h float32, c color.Color) {
	bg := rgba(c)
	for row := cellRound(y, CellHeight); row < cellRound(y+h, CellHeight); row++ {
		for col := cellRound(x, CellWidth); col < cellRound(x+w, CellWidth); col++ {
			if cell := g.at(col, row); cell != nil {
				cell.BG = over(cell.BG, bg)
			}
		}
	}
}

func (g *Grid) FillCircle(cx, cy, _ float32, c color.Color) {
	if cell := g.at(cellFloor(cx, CellWidth), cellFloor(cy, CellHeight)); cell != nil {
		cell.Rune = '●'
		cell.FG = rgba(c)
	}
}

func (g *Grid) StrokeCircle(cx, cy, _, _ float32, c color.Color) {
	cell := g.at(cellFloor(cx, CellWidth), cellFloor(cy, CellHeight))
	if cell == nil || cell.Rune == '●' {
		return
	}
	cell.Rune = '○'
	cell.FG = rgba(c)
}

// DrawText writes s on the row whose bottom edge holds the baseline y.
func (g *Grid) DrawText(s string, x, y float32, face layout.Face, c color.Color) {
	row := int(math.Ceil(float64(y/CellHeight))) - 1
	col := cellRound(x, CellWidth)
	fg := rgba(c)
	bold := face.Font == layout.FontBold || (g.BoldAbove > 0 && face.Size > g.BoldAbove)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if cell := g.at(col, row); cell != nil {
			cell.Rune, cell.FG, cell.Bold, cell.Italic = r, fg, bold, face.Font == layout.FontItalic
			if w == 2 {
				if next := g.at(col+1, row); next != nil {
					next.Rune = 0
				} else {
					cell.Rune = ' '
				}
			}
		}
		col += w
	}
}

// DrawImage draws img with half-block characters, two pixels per cell.
func (g *Grid) DrawImage(img image.Image, x, y, w, h float32) {
	col0, row0 := cellRound(x, CellWidth), cellRound(y, CellHeight)
	cols := cellRound(x+w, CellWidth) - col0
	rows := cellRound(y+h, CellHeight) - row0
	if img == nil || cols <= 0 || rows <= 0 {
		return
	}
	scaled := transform.Resize(img, cols, rows*2, transform.Linear)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			cell := g.at(col0+i, row0+j)
			if cell == nil {
				continue
			}
			top := over(cell.BG, scaled.RGBAAt(i, 2*j))
			bottom := over(cell.BG, scaled.RGBAAt(i, 2*j+1))
			*cell = Cell{Rune: '▀', FG: top, BG: bottom}
		}
	}
}

func cellRound(px, size float32) int {
	return int(math.Round(float64(px / size)))
}

func cellFloor(px, size float32) int {
	return int(math.Floor(float64(px / size)))
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// over composites the premultiplied src over an opaque dst.
func over(dst, src color.RGBA) color.RGBA {
	if src.A == 255 {
		return src
	}
	a := 255 - uint32(src.A)
	return color.RGBA{
		R: uint8(uint32(src.R) + uint32(dst.R)*a/255),
		G: uint8(uint32(src.G) + uint32(dst.G)*a/255),
		B: uint8(uint32(src.B) + uint32(dst.B)*a/255),
		A: 255,
	}
}
