package raster

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"slider/internal/layout"
)

// circleSegments is how many edges approximate a circle.
const circleSegments = 48

// Canvas is a layout.Canvas over an RGBA image.
type Canvas struct {
	img   *image.RGBA
	fonts *Fonts
}

func NewCanvas(w, h int, fonts *Fonts) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), fonts: fonts}
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (float32, float32) {
	b := c.img.Bounds()
	return float32(b.Dx()), float32(b.Dy())
}

func (c *Canvas) FillRect(x, y, w, h float32, col color.Color) {
	r := image.Rect(round(x), round(y), round(x+w), round(y+h)).Intersect(c.img.Bounds())
	xdraw.Draw(c.img, r, image.NewUniform(col), image.Point{}, xdraw.Over)
}

func (c *Canvas) FillCircle(cx, cy, r float32, col color.Color) {
	c.circle(cx, cy, r, 0, col)
}

func (c *Canvas) StrokeCircle(cx, cy, r, thickness float32, col color.Color) {
	c.circle(cx, cy, r+thickness/2, max(r-thickness/2, 0), col)
}

// circle fills the ring between outer and inner radius. The inner path runs
// the other way round so its area cancels out.
func (c *Canvas) circle(cx, cy, outer, inner float32, col color.Color) {
	bounds := image.Rect(
		int(math.Floor(float64(cx-outer))), int(math.Floor(float64(cy-outer))),
		int(math.Ceil(float64(cx+outer))), int(math.Ceil(float64(cy+outer))),
	)
	clip := bounds.Intersect(c.img.Bounds())
	if clip.Empty() {
		return
	}
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	ox, oy := cx-float32(bounds.Min.X), cy-float32(bounds.Min.Y)
	polygon(z, ox, oy, outer, 1)
	if inner > 0 {
		polygon(z, ox, oy, inner, -1)
	}
	z.Draw(shifted(c.img, clip, bounds.Min), clip.Sub(bounds.Min), image.NewUniform(col), image.Point{})
}

func polygon(z *vector.Rasterizer, cx, cy, r float32, dir float64) {
	for i := 0; i <= circleSegments; i++ {
		a := dir * 2 * math.Pi * float64(i) / circleSegments
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// shifted is the clip area of img addressed relative to origin, matching
// the rasterizer's coordinate space.
func shifted(img *image.RGBA, clip image.Rectangle, origin image.Point) *image.RGBA {
	sub := img.SubImage(clip).(*image.RGBA)
	sub.Rect = clip.Sub(origin)
	return sub
}

func (c *Canvas) DrawText(s string, x, y float32, face layout.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.fonts.Face(face),
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
	}
	d.DrawString(s)
}

func (c *Canvas) DrawImage(img image.Image, x, y, w, h float32) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	dst := image.Rect(round(x), round(y), round(x+w), round(y+h))
	xdraw.BiLinear.Scale(c.img, dst, img, img.Bounds(), xdraw.Over, nil)
}

func round(x float32) int {
	return int(math.Round(float64(x)))
}
