package raster

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/parallel"
)

// CRT makes a frame look like an old monitor: a soft glow, dark scanlines
// every third row and darkened corners.
func CRT(src image.Image) *image.RGBA {
	glow := adjust.Brightness(blur.Gaussian(src, 3), -0.6)
	out := blend.Screen(src, glow)

	b := out.Bounds()
	w, h := b.Dx(), b.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := 1.0
			if y%3 == 2 {
				row = 0.75
			}
			v := float64(y)/float64(h) - 0.5
			for x := 0; x < w; x++ {
				u := float64(x)/float64(w) - 0.5
				f := row * (1 - 0.6*math.Pow(u*u+v*v, 1.5))
				i := out.PixOffset(b.Min.X+x, b.Min.Y+y)
				for c := 0; c < 3; c++ {
					out.Pix[i+c] = uint8(float64(out.Pix[i+c]) * f)
				}
			}
		}
	})
	return out
}
