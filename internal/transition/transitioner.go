// Package transition blends the previous slide frame into the next one
// through a grayscale mask, the way a wipe shader would.
package transition

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/parallel"
)

const (
	// TransitionTime is the progress value at which a transition ends.
	TransitionTime = 1.0
	// Rate is how fast progress advances per second.
	Rate = 2.0
	// DefaultFade is the softness of the mask edge.
	DefaultFade = 0.1
)

// Transitioner is idle until Start, then advances with Update until its
// progress passes TransitionTime.
type Transitioner struct {
	mask          Mask
	fade          float64
	progress      float64
	transitioning bool
	buf           *image.RGBA
}

func New(mask Mask, fade float64) *Transitioner {
	return &Transitioner{mask: mask, fade: fade}
}

func (t *Transitioner) SetMask(m Mask) {
	t.mask = m
}

// Start begins a transition from zero progress.
func (t *Transitioner) Start() {
	t.transitioning = true
	t.progress = 0
}

// Update advances progress by delta seconds.
func (t *Transitioner) Update(delta float64) {
	if !t.transitioning {
		return
	}
	t.progress += delta * Rate
	if t.progress > TransitionTime {
		t.progress = 0
		t.transitioning = false
	}
}

func (t *Transitioner) Mask() Mask          { return t.mask }
func (t *Transitioner) Transitioning() bool { return t.transitioning }
func (t *Transitioner) Progress() float64   { return t.progress }

// Factor is the weight of the previous frame at texture coordinates (u, v),
// each in [0, 1]. It is 1 everywhere when the transition starts and falls
// to 0 as progress sweeps past the mask value.
func (t *Transitioner) Factor(u, v float64) float64 {
	m := 0.0
	if t.mask != nil {
		m = t.mask.At(u, v)
	}
	m = m*(1-t.fade) + t.fade
	return smoothstep(t.progress, t.progress+t.fade, m)
}

// Draw composites from and to into the transitioner's buffer. It does not
// change progress. Both images are sampled over the bounds of to.
func (t *Transitioner) Draw(from, to image.Image) {
	b := to.Bounds()
	w, h := b.Dx(), b.Dy()
	if t.buf == nil || t.buf.Bounds().Dx() != w || t.buf.Bounds().Dy() != h {
		t.buf = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	src := clone.AsRGBA(from)
	dst := clone.AsRGBA(to)
	sb := src.Bounds()
	db := dst.Bounds()

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			v := (float64(y) + 0.5) / float64(h)
			for x := 0; x < w; x++ {
				u := (float64(x) + 0.5) / float64(w)
				f := t.Factor(u, v)
				var a color.RGBA
				if image.Pt(sb.Min.X+x, sb.Min.Y+y).In(sb) {
					a = src.RGBAAt(sb.Min.X+x, sb.Min.Y+y)
				}
				c := dst.RGBAAt(db.Min.X+x, db.Min.Y+y)
				t.buf.SetRGBA(x, y, mix(c, a, f))
			}
		}
	})
}

// Texture is the last composited frame.
func (t *Transitioner) Texture() *image.RGBA {
	return t.buf
}

// mix returns a*(1-f) + b*f per channel.
func mix(a, b color.RGBA, f float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(float64(x)*(1-f) + float64(y)*f + 0.5)
	}
	return color.RGBA{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), ch(a.A, b.A)}
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	t = min(max(t, 0), 1)
	return t * t * (3 - 2*t)
}
