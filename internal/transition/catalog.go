package transition

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	// mask formats
	_ "image/jpeg"
	_ "image/png"
)

// ErrMissingMask is returned when a catalog entry has no procedural mask
// and its file does not exist.
var ErrMissingMask = errors.New("transition mask missing")

// Mask is a grayscale pattern over texture coordinates. Points with a low
// value switch to the next slide first.
type Mask interface {
	At(u, v float64) float64
}

// MaskFunc adapts a function to Mask.
type MaskFunc func(u, v float64) float64

func (f MaskFunc) At(u, v float64) float64 {
	return clamp01(f(u, v))
}

// Entry describes how to obtain one mask. File is looked up relative to the
// catalog directory and wins over Generate when present.
type Entry struct {
	File     string
	Generate MaskFunc
}

// Catalog is a registry of named masks.
type Catalog struct {
	dir     string
	names   []string
	entries map[string]Entry
}

// NewCatalog returns an empty catalog reading mask files from dir.
func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir, entries: make(map[string]Entry)}
}

// DefaultCatalog returns the built-in masks. Each can be overridden by a
// transition_<name>.png file in dir.
func DefaultCatalog(dir string) *Catalog {
	c := NewCatalog(dir)
	for _, m := range builtins {
		c.Register(m.name, Entry{File: m.file, Generate: m.gen})
	}
	return c
}

// Register adds or replaces an entry. New names keep registration order.
func (c *Catalog) Register(name string, e Entry) {
	name = strings.ToLower(name)
	if _, ok := c.entries[name]; !ok {
		c.names = append(c.names, name)
	}
	if e.File == "" {
		e.File = "transition_" + name + ".png"
	}
	c.entries[name] = e
}

func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[strings.ToLower(name)]
	return ok
}

// Next returns the name registered after name, wrapping around.
func (c *Catalog) Next(name string) string {
	if len(c.names) == 0 {
		return ""
	}
	name = strings.ToLower(name)
	for i, n := range c.names {
		if n == name {
			return c.names[(i+1)%len(c.names)]
		}
	}
	return c.names[0]
}

// Load resolves name to a mask.
func (c *Catalog) Load(name string) (Mask, error) {
	e, ok := c.entries[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown transition %q", name)
	}
	path := filepath.Join(c.dir, e.File)
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("could not decode %s: %w", path, err)
		}
		return NewImageMask(img), nil
	case e.Generate != nil:
		return e.Generate, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingMask, path)
}

// ImageMask samples the luminance of an image.
type ImageMask struct {
	gray *image.Gray
}

func NewImageMask(img image.Image) *ImageMask {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return &ImageMask{gray: g}
}

func (m *ImageMask) At(u, v float64) float64 {
	b := m.gray.Bounds()
	if b.Empty() {
		return 0
	}
	x := min(int(clamp01(u)*float64(b.Dx())), b.Dx()-1)
	y := min(int(clamp01(v)*float64(b.Dy())), b.Dy()-1)
	return float64(m.gray.GrayAt(x, y).Y) / 255
}

// Render draws a mask into a w×h grayscale image.
func Render(m Mask, w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := m.At((float64(x)+0.5)/float64(w), (float64(y)+0.5)/float64(h))
			g.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return g
}

var builtins = []struct {
	name string
	file string
	gen  MaskFunc
}{
	{"swipe", "transition_slide.png", func(u, v float64) float64 { return u }},
	{"split", "", func(u, v float64) float64 { return math.Abs(u-0.5) * 2 }},
	{"swirl", "", swirl},
	{"curtains", "", func(u, v float64) float64 { return 1 - math.Abs(u-0.5)*2 }},
	{"blinds", "", func(u, v float64) float64 { return frac(v * 8) }},
	{"circle", "", func(u, v float64) float64 { return radius(u, v) / math.Sqrt2 }},
	{"diamond", "", func(u, v float64) float64 { return math.Abs(u-0.5) + math.Abs(v-0.5) }},
	{"diagonal", "", func(u, v float64) float64 { return (u + v) / 2 }},
	{"checkerboard", "", checkerboard},
	{"noise", "", noise},
	{"ripple", "", func(u, v float64) float64 {
		r := radius(u, v) / math.Sqrt2
		return 0.8*r + 0.2*(math.Sin(r*40)+1)/2
	}},
	{"radial", "", func(u, v float64) float64 { return angle(u, v) }},
	{"spiral", "", func(u, v float64) float64 { return frac(angle(u, v) + radius(u, v)*3) }},
	{"cross", "", func(u, v float64) float64 { return min(math.Abs(u-0.5), math.Abs(v-0.5)) * 2 }},
	{"zoom", "", func(u, v float64) float64 { return max(math.Abs(u-0.5), math.Abs(v-0.5)) * 2 }},
}

// radius is twice the distance from the center, in [0, √2].
func radius(u, v float64) float64 {
	return math.Hypot(u-0.5, v-0.5) * 2
}

// angle around the center, in [0, 1).
func angle(u, v float64) float64 {
	return frac(math.Atan2(v-0.5, u-0.5)/(2*math.Pi) + 0.5)
}

func swirl(u, v float64) float64 {
	r := radius(u, v) / math.Sqrt2
	return 0.5*r + 0.5*frac(angle(u, v)+r)
}

func checkerboard(u, v float64) float64 {
	const n = 8
	cx, cy := int(u*n), int(v*n)
	base := 0.0
	if (cx+cy)%2 == 1 {
		base = 0.5
	}
	return base + frac(u*n)*0.5
}

// noise is value noise on a 32×32 lattice, deterministic per point.
func noise(u, v float64) float64 {
	const n = 32
	x, y := u*n, v*n
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	fx = fx * fx * (3 - 2*fx)
	fy = fy * fy * (3 - 2*fy)
	a := hash(int(x0), int(y0))
	b := hash(int(x0)+1, int(y0))
	c := hash(int(x0), int(y0)+1)
	d := hash(int(x0)+1, int(y0)+1)
	top := a + (b-a)*fx
	bottom := c + (d-c)*fx
	return top + (bottom-top)*fy
}

func hash(x, y int) float64 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h&0xffff) / 0xffff
}

func frac(x float64) float64 {
	return x - math.Floor(x)
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
