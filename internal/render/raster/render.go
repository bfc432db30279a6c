package raster

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	xdraw "golang.org/x/image/draw"

	"slider/internal/deck"
	"slider/internal/layout"
	"slider/internal/theme"
	"slider/internal/transition"
)

// Renderer draws slides at a fixed resolution.
type Renderer struct {
	fonts  *Fonts
	width  int
	height int
	crt    bool
	theme  *theme.Theme
}

func NewRenderer(fonts *Fonts, width, height int, crt bool) *Renderer {
	return &Renderer{fonts: fonts, width: width, height: height, crt: crt}
}

// SetTheme lays decks out with t instead of the theme they were built with.
func (r *Renderer) SetTheme(t theme.Theme) {
	r.theme = &t
}

// Layout returns a copy of d laid out with this renderer's fonts.
func (r *Renderer) Layout(d *deck.Deck) *deck.Deck {
	t := d.Theme()
	if r.theme != nil {
		t = *r.theme
	}
	b := layout.NewBuilder(t, r.fonts, d.Builder().Highlighter(),
		layout.WithImageLoader(d.Builder().Images()),
		layout.WithImageBounds(float32(r.width), float32(r.height)),
	)
	return d.Clone(b)
}

// Render draws slide i of a deck laid out by Layout.
func (r *Renderer) Render(d *deck.Deck, i int) *image.RGBA {
	c := NewCanvas(r.width, r.height, r.fonts)
	d.DrawSlide(c, i)
	if r.crt {
		return CRT(c.Image())
	}
	return c.Image()
}

// Screenshot renders the active slide of d to a PNG file.
func (r *Renderer) Screenshot(d *deck.Deck, path string) error {
	laid := r.Layout(d)
	return SavePNG(path, r.Render(laid, laid.Active()))
}

func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// ExportOptions configure Export. Dir receives one PNG per slide; GIF, when
// set, receives an animation of the whole deck.
type ExportOptions struct {
	Dir  string
	GIF  string
	FPS  int
	Hold float64
	// Mask is the transition between slides in the animation; nil cuts.
	Mask transition.Mask
	Log  *slog.Logger
}

// Export renders every slide of d.
func (r *Renderer) Export(d *deck.Deck, opts ExportOptions) error {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	laid := r.Layout(d)
	frames := make([]*image.RGBA, laid.Len())
	for i := range frames {
		frames[i] = r.Render(laid, i)
		if opts.Dir == "" {
			continue
		}
		path := filepath.Join(opts.Dir, fmt.Sprintf("slide-%03d.png", i+1))
		if err := SavePNG(path, frames[i]); err != nil {
			return err
		}
		log.Info("exported slide", "slide", i+1, "path", path)
	}
	if opts.GIF == "" {
		return nil
	}
	return r.writeGIF(frames, opts)
}

func (r *Renderer) writeGIF(frames []*image.RGBA, opts ExportOptions) error {
	fps := opts.FPS
	if fps <= 0 {
		fps = 15
	}
	hold := opts.Hold
	if hold <= 0 {
		hold = 3
	}
	anim := &gif.GIF{}
	add := func(img image.Image, seconds float64) {
		anim.Image = append(anim.Image, paletted(img))
		anim.Delay = append(anim.Delay, max(int(seconds*100), 2))
	}
	for i, frame := range frames {
		if i > 0 && opts.Mask != nil {
			tr := transition.New(opts.Mask, transition.DefaultFade)
			tr.Start()
			for tr.Transitioning() {
				tr.Draw(frames[i-1], frame)
				add(tr.Texture(), 1/float64(fps))
				tr.Update(1 / float64(fps))
			}
		}
		add(frame, hold)
	}

	f, err := os.Create(opts.GIF)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", opts.GIF, err)
	}
	return f.Close()
}

func paletted(img image.Image) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	xdraw.FloydSteinberg.Draw(p, p.Bounds(), img, img.Bounds().Min)
	return p
}
