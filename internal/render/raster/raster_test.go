package raster

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slider/internal/deck"
	"slider/internal/highlight"
	"slider/internal/layout"
	"slider/internal/theme"
	"slider/internal/transition"
)

var white = color.RGBA{255, 255, 255, 255}

func loadFonts(t *testing.T) *Fonts {
	t.Helper()
	f, err := LoadFonts(theme.Default())
	require.NoError(t, err)
	return f
}

func TestMissingFont(t *testing.T) {
	th := theme.Default()
	th.FontBold = filepath.Join(t.TempDir(), "nope.ttf")
	_, err := LoadFonts(th)
	assert.ErrorIs(t, err, ErrMissingFont)
}

func TestMeasure(t *testing.T) {
	f := loadFonts(t)
	face := layout.Face{Font: layout.FontRegular, Size: 40}

	short := f.Measure("Hi", face)
	long := f.Measure("Hi there", face)
	assert.Greater(t, short.Width, float32(0))
	assert.Greater(t, long.Width, short.Width)
	assert.Equal(t, float32(40), short.Height)
	assert.Greater(t, short.OffsetY, float32(20))
	assert.LessOrEqual(t, short.OffsetY, float32(40))

	assert.Zero(t, f.Measure("", face).Width)
	assert.Same(t, f.Face(face), f.Face(face), "faces are cached")

	mono := layout.Face{Font: layout.FontCode, Size: 20}
	assert.InDelta(t, f.Measure("iiii", mono).Width, f.Measure("MMMM", mono).Width, 0.01)
}

func TestFillRect(t *testing.T) {
	c := NewCanvas(20, 20, loadFonts(t))
	c.FillRect(5, 5, 10, 10, white)
	img := c.Image()
	assert.Equal(t, white, img.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(15, 15))

	// clipped, not a panic
	c.FillRect(-10, -10, 100, 15, white)
	assert.Equal(t, white, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(19, 4))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 6))
}

func TestCircles(t *testing.T) {
	c := NewCanvas(40, 40, loadFonts(t))
	c.FillCircle(10, 10, 6, white)
	img := c.Image()
	assert.Equal(t, white, img.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(1, 1))

	c.StrokeCircle(30, 30, 8, 2, white)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(30, 30), "ring is hollow")
	assert.NotEqual(t, color.RGBA{}, img.RGBAAt(38, 30))

	// partly outside the canvas
	c.FillCircle(0, 39, 5, white)
	assert.Equal(t, white, img.RGBAAt(1, 38))
}

func TestDrawText(t *testing.T) {
	c := NewCanvas(200, 60, loadFonts(t))
	c.DrawText("Hello", 10, 40, layout.Face{Font: layout.FontBold, Size: 30}, white)
	assert.True(t, hasInk(c.Image(), image.Rect(10, 10, 120, 41)))
	assert.False(t, hasInk(c.Image(), image.Rect(150, 0, 200, 60)))
}

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	c := NewCanvas(20, 20, loadFonts(t))
	c.DrawImage(src, 5, 5, 10, 10)
	assert.Equal(t, white, c.Image().RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(16, 16))

	c.DrawImage(nil, 0, 0, 10, 10)
}

func TestCRT(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 30, 30))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	out := CRT(src)
	require.Equal(t, src.Bounds(), out.Bounds())
	assert.Less(t, out.RGBAAt(15, 14).R, out.RGBAAt(15, 15).R, "scanline rows are darker")
	assert.Less(t, out.RGBAAt(0, 0).R, out.RGBAAt(15, 15).R, "corners are darker")
}

func testDeck(t *testing.T) *deck.Deck {
	t.Helper()
	fonts := loadFonts(t)
	b := layout.NewBuilder(theme.Default(), fonts, highlight.New("solarized-dark"))
	d, err := deck.Parse("# Title\n\n---\n\n## Code\n\n```go\nfunc main() {}\n```\n", b)
	require.NoError(t, err)
	return d
}

func TestScreenshot(t *testing.T) {
	d := testDeck(t)
	r := NewRenderer(loadFonts(t), 320, 180, false)
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, r.Screenshot(d, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 180, cfg.Height)
}

func TestRenderDrawsBackground(t *testing.T) {
	d := testDeck(t)
	r := NewRenderer(loadFonts(t), 64, 36, false)
	img := r.Render(r.Layout(d), 0)
	bg := color.RGBA(theme.Default().BackgroundColor)
	assert.Equal(t, bg, img.RGBAAt(0, 0))
}

func TestExport(t *testing.T) {
	d := testDeck(t)
	dir := t.TempDir()
	r := NewRenderer(loadFonts(t), 64, 36, true)
	opts := ExportOptions{
		Dir:  dir,
		GIF:  filepath.Join(dir, "deck.gif"),
		FPS:  10,
		Hold: 1,
		Mask: transition.MaskFunc(func(u, v float64) float64 { return u }),
	}
	require.NoError(t, r.Export(d, opts))

	for _, name := range []string{"slide-001.png", "slide-002.png"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	f, err := os.Open(opts.GIF)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	// two held slides plus the frames of one transition
	assert.Greater(t, len(anim.Image), 2)
	assert.Equal(t, 100, anim.Delay[0])
	assert.Equal(t, 100, anim.Delay[len(anim.Delay)-1])
}

func hasInk(img *image.RGBA, r image.Rectangle) bool {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y).A > 0 {
				return true
			}
		}
	}
	return false
}

func TestSetTheme(t *testing.T) {
	d := testDeck(t)
	r := NewRenderer(loadFonts(t), 64, 36, false)
	th := theme.Default()
	th.BackgroundColor = theme.RGB(10, 20, 30)
	r.SetTheme(th)
	img := r.Render(r.Layout(d), 0)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(0, 0))
}
