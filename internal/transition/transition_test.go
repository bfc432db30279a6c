package transition

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func swipe() Mask {
	return MaskFunc(func(u, v float64) float64 { return u })
}

func TestProgressBounded(t *testing.T) {
	tr := New(swipe(), DefaultFade)
	tr.Update(0.1)
	assert.False(t, tr.Transitioning())
	assert.Zero(t, tr.Progress(), "idle update must not advance")

	tr.Start()
	require.True(t, tr.Transitioning())
	for i := 0; i < 100 && tr.Transitioning(); i++ {
		tr.Update(1.0 / 30)
		assert.LessOrEqual(t, tr.Progress(), TransitionTime)
	}
	assert.False(t, tr.Transitioning())
	assert.Zero(t, tr.Progress())
}

func TestTransitionTakesHalfASecond(t *testing.T) {
	tr := New(swipe(), DefaultFade)
	tr.Start()
	tr.Update(0.45)
	assert.True(t, tr.Transitioning())
	assert.InDelta(t, 0.9, tr.Progress(), 1e-9)
	tr.Update(0.1)
	assert.False(t, tr.Transitioning())
}

func TestStartRestarts(t *testing.T) {
	tr := New(swipe(), DefaultFade)
	tr.Start()
	tr.Update(0.3)
	tr.Start()
	assert.Zero(t, tr.Progress())
	assert.True(t, tr.Transitioning())
}

func TestFactor(t *testing.T) {
	tr := New(swipe(), DefaultFade)
	tr.Start()
	for _, u := range []float64{0, 0.25, 0.5, 1} {
		assert.InDelta(t, 1, tr.Factor(u, 0.5), 1e-9, "start shows the previous frame at u=%v", u)
	}

	tr.Update(0.475) // progress 0.95
	assert.InDelta(t, 0, tr.Factor(0.1, 0.5), 1e-9)
	assert.Greater(t, tr.Factor(1, 0.5), 0.0)
	assert.Less(t, tr.Factor(1, 0.5), 1.0)
}

func TestDraw(t *testing.T) {
	tr := New(swipe(), DefaultFade)
	from := solid(20, 10, red)
	to := solid(20, 10, blue)

	tr.Start()
	tr.Draw(from, to)
	tex := tr.Texture()
	require.NotNil(t, tex)
	assert.Equal(t, image.Rect(0, 0, 20, 10), tex.Bounds())
	assert.Equal(t, red, tex.RGBAAt(0, 0))
	assert.Equal(t, red, tex.RGBAAt(19, 9))

	tr.Update(0.25) // progress 0.5
	tr.Draw(from, to)
	assert.Equal(t, blue, tex.RGBAAt(0, 5))
	assert.Equal(t, red, tex.RGBAAt(19, 5))

	p := tr.Progress()
	tr.Draw(from, to)
	assert.Equal(t, p, tr.Progress(), "draw must not advance progress")
}

func TestCatalogBuiltins(t *testing.T) {
	c := DefaultCatalog(t.TempDir())
	names := c.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "swipe", names[0])
	for _, name := range names {
		m, err := c.Load(name)
		require.NoError(t, err, name)
		for _, p := range [][2]float64{{0, 0}, {0.5, 0.5}, {1, 1}, {0.3, 0.9}} {
			v := m.At(p[0], p[1])
			assert.True(t, v >= 0 && v <= 1, "%s(%v) = %v", name, p, v)
		}
	}

	_, err := c.Load("nope")
	assert.Error(t, err)
}

func TestCatalogNext(t *testing.T) {
	c := NewCatalog("")
	c.Register("a", Entry{Generate: func(u, v float64) float64 { return u }})
	c.Register("b", Entry{Generate: func(u, v float64) float64 { return v }})
	assert.Equal(t, "b", c.Next("a"))
	assert.Equal(t, "a", c.Next("b"))
	assert.Equal(t, "a", c.Next("unknown"))
	assert.Empty(t, NewCatalog("").Next("a"))
}

func TestCatalogFilePreferred(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	f, err := os.Create(filepath.Join(dir, "transition_fog.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	c := NewCatalog(dir)
	c.Register("fog", Entry{Generate: func(u, v float64) float64 { return 0 }})
	m, err := c.Load("fog")
	require.NoError(t, err)
	assert.InDelta(t, 1, m.At(0.5, 0.5), 1e-9)
}

func TestCatalogMissingFile(t *testing.T) {
	c := NewCatalog(t.TempDir())
	c.Register("wave", Entry{File: "transition_wave.png"})
	_, err := c.Load("wave")
	assert.ErrorIs(t, err, ErrMissingMask)
}

func TestRender(t *testing.T) {
	g := Render(swipe(), 10, 1)
	assert.Less(t, g.GrayAt(0, 0).Y, g.GrayAt(9, 0).Y)
}
