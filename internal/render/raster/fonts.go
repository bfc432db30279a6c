// Package raster renders slides into images with real font metrics. It
// backs screenshots and the export command.
package raster

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"slider/internal/layout"
	"slider/internal/theme"
)

// ErrMissingFont is returned when a font file named by the theme can't be
// read.
var ErrMissingFont = errors.New("font missing")

// Fonts holds one parsed typeface per layout font and caches sized faces.
// It implements layout.Measurer.
type Fonts struct {
	fonts map[layout.Font]*opentype.Font

	mu    sync.Mutex
	faces map[layout.Face]font.Face
}

// LoadFonts parses the theme's fonts. Empty paths use the Go fonts.
func LoadFonts(t theme.Theme) (*Fonts, error) {
	sources := []struct {
		font     layout.Font
		path     string
		fallback []byte
	}{
		{layout.FontRegular, t.Font, goregular.TTF},
		{layout.FontBold, t.FontBold, gobold.TTF},
		{layout.FontItalic, t.FontItalic, goitalic.TTF},
		{layout.FontCode, t.FontCode, gomono.TTF},
	}
	f := &Fonts{
		fonts: make(map[layout.Font]*opentype.Font, len(sources)),
		faces: make(map[layout.Face]font.Face),
	}
	for _, src := range sources {
		data := src.fallback
		if src.path != "" {
			var err error
			data, err = os.ReadFile(src.path)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMissingFont, src.path, err)
			}
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", src.font, err)
		}
		f.fonts[src.font] = parsed
	}
	return f, nil
}

// Face returns the font face for a layout face, sized in pixels. Sizes the
// font can't be scaled to fall back to a fixed bitmap face.
func (f *Fonts) Face(face layout.Face) font.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ff, ok := f.faces[face]; ok {
		return ff
	}
	parsed, ok := f.fonts[face.Font]
	if !ok {
		parsed = f.fonts[layout.FontRegular]
	}
	ff, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(face.Size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		ff = basicfont.Face7x13
	}
	f.faces[face] = ff
	return ff
}

func (f *Fonts) Measure(text string, face layout.Face) layout.Metrics {
	ff := f.Face(face)
	return layout.Metrics{
		Width:   toFloat(font.MeasureString(ff, text)),
		Height:  face.Size,
		OffsetY: toFloat(ff.Metrics().Ascent),
	}
}

func toFloat(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

func toFixed(x float32) fixed.Int26_6 {
	return fixed.Int26_6(x * 64)
}
