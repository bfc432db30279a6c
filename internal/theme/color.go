package theme

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque RGBA color read from a "#rrggbb" hex string.
// Strings that do not parse decode as white.
type Color color.RGBA

// RGB returns an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// ParseHex parses "#rrggbb" (or "#rgb") into a Color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b), nil
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA(c).RGBA()
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	cf, _ := colorful.MakeColor(color.RGBA(c))
	return cf.Hex()
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		*c = RGB(0xff, 0xff, 0xff)
		return nil
	}
	*c = parsed
	return nil
}
