// Package theme holds the presentation theme: colors, fonts, sizes, spacing
// and the transition used between slides.
package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrMalformed is returned by Load when the theme file exists but cannot be decoded.
var ErrMalformed = errors.New("malformed theme file")

// Alignment is the horizontal alignment of boxes and lines.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
	AlignCenter Alignment = "center"
)

// Normalize maps unknown values to center, like the renderer does.
func (a Alignment) Normalize() Alignment {
	switch Alignment(strings.ToLower(string(a))) {
	case AlignLeft:
		return AlignLeft
	case AlignRight:
		return AlignRight
	default:
		return AlignCenter
	}
}

// Theme is read once at startup and consumed read-only while slides are built.
// Sizes and offsets are in pixels; the terminal backend maps them onto cells.
type Theme struct {
	BackgroundImage string `json:"background_image" toml:"background_image"`
	BackgroundColor Color  `json:"background_color" toml:"background_color"`
	HeadingColor    Color  `json:"heading_color" toml:"heading_color"`
	TextColor       Color  `json:"text_color" toml:"text_color"`

	Align Alignment `json:"align" toml:"align"`

	// Font paths. Empty selects the bundled Go fonts.
	Font       string `json:"font" toml:"font"`
	FontBold   string `json:"font_bold" toml:"font_bold"`
	FontItalic string `json:"font_italic" toml:"font_italic"`
	FontCode   string `json:"font_code" toml:"font_code"`

	FontSizeHeaderTitle  float32 `json:"font_size_header_title" toml:"font_size_header_title"`
	FontSizeHeaderSlides float32 `json:"font_size_header_slides" toml:"font_size_header_slides"`
	// FontSizeHeaderStep is subtracted once per heading level below 2.
	FontSizeHeaderStep float32 `json:"font_size_header_step" toml:"font_size_header_step"`
	FontSizeText       float32 `json:"font_size_text" toml:"font_size_text"`

	VerticalOffset   float32 `json:"vertical_offset" toml:"vertical_offset"`
	HorizontalOffset float32 `json:"horizontal_offset" toml:"horizontal_offset"`
	LineHeight       float32 `json:"line_height" toml:"line_height"`

	BlockquoteBackgroundColor Color   `json:"blockquote_background_color" toml:"blockquote_background_color"`
	BlockquotePadding         float32 `json:"blockquote_padding" toml:"blockquote_padding"`
	BlockquoteLeftQuote       string  `json:"blockquote_left_quote" toml:"blockquote_left_quote"`
	BlockquoteRightQuote      string  `json:"blockquote_right_quote" toml:"blockquote_right_quote"`

	FontCodeSize        float32 `json:"font_code_size" toml:"font_code_size"`
	CodeLineHeight      float32 `json:"code_line_height" toml:"code_line_height"`
	CodeBackgroundColor Color   `json:"code_background_color" toml:"code_background_color"`
	CodeTheme           string  `json:"code_theme" toml:"code_theme"`
	CodeTabWidth        int     `json:"code_tab_width" toml:"code_tab_width"`

	Bullet     string `json:"bullet" toml:"bullet"`
	Shader     bool   `json:"shader" toml:"shader"`
	Transition string `json:"transition" toml:"transition"`
}

// Default returns the built-in theme.
func Default() Theme {
	return Theme{
		BackgroundColor: RGB(48, 25, 52),
		HeadingColor:    RGB(177, 156, 217),
		TextColor:       RGB(255, 255, 255),
		Align:           AlignCenter,

		FontSizeHeaderTitle:  100,
		FontSizeHeaderSlides: 80,
		FontSizeHeaderStep:   10,
		FontSizeText:         40,

		VerticalOffset:   20,
		HorizontalOffset: 20,
		LineHeight:       2,

		BlockquoteBackgroundColor: RGB(51, 51, 51),
		BlockquotePadding:         20,
		BlockquoteLeftQuote:       "“",
		BlockquoteRightQuote:      "„",

		FontCodeSize:        20,
		CodeLineHeight:      1.2,
		CodeBackgroundColor: RGB(0, 43, 54),
		CodeTheme:           "solarized-dark",
		CodeTabWidth:        4,

		Bullet:     "• ",
		Shader:     true,
		Transition: "swipe",
	}
}

// Load reads a theme file. A missing or empty file yields the defaults;
// a file that fails to decode yields an error wrapping ErrMalformed.
// Fields absent from the file keep their default values.
func Load(path string) (Theme, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("read theme %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return t, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &t)
	} else {
		err = json.Unmarshal(data, &t)
	}
	if err != nil {
		return Default(), fmt.Errorf("%w %s: %v", ErrMalformed, path, err)
	}
	t.normalize()
	return t, nil
}

func (t *Theme) normalize() {
	d := Default()
	t.Align = t.Align.Normalize()
	if t.CodeTabWidth < 0 {
		t.CodeTabWidth = 0
	}
	if t.LineHeight <= 0 {
		t.LineHeight = d.LineHeight
	}
	if t.CodeLineHeight <= 0 {
		t.CodeLineHeight = d.CodeLineHeight
	}
	if t.Transition == "" {
		t.Transition = d.Transition
	}
}

// HeadingSize returns the font size for a heading level.
func (t Theme) HeadingSize(level int) float32 {
	if level <= 1 {
		return t.FontSizeHeaderTitle
	}
	size := t.FontSizeHeaderSlides - float32(level-2)*t.FontSizeHeaderStep
	if size < t.FontSizeText {
		return t.FontSizeText
	}
	return size
}

// TabSpaces is the replacement for a tab character inside code blocks.
func (t Theme) TabSpaces() string {
	return strings.Repeat(" ", t.CodeTabWidth)
}
