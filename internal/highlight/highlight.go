// Package highlight performs syntax highlighting of code blocks with chroma,
// returning colored token runs grouped by source line.
package highlight

import (
	"image/color"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Token is one highlighted run of text.
type Token struct {
	Text   string
	Color  color.RGBA
	Bold   bool
	Italic bool
}

// Line is the tokens of one physical source line.
type Line []Token

// Highlighter highlights code using one chroma style.
type Highlighter struct {
	style *chroma.Style
	plain color.RGBA
}

// New returns a Highlighter for the named chroma style. Unknown names use
// chroma's fallback style.
func New(styleName string) *Highlighter {
	st := styles.Get(styleName)
	h := &Highlighter{style: st, plain: color.RGBA{0xff, 0xff, 0xff, 0xff}}
	if c := st.Get(chroma.Text).Colour; c.IsSet() {
		h.plain = rgba(c)
	}
	return h
}

// Lexer picks a lexer from the language hint, else by analysing the first
// line of code, else plain text.
func Lexer(code, language string) chroma.Lexer {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		first, _, _ := strings.Cut(code, "\n")
		lexer = lexers.Analyse(first)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Highlight splits code into lines of colored tokens. Token text keeps its
// trailing newline and tabs; callers decide how to display them.
func (h *Highlighter) Highlight(code, language string) []Line {
	iterator, err := Lexer(code, language).Tokenise(nil, code)
	if err != nil {
		return h.plainLines(code)
	}
	var lines []Line
	for _, toks := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		line := make(Line, 0, len(toks))
		for _, tok := range toks {
			if tok.Value == "" {
				continue
			}
			line = append(line, h.token(tok))
		}
		lines = append(lines, line)
	}
	return lines
}

func (h *Highlighter) token(tok chroma.Token) Token {
	entry := h.style.Get(tok.Type)
	t := Token{
		Text:   tok.Value,
		Color:  h.plain,
		Bold:   entry.Bold == chroma.Yes,
		Italic: entry.Italic == chroma.Yes,
	}
	if entry.Colour.IsSet() {
		t.Color = rgba(entry.Colour)
	}
	return t
}

func (h *Highlighter) plainLines(code string) []Line {
	var lines []Line
	for _, l := range strings.SplitAfter(code, "\n") {
		if l == "" {
			continue
		}
		lines = append(lines, Line{{Text: l, Color: h.plain}})
	}
	return lines
}

func rgba(c chroma.Colour) color.RGBA {
	return color.RGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: 0xff}
}
