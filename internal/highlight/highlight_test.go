package highlight

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joined(l Line) string {
	var sb strings.Builder
	for _, t := range l {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func TestHighlightOneLinePerSourceLine(t *testing.T) {
	h := New("solarized-dark")
	code := "package main\n\nfunc main() {\n\tprintln(1)\n}\n"
	lines := h.Highlight(code, "go")
	require.Len(t, lines, 5)
	assert.Equal(t, "package main\n", joined(lines[0]))
	assert.Equal(t, "\tprintln(1)\n", joined(lines[3]))
}

func TestHighlightColorsKeywords(t *testing.T) {
	h := New("solarized-dark")
	lines := h.Highlight("func f() string { return \"s\" }\n", "go")
	require.NotEmpty(t, lines)
	var kw, str *Token
	for i := range lines[0] {
		tok := &lines[0][i]
		switch tok.Text {
		case "func":
			kw = tok
		case `"s"`:
			str = tok
		}
	}
	require.NotNil(t, kw)
	require.NotNil(t, str)
	assert.NotEqual(t, kw.Color, str.Color)
}

func TestLexerSelection(t *testing.T) {
	assert.Equal(t, "Go", Lexer("x := 1", "go").Config().Name)
	assert.Equal(t, "Bash", Lexer("#!/bin/bash\necho hi\n", "").Config().Name)
	fallback := lexers.Fallback.Config().Name
	assert.Equal(t, fallback, Lexer("just words", "").Config().Name)
	assert.Equal(t, fallback, Lexer("just words", "no-such-language").Config().Name)
}

func TestUnknownStyleFallsBack(t *testing.T) {
	h := New("no-such-style")
	lines := h.Highlight("hello\nworld\n", "")
	require.Len(t, lines, 2)
	assert.Equal(t, "world\n", joined(lines[1]))
}
