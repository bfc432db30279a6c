package layout

import (
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"slider/internal/markdown"
	"slider/internal/theme"
)

// Builder lays out slide blocks as draw boxes using a theme, a text
// measurer and a syntax highlighter.
type Builder struct {
	theme       theme.Theme
	measurer    Measurer
	highlighter Highlighter
	images      ImageLoader
	maxImageW   float32
	maxImageH   float32
	log         *slog.Logger
}

type Option func(*Builder)

// WithImageLoader sets where image paragraphs are loaded from. Without one,
// image boxes are empty.
func WithImageLoader(l ImageLoader) Option {
	return func(b *Builder) { b.images = l }
}

// WithImageBounds scales images down to fit w×h. Zero disables a bound.
func WithImageBounds(w, h float32) Option {
	return func(b *Builder) { b.maxImageW, b.maxImageH = w, h }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.log = l }
}

func NewBuilder(t theme.Theme, m Measurer, h Highlighter, opts ...Option) *Builder {
	b := &Builder{
		theme:       t,
		measurer:    m,
		highlighter: h,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Theme() theme.Theme       { return b.theme }
func (b *Builder) Highlighter() Highlighter { return b.highlighter }
func (b *Builder) Images() ImageLoader      { return b.images }

// Boxes lays out the blocks of one slide. An empty slide has no boxes.
func (b *Builder) Boxes(blocks []markdown.Block) []DrawBox {
	return b.blocksToBoxes(blocks, nil, Style{Kind: StyleStandard})
}

// flow collects consecutive inline-flow lines until a block that needs its
// own box forces them into a text box.
type flow struct {
	b          *Builder
	background *color.RGBA
	style      Style
	padding    float32
	lines      []TextLine
	boxes      []DrawBox
}

func (f *flow) flush() {
	if len(f.lines) == 0 {
		return
	}
	f.boxes = append(f.boxes, NewTextBox(f.lines, f.b.theme.VerticalOffset, f.background, f.style, f.padding))
	f.lines = nil
}

func (f *flow) emit(boxes ...DrawBox) {
	f.flush()
	f.boxes = append(f.boxes, boxes...)
}

func (b *Builder) blocksToBoxes(blocks []markdown.Block, background *color.RGBA, style Style) []DrawBox {
	f := &flow{b: b, background: background, style: style, padding: BoxPadding}
	if style.Kind == StyleBlockquote {
		f.padding = b.theme.BlockquotePadding
	}
	t := b.theme
	for _, block := range blocks {
		switch block := block.(type) {
		case markdown.Heading:
			if block.Level <= 1 {
				lines := b.spansToLines(block.Spans, FontRegular, t.HeadingSize(1), color.RGBA(t.HeadingColor), t.Align)
				f.emit(NewTextBox(lines, t.VerticalOffset, background, Style{Kind: StyleTitle}, f.padding))
				continue
			}
			f.lines = append(f.lines, b.spansToLines(block.Spans, FontRegular, t.HeadingSize(block.Level), color.RGBA(t.HeadingColor), t.Align)...)
		case markdown.Paragraph:
			if img, ok := markdown.ImageOnly(block.Spans); ok {
				if img.IsBackground() {
					continue
				}
				f.emit(b.imageBox(img.Dest))
				continue
			}
			f.lines = append(f.lines, b.spansToLines(block.Spans, FontRegular, t.FontSizeText, color.RGBA(t.TextColor), t.Align)...)
		case markdown.List:
			f.lines = append(f.lines, b.listLines(block)...)
		case markdown.Blockquote:
			bg := color.RGBA(t.BlockquoteBackgroundColor)
			f.emit(b.blocksToBoxes(block.Blocks, &bg, b.quoteStyle())...)
		case markdown.CodeBlock:
			f.emit(b.CodeBox(block.Language, block.Code))
		}
	}
	f.flush()
	return f.boxes
}

func (b *Builder) quoteStyle() Style {
	face := Face{Font: FontRegular, Size: b.theme.FontSizeHeaderTitle * 2}
	q := &Quote{
		Face:  face,
		Color: color.RGBA(b.theme.TextColor),
		Left:  b.theme.BlockquoteLeftQuote,
		Right: b.theme.BlockquoteRightQuote,
	}
	q.LeftWidth = b.measurer.Measure(q.Left, face).Width
	return Style{Kind: StyleBlockquote, Quote: q}
}

func (b *Builder) listLines(list markdown.List) []TextLine {
	t := b.theme
	var lines []TextLine
	for i, item := range list.Items {
		bullet := t.Bullet
		if list.Ordered {
			bullet = strconv.Itoa(i+1) + ". "
		}
		acc := newLineAcc()
		acc.add(NewTextPartial(b.measurer, bullet, Face{FontRegular, t.FontSizeText}, color.RGBA(t.TextColor), t.LineHeight))
		b.collectSpans(acc, item.Spans, FontRegular, t.FontSizeText, color.RGBA(t.TextColor))
		for _, partials := range acc.lines {
			lines = append(lines, NewTextLine(theme.AlignLeft, partials))
		}
	}
	return lines
}

// lineAcc accumulates partials, starting a new line at hard breaks.
type lineAcc struct {
	lines [][]TextPartial
}

func newLineAcc() *lineAcc {
	return &lineAcc{lines: [][]TextPartial{nil}}
}

func (a *lineAcc) add(p TextPartial) {
	a.lines[len(a.lines)-1] = append(a.lines[len(a.lines)-1], p)
}

func (a *lineAcc) breakLine() {
	a.lines = append(a.lines, nil)
}

func (b *Builder) spansToLines(spans []markdown.Span, font Font, size float32, c color.RGBA, align theme.Alignment) []TextLine {
	acc := newLineAcc()
	b.collectSpans(acc, spans, font, size, c)
	lines := make([]TextLine, 0, len(acc.lines))
	for _, partials := range acc.lines {
		lines = append(lines, NewTextLine(align, partials))
	}
	return lines
}

// collectSpans converts spans to partials. Text uses the given font, code
// spans the code font, emphasis and strong recurse with italic and bold.
// Other spans are not shown.
func (b *Builder) collectSpans(acc *lineAcc, spans []markdown.Span, font Font, size float32, c color.RGBA) {
	lh := b.theme.LineHeight
	for _, span := range spans {
		switch span := span.(type) {
		case markdown.Text:
			acc.add(NewTextPartial(b.measurer, span.Text, Face{font, size}, c, lh))
		case markdown.Code:
			acc.add(NewTextPartial(b.measurer, span.Text, Face{FontCode, size}, color.RGBA(b.theme.TextColor), lh))
		case markdown.Emphasis:
			b.collectSpans(acc, span.Spans, FontItalic, size, c)
		case markdown.Strong:
			b.collectSpans(acc, span.Spans, FontBold, size, c)
		case markdown.LineBreak:
			acc.breakLine()
		}
	}
}

// CodeBox builds a highlighted code box. An empty language lets the
// highlighter guess from the first line.
func (b *Builder) CodeBox(language, code string) *CodeBox {
	bg := color.RGBA(b.theme.CodeBackgroundColor)
	tb := NewTextBox(b.codeLines(language, code), 0, &bg, Style{Kind: StyleCode}, BoxPadding)
	return NewCodeBox(tb, b.theme.VerticalOffset, &bg)
}

func (b *Builder) codeLines(language, code string) []TextLine {
	t := b.theme
	tabs := t.TabSpaces()
	var lines []TextLine
	for _, tokens := range b.highlighter.Highlight(code, language) {
		var partials []TextPartial
		for _, tok := range tokens {
			text := strings.ReplaceAll(strings.TrimRight(tok.Text, "\r\n"), "\t", tabs)
			if text == "" {
				continue
			}
			font := FontCode
			switch {
			case tok.Bold:
				font = FontBold
			case tok.Italic:
				font = FontItalic
			}
			partials = append(partials, NewTextPartial(b.measurer, text, Face{font, t.FontCodeSize}, tok.Color, t.CodeLineHeight))
		}
		if len(partials) == 0 {
			// keep blank source lines at full height
			partials = append(partials, NewTextPartial(b.measurer, "", Face{FontCode, t.FontCodeSize}, color.RGBA(t.TextColor), t.CodeLineHeight))
		}
		lines = append(lines, NewTextLine(theme.AlignLeft, partials))
	}
	return lines
}

func (b *Builder) imageBox(path string) *ImageBox {
	if b.images == nil {
		return NewImageBox(path, nil, 0, 0, 0)
	}
	img, err := b.images.Load(path)
	if err != nil {
		b.log.Error("couldn't load image file", "path", path, "err", err)
		return NewImageBox(path, nil, 0, 0, 0)
	}
	w, h := fit(float32(img.Bounds().Dx()), float32(img.Bounds().Dy()), b.maxImageW, b.maxImageH)
	return NewImageBox(path, img, w, h, 0)
}

// fit scales w×h down, keeping the aspect ratio, so it fits inside the
// bounds. Zero bounds are ignored.
func fit(w, h, maxW, maxH float32) (float32, float32) {
	scale := float32(1)
	if maxW > 0 && w > maxW {
		scale = min(scale, maxW/w)
	}
	if maxH > 0 && h > maxH {
		scale = min(scale, maxH/h)
	}
	return w * scale, h * scale
}
