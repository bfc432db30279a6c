// Package deck holds the slides of a presentation and the navigation,
// auto-advance and code execution state around them.
package deck

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"maps"
	"slices"

	"slider/internal/execcode"
	"slider/internal/layout"
	"slider/internal/markdown"
	"slider/internal/theme"
	"slider/internal/transition"
)

var ErrNoSlides = errors.New("no slides")

// Deck is an ordered list of slides and the index of the active one. The
// active index is always valid; navigation past either end is ignored.
type Deck struct {
	slides    []*Slide
	active    int
	time      float64
	automatic float64

	builder     *layout.Builder
	transition  *transition.Transitioner
	runner      *execcode.Runner
	images      layout.ImageLoader
	backgrounds map[string]image.Image
	onNavigate  func()
	meta        markdown.Meta
	log         *slog.Logger
}

type Option func(*Deck)

// WithAutomatic advances to the next slide every seconds. Zero disables it.
func WithAutomatic(seconds float64) Option {
	return func(d *Deck) { d.automatic = seconds }
}

func WithTransitioner(t *transition.Transitioner) Option {
	return func(d *Deck) { d.transition = t }
}

func WithRunner(r *execcode.Runner) Option {
	return func(d *Deck) { d.runner = r }
}

// WithImageLoader sets where background images are loaded from.
func WithImageLoader(l layout.ImageLoader) Option {
	return func(d *Deck) { d.images = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Deck) { d.log = l }
}

// WithActive selects the starting slide, clamped to the deck.
func WithActive(index int) Option {
	return func(d *Deck) { d.active = index }
}

// Parse sanitizes and tokenizes Markdown and builds one slide per group of
// blocks between horizontal rules.
func Parse(src string, b *layout.Builder, opts ...Option) (*Deck, error) {
	doc := markdown.Sanitize(src)
	groups := Split(markdown.Tokenize(doc.Body))
	if len(groups) == 0 {
		return nil, ErrNoSlides
	}
	d := New(b, groups, opts...)
	d.meta = doc.Meta
	return d, nil
}

// Split groups blocks into slides. Every rule closes the current group, even
// an empty one; the last group is kept only when it has blocks.
func Split(blocks []markdown.Block) [][]markdown.Block {
	var (
		groups  [][]markdown.Block
		current []markdown.Block
	)
	for _, block := range blocks {
		if _, ok := block.(markdown.Rule); ok {
			groups = append(groups, current)
			current = nil
			continue
		}
		current = append(current, block)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// New builds a deck from block groups, one slide each.
func New(b *layout.Builder, groups [][]markdown.Block, opts ...Option) *Deck {
	d := &Deck{
		builder:     b,
		backgrounds: make(map[string]image.Image),
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	for _, g := range groups {
		d.slides = append(d.slides, newSlide(b, g))
	}
	d.active = d.clamp(d.active)
	return d
}

func (d *Deck) Len() int                               { return len(d.slides) }
func (d *Deck) Active() int                            { return d.active }
func (d *Deck) Slide(i int) *Slide                     { return d.slides[i] }
func (d *Deck) Current() *Slide                        { return d.slides[d.active] }
func (d *Deck) Meta() markdown.Meta                    { return d.meta }
func (d *Deck) Time() float64                          { return d.time }
func (d *Deck) Builder() *layout.Builder               { return d.builder }
func (d *Deck) Theme() theme.Theme                     { return d.builder.Theme() }
func (d *Deck) Transitioner() *transition.Transitioner { return d.transition }

// OnNavigate registers fn to run before the active slide changes, while the
// previous slide is still the one on screen.
func (d *Deck) OnNavigate(fn func()) {
	d.onNavigate = fn
}

func (d *Deck) Next()  { d.Goto(d.active + 1) }
func (d *Deck) Prev()  { d.Goto(d.active - 1) }
func (d *Deck) First() { d.Goto(0) }
func (d *Deck) Last()  { d.Goto(len(d.slides) - 1) }

// Goto makes slide i active. Indexes outside the deck, and the active
// slide itself, are ignored.
func (d *Deck) Goto(i int) {
	if i < 0 || i >= len(d.slides) || i == d.active {
		return
	}
	if d.onNavigate != nil {
		d.onNavigate()
	}
	d.active = i
	d.time = 0
	if d.transition != nil {
		d.transition.Start()
	}
}

// Update advances the clocks by delta seconds, moving to the next slide
// when the auto-advance interval has passed.
func (d *Deck) Update(delta float64) {
	if d.automatic > 0 && d.time > d.automatic {
		d.Next()
	} else {
		d.time += delta
	}
	if d.transition != nil {
		d.transition.Update(delta)
	}
}

// Animating reports whether Update needs to keep being called.
func (d *Deck) Animating() bool {
	return d.automatic > 0 || (d.transition != nil && d.transition.Transitioning())
}

// Draw draws the active slide.
func (d *Deck) Draw(c layout.Canvas) {
	d.DrawSlide(c, d.active)
}

// DrawSlide clears the canvas to the background color, draws the background
// image and then the slide's boxes top to bottom.
func (d *Deck) DrawSlide(c layout.Canvas, i int) {
	t := d.builder.Theme()
	w, h := c.Size()
	c.FillRect(0, 0, w, h, color.RGBA(t.BackgroundColor))
	s := d.slides[i]
	if img := d.background(s); img != nil {
		c.DrawImage(img, 0, 0, w, h)
	}
	var vpos float32
	for _, box := range s.boxes {
		vpos = box.Draw(c, d.horizontalPosition(w, box.WidthWithPadding()), vpos)
	}
}

func (d *Deck) horizontalPosition(screenWidth, width float32) float32 {
	t := d.builder.Theme()
	switch t.Align {
	case theme.AlignLeft:
		return t.HorizontalOffset
	case theme.AlignRight:
		return screenWidth - t.HorizontalOffset - width
	default:
		return screenWidth/2 - width/2
	}
}

// background loads the slide's image, or the theme's, once. A missing
// image is logged and then treated as no background.
func (d *Deck) background(s *Slide) image.Image {
	path := s.background
	if path == "" {
		path = d.builder.Theme().BackgroundImage
	}
	if path == "" || d.images == nil {
		return nil
	}
	if img, ok := d.backgrounds[path]; ok {
		return img
	}
	img, err := d.images.Load(path)
	if err != nil {
		d.log.Warn("couldn't load background image", "path", path, "err", err)
		img = nil
	}
	d.backgrounds[path] = img
	return img
}

// RunCode runs the active slide's code and appends its output to it. It
// reports whether the slide had code to run.
func (d *Deck) RunCode(ctx context.Context) bool {
	code, ok := d.Current().Code()
	if !ok {
		return false
	}
	d.AppendOutput(d.active, d.Runner().Run(ctx, code))
	return true
}

// Runner is the code runner, never nil.
func (d *Deck) Runner() *execcode.Runner {
	if d.runner == nil {
		d.runner = &execcode.Runner{Log: d.log}
	}
	return d.runner
}

// AppendOutput adds a code box with out to slide i.
func (d *Deck) AppendOutput(i int, out string) {
	if i < 0 || i >= len(d.slides) {
		return
	}
	d.slides[i].appendOutput(d.builder, out)
}

// Rebuild lays out every slide again with b, keeping code outputs and the
// active slide.
func (d *Deck) Rebuild(b *layout.Builder) {
	d.builder = b
	for _, s := range d.slides {
		s.rebuild(b)
	}
}

// Clone returns a copy of the deck laid out with b. The copy keeps the
// active slide, code outputs and loaded backgrounds but shares no mutable
// state with d, so it can render on another goroutine. It has no navigation
// hook or transition.
func (d *Deck) Clone(b *layout.Builder) *Deck {
	c := &Deck{
		active:      d.active,
		automatic:   d.automatic,
		builder:     b,
		runner:      d.runner,
		images:      d.images,
		backgrounds: maps.Clone(d.backgrounds),
		meta:        d.meta,
		log:         d.log,
	}
	for _, s := range d.slides {
		ns := *s
		ns.outputs = slices.Clone(s.outputs)
		ns.rebuild(b)
		c.slides = append(c.slides, &ns)
	}
	return c
}

func (d *Deck) clamp(i int) int {
	return min(max(i, 0), max(len(d.slides)-1, 0))
}
