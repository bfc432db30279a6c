package main

import (
	"fmt"
	"image/color"
	"log/slog"

	"slider/internal/deck"
	"slider/internal/execcode"
	"slider/internal/highlight"
	"slider/internal/layout"
	"slider/internal/render/raster"
	"slider/internal/render/term"
	"slider/internal/theme"
	"slider/internal/transition"
)

// presentation is everything loaded from disk before the slideshow starts.
type presentation struct {
	source      deck.Source
	theme       theme.Theme
	catalog     *transition.Catalog
	transition  string
	mask        transition.Mask
	fonts       *raster.Fonts
	images      layout.ImageLoader
	highlighter *highlight.Highlighter
	log         *slog.Logger
}

func load(o *options, log *slog.Logger) (*presentation, error) {
	t, err := theme.Load(o.path(o.theme))
	if err != nil {
		return nil, err
	}
	src, err := deck.Read(o.path(o.slides))
	if err != nil {
		return nil, err
	}
	fonts, err := raster.LoadFonts(t)
	if err != nil {
		return nil, err
	}

	catalog := transition.DefaultCatalog(o.assetsDir())
	name := t.Transition
	if !catalog.Has(name) {
		log.Warn("unknown transition, using the default", "transition", name)
		name = theme.Default().Transition
	}
	mask, err := catalog.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load transition %s: %w", name, err)
	}

	log.Debug("loaded presentation", "slides", src.Path, "theme", o.path(o.theme), "transition", name)
	return &presentation{
		source:      src,
		theme:       t,
		catalog:     catalog,
		transition:  name,
		mask:        mask,
		fonts:       fonts,
		images:      layout.DirLoader{Dir: o.directory},
		highlighter: highlight.New(t.CodeTheme),
		log:         log,
	}, nil
}

// title is shown in the status bar.
func (p *presentation) title(d *deck.Deck) string {
	if t := d.Meta().Title; t != "" {
		return t
	}
	if p.source.Title != "" {
		return p.source.Title
	}
	return "Slider"
}

// termBuilder lays slides out for a terminal of cols×rows.
func (p *presentation) termBuilder(cols, rows int) *layout.Builder {
	return layout.NewBuilder(term.Theme(p.theme), term.Measurer{}, p.highlighter,
		layout.WithImageLoader(p.images),
		layout.WithImageBounds(term.Pixels(cols, rows)),
		layout.WithLogger(p.log),
	)
}

// termDeck parses the slides for the terminal.
func (p *presentation) termDeck(cols, rows int, o *options, extra ...deck.Option) (*deck.Deck, error) {
	opts := []deck.Option{
		deck.WithAutomatic(o.automatic),
		deck.WithTransitioner(transition.New(p.mask, transition.DefaultFade)),
		deck.WithRunner(&execcode.Runner{Timeout: o.execTimeout, Log: p.log}),
		deck.WithImageLoader(p.images),
		deck.WithLogger(p.log),
		deck.WithActive(o.number - 1),
	}
	return deck.Parse(p.source.Markdown, p.termBuilder(cols, rows), append(opts, extra...)...)
}

// rasterDeck parses the slides for images of width×height pixels.
func (p *presentation) rasterDeck(width, height int) (*deck.Deck, error) {
	b := layout.NewBuilder(p.theme, p.fonts, p.highlighter,
		layout.WithImageLoader(p.images),
		layout.WithImageBounds(float32(width), float32(height)),
		layout.WithLogger(p.log),
	)
	return deck.Parse(p.source.Markdown, b, deck.WithImageLoader(p.images), deck.WithLogger(p.log))
}

// renderer draws screenshots and exports with the full pixel theme.
func (p *presentation) renderer(width, height int, crt bool) *raster.Renderer {
	r := raster.NewRenderer(p.fonts, width, height, crt)
	r.SetTheme(p.theme)
	return r
}

func background(t theme.Theme) color.RGBA {
	return color.RGBA(t.BackgroundColor)
}
