package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"slider/internal/deck"
	"slider/internal/render/raster"
	"slider/internal/render/term"
)

const (
	fps = 30
	// status line and progress bar
	chromeHeight  = 2
	flashDuration = 3 * time.Second

	screenshotWidth  = 1920
	screenshotHeight = 1080
)

type (
	frameMsg      time.Time
	codeOutputMsg struct {
		slide  int
		output string
	}
	screenshotMsg struct {
		path string
		err  error
	}
	flashTimeoutMsg struct{ id int }
)

type model struct {
	ctx     context.Context
	opts    *options
	pres    *presentation
	deck    *deck.Deck
	watcher *watcher

	width  int
	height int
	// grid is the last frame drawn, before effects; prev is the frame that
	// was showing when the slide changed.
	grid    *term.Grid
	prev    *term.Grid
	frame   string
	crt     bool
	ticking bool
	last    time.Time

	transition string
	showHelp   bool
	help       *glamour.TermRenderer
	progress   progress.Model
	flash      string
	flashID    int
	copier     copier
	profile    termenv.Profile
}

func newModel(ctx context.Context, o *options, p *presentation, d *deck.Deck) *model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &model{
		ctx:        ctx,
		opts:       o,
		pres:       p,
		crt:        p.theme.Shader,
		transition: p.transition,
		progress:   progress.New(progress.WithDefaultGradient()),
		copier:     newCopier(),
		profile:    lipgloss.ColorProfile(),
	}
	m.attach(d)
	return m
}

// attach makes d the deck on screen.
func (m *model) attach(d *deck.Deck) {
	m.deck = d
	d.OnNavigate(func() {
		m.prev = m.grid
		if m.opts.demo {
			m.nextTransition()
		}
	})
}

func (m *model) nextTransition() {
	name := m.pres.catalog.Next(m.transition)
	mask, err := m.pres.catalog.Load(name)
	if err != nil {
		m.pres.log.Warn("couldn't load transition", "transition", name, "err", err)
		return
	}
	m.transition = name
	m.deck.Transitioner().SetMask(mask)
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.setProgress(), m.startTicking(), m.watcher.wait())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m, m.navigate(m.deck.Next)
		case tea.MouseButtonRight:
			return m, m.navigate(m.deck.Prev)
		}
		return m, nil

	case frameMsg:
		return m, m.step(time.Time(msg))

	case codeOutputMsg:
		m.deck.AppendOutput(msg.slide, msg.output)
		m.render()
		return m, nil

	case screenshotMsg:
		if msg.err != nil {
			m.pres.log.Error("screenshot failed", "err", msg.err)
			return m, m.setFlash("Screenshot failed: " + msg.err.Error())
		}
		return m, m.setFlash("Saved " + msg.path)

	case reloadMsg:
		return m, tea.Batch(m.reload(), m.watcher.wait())

	case watchErrMsg:
		m.pres.log.Warn("watching slides failed", "err", msg.err)
		return m, m.watcher.wait()

	case flashTimeoutMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return nil
	}

	switch key {
	case "esc":
		return tea.Quit
	case "right", "l", "pgdown":
		return m.navigate(m.deck.Next)
	case "left", "h", "pgup":
		return m.navigate(m.deck.Prev)
	case "home", "g":
		return m.navigate(m.deck.First)
	case "end", "G":
		return m.navigate(m.deck.Last)
	case " ", "space":
		m.crt = !m.crt
		m.render()
	case "?", "f1":
		m.showHelp = true
	case "c":
		return m.copyCode()
	case "enter":
		return m.runCode()
	case "s":
		return m.screenshot()
	}
	return nil
}

// navigate runs a deck movement and starts the transition if the slide
// changed.
func (m *model) navigate(move func()) tea.Cmd {
	before := m.deck.Active()
	move()
	if m.deck.Active() == before {
		return nil
	}
	m.render()
	return tea.Batch(m.setProgress(), m.startTicking())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// startTicking starts the frame loop if the deck has something to animate
// and it isn't already running.
func (m *model) startTicking() tea.Cmd {
	if m.ticking || !m.deck.Animating() {
		return nil
	}
	m.ticking = true
	m.last = time.Now()
	return tick()
}

// step advances the deck to now and draws the frame.
func (m *model) step(now time.Time) tea.Cmd {
	delta := now.Sub(m.last).Seconds()
	m.last = now
	before := m.deck.Active()
	m.deck.Update(max(delta, 0))
	m.render()

	var cmds []tea.Cmd
	if m.deck.Active() != before {
		cmds = append(cmds, m.setProgress())
	}
	if m.deck.Animating() {
		cmds = append(cmds, tick())
	} else {
		m.ticking = false
	}
	return tea.Batch(cmds...)
}

func (m *model) rows() int {
	return max(m.height-chromeHeight, 1)
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	// Leave some margin
	m.progress.Width = max(width-4, 1)
	m.deck.Rebuild(m.pres.termBuilder(width, m.rows()))
	m.prev = nil
	m.help = newHelpRenderer(width)
	m.render()
}

// render draws the active slide, blends it with the previous one while a
// transition runs and applies the CRT effect.
func (m *model) render() {
	if m.width <= 0 {
		return
	}
	g := term.NewGrid(m.width, m.rows(), background(m.deck.Theme()))
	g.BoldAbove = m.deck.Theme().FontSizeText
	m.deck.Draw(g)
	if tr := m.deck.Transitioner(); tr != nil && tr.Transitioning() && m.prev != nil {
		g = term.Blend(m.prev, g, tr.Factor)
	}
	m.grid = g
	if m.crt {
		g = term.CRT(g)
	}
	m.frame = g.String(m.profile)
}

func (m *model) setProgress() tea.Cmd {
	return m.progress.SetPercent(float64(m.deck.Active()+1) / float64(m.deck.Len()))
}

func (m *model) setFlash(text string) tea.Cmd {
	m.flash = text
	m.flashID++
	id := m.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashTimeoutMsg{id: id}
	})
}

func (m *model) copyCode() tea.Cmd {
	code, ok := m.deck.Current().Code()
	if !ok {
		return m.setFlash("No code on this slide")
	}
	if err := m.copier.Copy(code.Source); err != nil {
		return m.setFlash("Couldn't copy code: " + err.Error())
	}
	return m.setFlash("Copied code to the clipboard")
}

// runCode runs the slide's code off the frame loop. The output goes to the
// slide that was active when it started.
func (m *model) runCode() tea.Cmd {
	if !m.opts.execCode {
		return nil
	}
	code, ok := m.deck.Current().Code()
	if !ok {
		return m.setFlash("No code on this slide")
	}
	slide := m.deck.Active()
	runner := m.deck.Runner()
	ctx := m.ctx
	return tea.Batch(
		m.setFlash(fmt.Sprintf("Running %s…", code.Language)),
		func() tea.Msg {
			return codeOutputMsg{slide: slide, output: runner.Run(ctx, code)}
		},
	)
}

// screenshot lays the deck out at full resolution now and renders it in
// the background.
func (m *model) screenshot() tea.Cmd {
	r := m.pres.renderer(screenshotWidth, screenshotHeight, m.crt)
	laid := r.Layout(m.deck)
	path := m.opts.screenshot
	return func() tea.Msg {
		img := r.Render(laid, laid.Active())
		return screenshotMsg{path: path, err: raster.SavePNG(path, img)}
	}
}

// reload parses the slides again, staying on the same slide if it still
// exists.
func (m *model) reload() tea.Cmd {
	src, err := deck.Read(m.pres.source.Path)
	if err != nil {
		m.pres.log.Warn("couldn't reload slides", "err", err)
		return m.setFlash("Couldn't reload slides: " + err.Error())
	}
	old := m.pres.source
	m.pres.source = src
	active := m.opts.number - 1
	if m.deck != nil {
		active = m.deck.Active()
	}
	cols, rows := m.width, m.rows()
	if cols <= 0 {
		cols, rows = 80, 24
	}
	d, err := m.pres.termDeck(cols, rows, m.opts, deck.WithActive(active))
	if err != nil {
		m.pres.source = old
		m.pres.log.Warn("couldn't reload slides", "err", err)
		return m.setFlash("Couldn't reload slides: " + err.Error())
	}
	d.Transitioner().SetMask(m.deck.Transitioner().Mask())
	m.attach(d)
	m.prev = nil
	m.render()
	m.pres.log.Info("reloaded slides", "slides", d.Len(), "active", d.Active())
	return tea.Batch(m.setProgress(), m.startTicking(), m.setFlash("Reloaded slides"))
}
