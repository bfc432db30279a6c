package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"slider/internal/deck"
	"slider/internal/execcode"
	"slider/internal/render/raster"
	"slider/internal/theme"
	"slider/internal/transition"
)

// Exit codes for startup failures.
const (
	exitSlides = 1
	exitTheme  = 2
	exitAsset  = 3
	exitOther  = 4
)

type options struct {
	directory   string
	slides      string
	theme       string
	automatic   float64
	screenshot  string
	execCode    bool
	execTimeout time.Duration
	number      int
	demo        bool
	assets      string
	debug       bool
}

// path resolves a file name against the slideshow directory.
func (o *options) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.directory, name)
}

func (o *options) assetsDir() string {
	if o.assets == "" {
		return o.directory
	}
	return o.assets
}

func (o *options) validate() error {
	if o.number < 1 {
		return fmt.Errorf("--number must be at least 1, got %d", o.number)
	}
	if o.automatic < 0 {
		return fmt.Errorf("--automatic can't be negative, got %v", o.automatic)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "slider",
		Short:         "Show Markdown files as a slideshow in the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			log, closeLog, err := newLogger(o.debug)
			if err != nil {
				return err
			}
			defer closeLog()

			p, err := load(o, log)
			if err != nil {
				return err
			}
			d, err := p.termDeck(80, 24, o)
			if err != nil {
				return err
			}
			m := newModel(cmd.Context(), o, p, d)
			if w, err := newWatcher(p.source); err != nil {
				log.Warn("not watching slides for changes", "err", err)
			} else {
				defer w.Close()
				m.watcher = w
			}

			prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("running program: %w", err)
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&o.directory, "directory", "d", "assets", "directory to load slideshow files from")
	f.StringVarP(&o.slides, "slides", "s", "slides.md", "Markdown file with the slides; empty reads every .md file in the directory")
	f.StringVarP(&o.theme, "theme", "t", "default-theme.json", "theme file, JSON or TOML")
	f.StringVarP(&o.assets, "assets", "A", "", "directory with transition masks (default is --directory)")
	f.BoolVar(&o.debug, "debug", false, "write a debug log to slider.log")

	cmd.Flags().Float64VarP(&o.automatic, "automatic", "a", 0, "switch slides every N seconds")
	cmd.Flags().StringVarP(&o.screenshot, "screenshot", "S", "screenshot.png", "where to save screenshots")
	cmd.Flags().BoolVar(&o.execCode, "enable-code-execution", false, "allow running code blocks with Enter")
	cmd.Flags().DurationVar(&o.execTimeout, "exec-timeout", execcode.DefaultTimeout, "time limit for running a code block")
	cmd.Flags().IntVarP(&o.number, "number", "n", 1, "slide number to start at")
	cmd.Flags().BoolVar(&o.demo, "demo-transitions", false, "use a different transition for every slide")

	cmd.AddCommand(newExportCmd(o))
	return cmd
}

// newLogger logs to slider.log when debugging and nowhere otherwise; the
// terminal belongs to the slideshow.
func newLogger(debug bool) (*slog.Logger, func() error, error) {
	if !debug {
		log := slog.New(slog.DiscardHandler)
		slog.SetDefault(log)
		return log, func() error { return nil }, nil
	}
	f, err := tea.LogToFile("slider.log", "slider")
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(log)
	return log, f.Close, nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, deck.ErrUnreadable), errors.Is(err, deck.ErrNoSlides):
		return exitSlides
	case errors.Is(err, theme.ErrMalformed):
		return exitTheme
	case errors.Is(err, raster.ErrMissingFont), errors.Is(err, transition.ErrMissingMask):
		return exitAsset
	default:
		return exitOther
	}
}

func run(args []string, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
