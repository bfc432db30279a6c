package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slider/internal/render/raster"
)

type exportOptions struct {
	out    string
	gif    string
	width  int
	height int
	fps    int
	hold   float64
	crt    bool
}

func newExportCmd(o *options) *cobra.Command {
	e := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every slide to PNG files, or an animated GIF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := newLogger(o.debug)
			if err != nil {
				return err
			}
			defer closeLog()

			p, err := load(o, log)
			if err != nil {
				return err
			}
			return export(p, e, cmd)
		},
	}

	cmd.Flags().StringVarP(&e.out, "out", "o", "slides", "directory for the PNG files; empty skips them")
	cmd.Flags().StringVar(&e.gif, "gif", "", "also write an animated GIF of the whole deck")
	cmd.Flags().IntVar(&e.width, "width", 1920, "image width in pixels")
	cmd.Flags().IntVar(&e.height, "height", 1080, "image height in pixels")
	cmd.Flags().IntVar(&e.fps, "fps", 15, "frames per second of the GIF transitions")
	cmd.Flags().Float64Var(&e.hold, "hold", 3, "seconds each slide is shown in the GIF")
	cmd.Flags().BoolVar(&e.crt, "crt", false, "apply the CRT effect")
	return cmd
}

func export(p *presentation, e *exportOptions, cmd *cobra.Command) error {
	if e.width <= 0 || e.height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", e.width, e.height)
	}
	if e.out == "" && e.gif == "" {
		return errors.New("nothing to export: both --out and --gif are empty")
	}
	if e.out != "" {
		if err := os.MkdirAll(e.out, 0o755); err != nil {
			return err
		}
	}

	d, err := p.rasterDeck(e.width, e.height)
	if err != nil {
		return err
	}
	r := p.renderer(e.width, e.height, e.crt)
	err = r.Export(d, raster.ExportOptions{
		Dir:  e.out,
		GIF:  e.gif,
		FPS:  e.fps,
		Hold: e.hold,
		Mask: p.mask,
		Log:  p.log,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d slides\n", d.Len())
	return nil
}
