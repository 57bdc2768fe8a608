package main

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-city/engine"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer"
	"github.com/spf13/cobra"
)

func snapshotCmd(opts *rootOptions) *cobra.Command {
	var (
		out string
		at  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Ray-trace one frame of the city on the CPU and save it as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := opts.world()
			if err != nil {
				return err
			}
			// The CPU backend is slow at window sizes; keep the default image small.
			if opts.width <= 0 {
				w.cfg.Window.Width = 480
			}
			if opts.height <= 0 {
				w.cfg.Window.Height = 270
			}
			w.advance(at)

			start := time.Now()
			triangles, err := renderSnapshot(w, out)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).ok("%s %dx%d, %d triangles, %s theme, in %s",
				out, w.cfg.Window.Width, w.cfg.Window.Height, triangles, w.scene.Theme(),
				time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "city.png", "PNG file to write")
	cmd.Flags().DurationVar(&at, "at", 0, "scene time to capture, e.g. 4s for the first yellow")
	return cmd
}

func renderSnapshot(w *world, path string) (int, error) {
	r, err := renderer.NewRenderer(renderer.BackendTypeSoftware, nil,
		renderer.WithSize(w.cfg.Window.Width, w.cfg.Window.Height))
	if err != nil {
		return 0, err
	}
	defer r.Release()
	w.camera.SetAspect(r.Aspect())

	composer := engine.NewFrameComposer(nil)
	defer composer.Release()

	frame := composer.Compose(w.scene, w.camera)
	if err := r.Draw(frame); err != nil {
		return 0, fmt.Errorf("drawing snapshot: %w", err)
	}
	if err := r.Capture(path); err != nil {
		return 0, err
	}
	return frame.Static.Triangles() + frame.Dynamic.Triangles(), nil
}
