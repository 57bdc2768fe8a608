package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-city/engine"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer"
	"github.com/Carmen-Shannon/oxy-city/engine/window"
	"github.com/spf13/cobra"
)

func viewCmd(opts *rootOptions) *cobra.Command {
	var profile bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive city view (drag to orbit, wheel to zoom, T theme, R reset)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := opts.world()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("profile") {
				w.cfg.Profile = profile
			}
			return runView(cmd.Context(), w)
		},
	}
	cmd.Flags().BoolVar(&profile, "profile", false, "log frame statistics every second")
	return cmd
}

func runView(ctx context.Context, w *world) error {
	win, err := window.NewWindow(
		window.WithTitle(w.cfg.Window.Title),
		window.WithSize(w.cfg.Window.Width, w.cfg.Window.Height),
	)
	if err != nil {
		return fmt.Errorf("opening window: %w", err)
	}

	mode, _ := w.cfg.PresentModeValue()
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(w.scene),
		engine.WithCamera(w.camera),
		engine.WithTickRate(w.cfg.TickRate),
		engine.WithRenderFrameLimit(w.cfg.FrameLimit),
		engine.WithProfiling(w.cfg.Profile),
		engine.WithRendererOptions(
			renderer.WithPresentMode(mode),
			renderer.WithMSAA(w.cfg.MSAAValue()),
		),
	)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return eng.Run(ctx)
}
