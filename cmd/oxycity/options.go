package main

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-city/engine/camera"
	"github.com/Carmen-Shannon/oxy-city/engine/config"
	"github.com/Carmen-Shannon/oxy-city/engine/layout"
	"github.com/Carmen-Shannon/oxy-city/engine/scene"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	layoutPath string
	theme      string
	width      int
	height     int
	quiet      bool
}

func (o *rootOptions) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "YAML settings file")
	f.StringVarP(&o.layoutPath, "layout", "l", "", "YAML layout tables overriding the built-in city")
	f.StringVarP(&o.theme, "theme", "t", "", "initial theme: day or night")
	f.IntVar(&o.width, "width", 0, "window or image width in pixels")
	f.IntVar(&o.height, "height", 0, "window or image height in pixels")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "discard log output")
}

// settings loads the config file and applies flag overrides.
func (o *rootOptions) settings() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.theme != "" {
		cfg.Theme = o.theme
	}
	if o.layoutPath != "" {
		cfg.Layout = o.layoutPath
	}
	if o.width > 0 {
		cfg.Window.Width = o.width
	}
	if o.height > 0 {
		cfg.Window.Height = o.height
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// world is everything a subcommand needs to draw or inspect the city.
type world struct {
	cfg       config.Config
	generator layout.Generator
	scene     scene.Scene
	camera    camera.Camera
}

func (o *rootOptions) world() (*world, error) {
	cfg, err := o.settings()
	if err != nil {
		return nil, err
	}

	genOpts := []layout.GeneratorBuilderOption{layout.WithQuiet(o.quiet)}
	if cfg.Layout != "" {
		tables, err := layout.LoadTables(cfg.Layout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Layout, err)
		}
		genOpts = append(genOpts, layout.WithTables(tables))
	}
	gen := layout.NewGenerator(genOpts...)

	theme, _ := cfg.ThemeValue()
	s := scene.NewScene(gen,
		scene.WithTheme(theme),
		scene.WithSignalPeriod(cfg.Period()),
		scene.WithStagger(cfg.Stagger()),
	)

	eye := cfg.EyeVec()
	cam := camera.NewCamera(
		camera.WithFov(cfg.FovRadians()),
		camera.WithClip(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithAspect(float32(cfg.Window.Width)/float32(cfg.Window.Height)),
		camera.WithController(camera.NewCameraController(
			camera.WithEye(eye.X, eye.Y, eye.Z),
		)),
	)

	return &world{cfg: cfg, generator: gen, scene: s, camera: cam}, nil
}

// advance runs the scene clock from a fixed origin to origin+at so headless output is
// reproducible.
func (w *world) advance(at time.Duration) {
	origin := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w.scene.Update(origin)
	if at > 0 {
		w.scene.Update(origin.Add(at))
	}
}
