// Package config loads the view settings file.
package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTheme is returned when the theme is neither day nor night.
var ErrInvalidTheme = errors.New("invalid theme")

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type CameraConfig struct {
	// Fov is the vertical field of view in degrees.
	Fov  float32   `yaml:"fov"`
	Near float32   `yaml:"near"`
	Far  float32   `yaml:"far"`
	Eye  []float32 `yaml:"eye"`
}

type TrafficConfig struct {
	PeriodMs  int `yaml:"periodMs"`
	StaggerMs int `yaml:"staggerMs"`
}

// Config is the view settings file. Zero fields take the defaults from Default.
type Config struct {
	Window      WindowConfig  `yaml:"window"`
	TickRate    float64       `yaml:"tickRate"`
	FrameLimit  float64       `yaml:"frameLimit"`
	PresentMode string        `yaml:"presentMode"`
	MSAA        int           `yaml:"msaa"`
	Theme       string        `yaml:"theme"`
	Layout      string        `yaml:"layout"`
	Profile     bool          `yaml:"profile"`
	Camera      CameraConfig  `yaml:"camera"`
	Traffic     TrafficConfig `yaml:"traffic"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Window:      WindowConfig{Title: "Oxy City", Width: 1600, Height: 900},
		TickRate:    60,
		PresentMode: "vsync",
		MSAA:        4,
		Theme:       "day",
		Camera:      CameraConfig{Fov: 60, Near: 0.1, Far: 500, Eye: []float32{30, 20, 30}},
		Traffic:     TrafficConfig{PeriodMs: 3000},
	}
}

// Load reads settings from a YAML file. An empty path returns Default.
//
// Parameters:
//   - path: the YAML file, or ""
//
// Returns:
//   - Config: the settings with defaults applied
//   - error: on read, parse or validation failure
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("[Config] loaded %s", path)
	return c, nil
}

// Parse is Load over in-memory YAML.
func Parse(raw []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.PresentMode = common.Coalesce(c.PresentMode, d.PresentMode)
	c.MSAA = common.Coalesce(c.MSAA, d.MSAA)
	c.Theme = common.Coalesce(c.Theme, d.Theme)
	if c.Window.Width <= 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = d.Window.Height
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.FrameLimit < 0 {
		c.FrameLimit = 0
	}
	if c.Camera.Fov <= 0 {
		c.Camera.Fov = d.Camera.Fov
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = d.Camera.Near
	}
	if c.Camera.Far <= 0 {
		c.Camera.Far = d.Camera.Far
	}
	if len(c.Camera.Eye) == 0 {
		c.Camera.Eye = d.Camera.Eye
	}
	if c.Traffic.PeriodMs <= 0 {
		c.Traffic.PeriodMs = d.Traffic.PeriodMs
	}
	if c.Traffic.StaggerMs < 0 {
		c.Traffic.StaggerMs = 0
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if _, err := c.ThemeValue(); err != nil {
		return err
	}
	if _, err := c.PresentModeValue(); err != nil {
		return err
	}
	if c.MSAA != int(renderer.MSAAOff) && c.MSAA != int(renderer.MSAA4x) {
		return fmt.Errorf("msaa must be 1 or 4, got %d", c.MSAA)
	}
	if c.Camera.Fov >= 180 {
		return fmt.Errorf("camera fov must be below 180 degrees, got %g", c.Camera.Fov)
	}
	if c.Camera.Near >= c.Camera.Far {
		return fmt.Errorf("camera near (%g) must be less than far (%g)", c.Camera.Near, c.Camera.Far)
	}
	if len(c.Camera.Eye) != 3 {
		return fmt.Errorf("camera eye needs 3 components, got %d", len(c.Camera.Eye))
	}
	return nil
}

// ThemeValue parses Theme.
func (c Config) ThemeValue() (common.Theme, error) {
	t, err := common.ParseTheme(c.Theme)
	if err != nil {
		return common.ThemeDay, fmt.Errorf("%w: %q", ErrInvalidTheme, c.Theme)
	}
	return t, nil
}

// PresentModeValue parses PresentMode.
func (c Config) PresentModeValue() (renderer.PresentMode, error) {
	switch strings.ToLower(c.PresentMode) {
	case "vsync", "":
		return renderer.PresentModeVSync, nil
	case "uncapped":
		return renderer.PresentModeUncapped, nil
	default:
		return renderer.PresentModeVSync, fmt.Errorf("presentMode must be vsync or uncapped, got %q", c.PresentMode)
	}
}

// MSAAValue returns MSAA as a sample count.
func (c Config) MSAAValue() renderer.MSAASampleCount {
	return renderer.MSAASampleCount(c.MSAA)
}

// FovRadians returns the camera field of view in radians.
func (c Config) FovRadians() float32 {
	return c.Camera.Fov * math.Pi / 180
}

// EyeVec returns the initial camera position.
func (c Config) EyeVec() common.Vec3 {
	if len(c.Camera.Eye) != 3 {
		return common.V3(30, 20, 30)
	}
	return common.V3(c.Camera.Eye[0], c.Camera.Eye[1], c.Camera.Eye[2])
}

// Period returns the traffic-light dwell time.
func (c Config) Period() time.Duration {
	return time.Duration(c.Traffic.PeriodMs) * time.Millisecond
}

// Stagger returns the phase offset between consecutive traffic lights.
func (c Config) Stagger() time.Duration {
	return time.Duration(c.Traffic.StaggerMs) * time.Millisecond
}
