package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyPathIsDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	require.NoError(t, c.Validate())

	theme, err := c.ThemeValue()
	require.NoError(t, err)
	assert.Equal(t, common.ThemeDay, theme)
	assert.Equal(t, 3000*time.Millisecond, c.Period())
	assert.Equal(t, time.Duration(0), c.Stagger())
	assert.Equal(t, common.V3(30, 20, 30), c.EyeVec())
	assert.InDelta(t, 1.0472, c.FovRadians(), 1e-4)
	assert.Equal(t, renderer.MSAA4x, c.MSAAValue())
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxycity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  title: Night Shift
theme: night
presentMode: uncapped
msaa: 1
traffic:
  periodMs: 1500
  staggerMs: 250
camera:
  eye: [0, 40, 40]
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Night Shift", c.Window.Title)
	assert.Equal(t, 1600, c.Window.Width)
	assert.Equal(t, float64(60), c.TickRate)

	theme, err := c.ThemeValue()
	require.NoError(t, err)
	assert.Equal(t, common.ThemeNight, theme)
	mode, err := c.PresentModeValue()
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeUncapped, mode)
	assert.Equal(t, renderer.MSAAOff, c.MSAAValue())
	assert.Equal(t, 1500*time.Millisecond, c.Period())
	assert.Equal(t, 250*time.Millisecond, c.Stagger())
	assert.Equal(t, common.V3(0, 40, 40), c.EyeVec())
	assert.Equal(t, float32(500), c.Camera.Far)
}

func TestParseFillsBlankFields(t *testing.T) {
	c, err := Parse([]byte("window:\n  title: \"\"\nmsaa: 0\nlayout: harbour.yaml\n"))
	require.NoError(t, err)
	d := Default()
	assert.Equal(t, d.Window.Title, c.Window.Title)
	assert.Equal(t, d.PresentMode, c.PresentMode)
	assert.Equal(t, d.MSAA, c.MSAA)
	assert.Equal(t, d.Theme, c.Theme)
	assert.Equal(t, "harbour.yaml", c.Layout)
}

func TestParseRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"theme", "theme: dusk", "invalid theme"},
		{"present mode", "presentMode: triple", "presentMode"},
		{"msaa", "msaa: 8", "msaa must be 1 or 4"},
		{"clip", "camera: {near: 10, far: 5}", "near"},
		{"eye", "camera: {eye: [1, 2]}", "3 components"},
		{"fov", "camera: {fov: 200}", "fov"},
		{"yaml", "window: [", "parsing config YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestInvalidThemeIsSentinel(t *testing.T) {
	_, err := Parse([]byte("theme: dusk"))
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")
}
