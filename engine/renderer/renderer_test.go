package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/camera"
	"github.com/Carmen-Shannon/oxy-city/engine/light"
	"github.com/Carmen-Shannon/oxy-city/engine/mesh"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) Frame {
	t.Helper()
	cam := camera.NewCamera(camera.WithAspect(1))
	tess := mesh.NewTessellator(mesh.WithWorkers(1))
	defer tess.Release()

	return Frame{
		Static: tess.Tessellate([]so.SceneObject{
			so.Plane(40, 40, so.WithColor(common.Hex("#4a7c59"))),
			so.Box(4, 10, 4, so.WithPosition(0, 5, 0), so.WithColor(common.Hex("#8b9dc3"))),
		}),
		StaticVersion:  1,
		ViewProjection: cam.ViewProjection(),
		Eye:            cam.Eye(),
		Target:         camera.DefaultTarget,
		Fov:            cam.Fov(),
		Lights:         light.NewRig(common.ThemeDay),
		Clear:          common.Hex("#dbeafe"),
	}
}

func TestFrameUniformLayout(t *testing.T) {
	var u GPUFrameUniform
	assert.Equal(t, uint64(144+32*light.MaxPointLights), u.Size())
	assert.Equal(t, uintptr(128), unsafe.Offsetof(u.PointCount))
	assert.Len(t, u.Bytes(), int(u.Size()))
}

func TestCityShaderMatchesUniform(t *testing.T) {
	city, err := NewCityShader()
	require.NoError(t, err)

	src := city.Source()
	assert.NotContains(t, src, "@oxy:")
	assert.Equal(t, 1, strings.Count(src, "struct PointLight {"))
	assert.Contains(t, src, fmt.Sprintf("array<PointLight, %d>", light.MaxPointLights))
	assert.Contains(t, src, "@group(0) @binding(0) var<uniform> frame: Frame;")

	group, binding, ok := city.Binding(FrameBindingName)
	require.True(t, ok)
	assert.Equal(t, 0, group)
	assert.Equal(t, 0, binding)
}

func TestFrameUniformPacksRig(t *testing.T) {
	f := testFrame(t)
	extra := light.NewLight(light.LightTypePoint, light.WithPosition(1, 2, 3), light.WithRange(12))
	off := light.NewLight(light.LightTypePoint)
	off.SetEnabled(false)
	f.Lights = f.Lights.WithPoints(off, extra)

	u := NewGPUFrameUniform(f)
	assert.Equal(t, uint32(2), u.PointCount[0], "disabled lights are skipped")
	assert.Equal(t, [3]float32{1, 2, 3}, u.Points[1].Position)
	assert.Equal(t, float32(12), u.Points[1].Range)
	assert.Equal(t, float32(1), u.SunDirection[3])
	assert.InDelta(t, 0.4, u.Ambient[0], 1e-6)
	assert.Equal(t, f.ViewProjection, u.ViewProj)
}

func TestFrameUniformNightDimsSun(t *testing.T) {
	f := testFrame(t)
	f.Lights = light.NewRig(common.ThemeNight)
	u := NewGPUFrameUniform(f)
	assert.Less(t, u.SunColor[0], float32(0.3))
}

func TestWGPURequiresSurface(t *testing.T) {
	r, err := NewRenderer(BackendTypeWGPU, nil)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestSoftwareRendererDrawsAndCaptures(t *testing.T) {
	r, err := NewRenderer(BackendTypeSoftware, nil, WithSize(32, 24))
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, BackendTypeSoftware, r.Backend())
	assert.InDelta(t, 32.0/24.0, r.Aspect(), 1e-6)
	assert.Error(t, r.Capture(filepath.Join(t.TempDir(), "none.png")), "nothing drawn yet")

	require.NoError(t, r.Draw(testFrame(t)))
	assert.Equal(t, uint64(1), r.Frames())

	path := filepath.Join(t.TempDir(), "city.png")
	require.NoError(t, r.Capture(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestZeroSizeSkipsDrawing(t *testing.T) {
	r, err := NewRenderer(BackendTypeSoftware, nil, WithSize(16, 16))
	require.NoError(t, err)
	defer r.Release()

	r.Resize(0, 0)
	assert.Equal(t, float32(1), r.Aspect())
	require.NoError(t, r.Draw(testFrame(t)))
	assert.Zero(t, r.Frames())

	r.Resize(8, 8)
	require.NoError(t, r.Draw(testFrame(t)))
	assert.Equal(t, uint64(1), r.Frames())
}

func TestReleaseIsIdempotent(t *testing.T) {
	r, err := NewRenderer(BackendTypeSoftware, nil, WithSize(8, 8))
	require.NoError(t, err)

	r.Release()
	r.Release()
	assert.ErrorIs(t, r.Draw(testFrame(t)), ErrReleased)
	assert.ErrorIs(t, r.Capture("unused.png"), ErrReleased)
	r.Resize(100, 100)
}

func TestEmptyFrameIsAnError(t *testing.T) {
	r, err := NewRenderer(BackendTypeSoftware, nil, WithSize(8, 8))
	require.NoError(t, err)
	defer r.Release()
	assert.Error(t, r.Draw(Frame{}))
}
