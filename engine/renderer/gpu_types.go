package renderer

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/light"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer/shader"
)

// CityShaderSource is the annotated WGSL module shared by the opaque and transparent
// pipelines. NewCityShader expands it.
//
//go:embed assets/city.wgsl
var CityShaderSource string

// GPUPointLightSource is the WGSL struct matching GPUPointLight.
//
//go:embed assets/point_light.wgsl
var GPUPointLightSource string

// GPUFrameUniformSource is the WGSL struct matching GPUFrameUniform.
//
//go:embed assets/frame.wgsl
var GPUFrameUniformSource string

// FrameBindingName is the variable the frame uniform is bound to in the city shader.
const FrameBindingName = "frame"

// NewCityShader expands the city shader's struct includes and binding declarations.
//
// Returns:
//   - shader.Shader: the processed shader
//   - error: an annotation error
func NewCityShader() (shader.Shader, error) {
	pp := shader.NewPreProcessor(
		shader.WithStruct("point_light", "PointLight", GPUPointLightSource),
		shader.WithStruct("frame", "Frame", GPUFrameUniformSource),
	)
	return shader.NewShader("city.wgsl", CityShaderSource, pp)
}

// GPUPointLight matches the WGSL PointLight struct (32 bytes).
type GPUPointLight struct {
	Position  [3]float32 // offset  0
	Range     float32    // offset 12
	Color     [3]float32 // offset 16
	Intensity float32    // offset 28
}

// GPUFrameUniform is the per-frame uniform buffer. Matches the WGSL Frame struct exactly.
type GPUFrameUniform struct {
	ViewProj     [16]float32                         // offset    0
	Eye          [4]float32                          // offset   64
	Ambient      [4]float32                          // offset   80: rgb premultiplied by intensity
	SunDirection [4]float32                          // offset   96: w is 1 when enabled
	SunColor     [4]float32                          // offset  112: rgb premultiplied by intensity
	PointCount   [4]uint32                           // offset  128: x holds the count
	Points       [light.MaxPointLights]GPUPointLight // offset  144
}

// Size returns the size of the uniform in bytes.
func (g *GPUFrameUniform) Size() uint64 {
	return uint64(unsafe.Sizeof(*g))
}

// Bytes returns the raw bytes of the uniform for a queue write.
func (g *GPUFrameUniform) Bytes() []byte {
	return common.SliceToBytes([]GPUFrameUniform{*g})
}

// NewGPUFrameUniform packs the camera and light rig of f into the uniform layout.
// Disabled lights contribute nothing; points beyond the shader's array are dropped.
//
// Parameters:
//   - f: the frame to pack
//
// Returns:
//   - GPUFrameUniform: the packed uniform
func NewGPUFrameUniform(f Frame) GPUFrameUniform {
	u := GPUFrameUniform{
		ViewProj: f.ViewProjection,
		Eye:      [4]float32{f.Eye.X, f.Eye.Y, f.Eye.Z, 1},
	}
	if a := f.Lights.Ambient; a != nil && a.Enabled() {
		c := a.Color().Scale(a.Intensity())
		u.Ambient = [4]float32{c.R, c.G, c.B, 1}
	}
	if s := f.Lights.Directional; s != nil && s.Enabled() {
		d := s.Direction()
		c := s.Color().Scale(s.Intensity())
		u.SunDirection = [4]float32{d.X, d.Y, d.Z, 1}
		u.SunColor = [4]float32{c.R, c.G, c.B, 1}
	}
	n := 0
	for _, p := range f.Lights.Points {
		if n == len(u.Points) {
			break
		}
		if p == nil || !p.Enabled() {
			continue
		}
		pos := p.Position()
		c := p.Color()
		u.Points[n] = GPUPointLight{
			Position:  pos.Array(),
			Range:     p.Range(),
			Color:     [3]float32{c.R, c.G, c.B},
			Intensity: p.Intensity(),
		}
		n++
	}
	u.PointCount[0] = uint32(n)
	return u
}

// clearColor converts a theme colour to the render pass clear value components.
func clearColor(c common.Color) (r, g, b, a float64) {
	return float64(c.R), float64(c.G), float64(c.B), 1
}
