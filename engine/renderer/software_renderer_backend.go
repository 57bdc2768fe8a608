package renderer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/mesh"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"
)

// sunDistance places the directional light far enough away to act as parallel rays.
const sunDistance = 1000

// minOpacity is the alpha below which transparent geometry is left out of ray casting.
const minOpacity = 0.5

type softwareRendererBackendImpl struct {
	mu *sync.Mutex

	width, height int
	image         *render3d.Image

	released bool
}

var _ RendererBackend = &softwareRendererBackendImpl{}

func newSoftwareRendererBackend() *softwareRendererBackendImpl {
	return &softwareRendererBackendImpl{
		mu: &sync.Mutex{},
	}
}

func (s *softwareRendererBackendImpl) Configure(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	s.width, s.height = width, height
	s.image = nil
	return nil
}

func (s *softwareRendererBackendImpl) Draw(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	if s.width == 0 || s.height == 0 {
		return nil
	}

	obj := sceneObject(f.Static, f.Dynamic)
	if obj == nil {
		return errors.New("frame has no geometry")
	}

	caster := &render3d.RayCaster{
		Camera: render3d.NewCameraAt(coord(f.Eye), coord(f.Target), float64(f.Fov)),
		Lights: rayLights(f),
	}
	img := render3d.NewImage(s.width, s.height)
	caster.Render(img, obj)
	s.image = img
	return nil
}

func (s *softwareRendererBackendImpl) Capture(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == nil {
		return errors.New("no frame has been drawn")
	}
	if err := s.image.Save(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func (s *softwareRendererBackendImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.image = nil
}

func coord(v common.Vec3) model3d.Coord3D {
	return model3d.XYZ(float64(v.X), float64(v.Y), float64(v.Z))
}

// surfaceKey groups triangles that shade identically.
type surfaceKey [3]uint8

func keyOf(v mesh.Vertex) surfaceKey {
	var k surfaceKey
	for i := range k {
		c := common.Clamp(v.Color[i]+v.Emission[i], 0, 1)
		k[i] = uint8(c*255 + 0.5)
	}
	return k
}

// sceneObject converts the frame geometry into one ray-castable object, one collider per
// distinct surface colour. Degenerate triangles are skipped.
func sceneObject(batches ...mesh.Batch) render3d.Object {
	groups := map[surfaceKey][]*model3d.Triangle{}
	add := func(m mesh.Mesh) {
		for i := 0; i < m.Triangles(); i++ {
			a, b, c := m.Triangle(i)
			if a.Color[3] < minOpacity {
				continue
			}
			t := &model3d.Triangle{
				coord(common.V3(a.Position[0], a.Position[1], a.Position[2])),
				coord(common.V3(b.Position[0], b.Position[1], b.Position[2])),
				coord(common.V3(c.Position[0], c.Position[1], c.Position[2])),
			}
			if t.Area() < 1e-9 {
				continue
			}
			k := keyOf(a)
			groups[k] = append(groups[k], t)
		}
	}
	for _, b := range batches {
		add(b.Opaque)
		add(b.Transparent)
	}
	if len(groups) == 0 {
		return nil
	}

	keys := make([]surfaceKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})

	joined := make(render3d.JoinedObject, 0, len(keys))
	for _, k := range keys {
		color := render3d.NewColorRGB(float64(k[0])/255, float64(k[1])/255, float64(k[2])/255)
		collider := model3d.MeshToCollider(model3d.NewMeshTriangles(groups[k]))
		joined = append(joined, render3d.Objectify(
			collider,
			func(c model3d.Coord3D, rc model3d.RayCollision) render3d.Color {
				return color
			},
		))
	}
	return joined
}

// rayLights approximates the rig: the sun becomes a distant point light and ambient light a
// fill light at the eye. Lamp point lights are left to the emissive bulbs.
func rayLights(f Frame) []*render3d.PointLight {
	var lights []*render3d.PointLight
	if s := f.Lights.Directional; s != nil && s.Enabled() {
		c := s.Color().Scale(s.Intensity())
		lights = append(lights, &render3d.PointLight{
			Origin: coord(s.Direction().Scale(-sunDistance)),
			Color:  render3d.NewColorRGB(float64(c.R), float64(c.G), float64(c.B)),
		})
	}
	if a := f.Lights.Ambient; a != nil && a.Enabled() {
		c := a.Color().Scale(a.Intensity())
		lights = append(lights, &render3d.PointLight{
			Origin: coord(f.Eye),
			Color:  render3d.NewColorRGB(float64(c.R), float64(c.G), float64(c.B)),
		})
	}
	return lights
}
