package scene

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/layout"
	"github.com/Carmen-Shannon/oxy-city/engine/light"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
)

// Tree sway is a rotation about Z of amplitude SwayAmplitude radians at SwayRate
// radians per second of elapsed view time.
const (
	SwayAmplitude = 0.02
	SwayRate      = 0.5
)

// DefaultStagger is the offset between consecutive traffic lights' first deadlines.
// Lights start in phase unless WithStagger says otherwise.
const DefaultStagger time.Duration = 0

// Scene owns the live city: the generated object set for the current theme, one
// traffic light per traffic-light descriptor and one motion per vehicle descriptor.
// All methods are safe for concurrent use; the tick loop calls Update while the render
// loop reads Snapshot.
type Scene interface {
	// Theme returns the active theme.
	//
	// Returns:
	//   - common.Theme: day or night
	Theme() common.Theme

	// SetTheme regenerates every object for theme and swaps the set in whole. Traffic
	// light phases and vehicle positions carry over.
	//
	// Parameters:
	//   - theme: the theme to switch to
	SetTheme(theme common.Theme)

	// ToggleTheme flips between day and night.
	//
	// Returns:
	//   - common.Theme: the new theme
	ToggleTheme() common.Theme

	// Update advances the scene to now. The first call starts the clock. Each traffic
	// light is synced and only its three lenses are recoloured when its signal
	// changed; trees sway and vehicles move along their lanes.
	//
	// Parameters:
	//   - now: the current wall-clock time
	Update(now time.Time)

	// Objects returns a copy of the current object set.
	//
	// Returns:
	//   - []so.SceneObject: every object in generation order
	Objects() []so.SceneObject

	// Snapshot returns the current objects split into static geometry, which only changes
	// on regeneration, and dynamic geometry, which Update rewrites every tick.
	//
	// Returns:
	//   - Snapshot: copies of both object sets and the static version
	Snapshot() Snapshot

	// Lights returns the theme's rig with one point light per lit lamp bulb.
	//
	// Returns:
	//   - light.Rig: the lights for the current theme
	Lights() light.Rig

	// ClearColor returns the sky colour for the current theme.
	//
	// Returns:
	//   - common.Color: the background colour
	ClearColor() common.Color

	// Signals returns each traffic light's active signal, indexed like the
	// traffic-light descriptors.
	//
	// Returns:
	//   - []traffic.Signal: the lit signal of every light
	Signals() []traffic.Signal

	// Elapsed returns the time since the first Update.
	//
	// Returns:
	//   - time.Duration: elapsed view time
	Elapsed() time.Duration

	// Stats summarises the current object set.
	//
	// Returns:
	//   - Stats: object, group and light counts
	Stats() Stats

	// Pick returns the building whose body the ray hits first.
	//
	// Parameters:
	//   - origin: ray start in world space
	//   - dir: ray direction
	//
	// Returns:
	//   - string: the building's group id, empty on a miss
	//   - bool: true on a hit
	Pick(origin, dir common.Vec3) (string, bool)

	// SetHovered highlights the body of one building and restores the previously
	// highlighted one. An empty or unknown group clears the highlight. The highlight
	// survives theme changes.
	//
	// Parameters:
	//   - group: the building's group id
	SetHovered(group string)

	// Hovered returns the highlighted building's group id, or "" if none.
	//
	// Returns:
	//   - string: the group id
	Hovered() string

	// Generator returns the generator the scene regenerates from.
	//
	// Returns:
	//   - layout.Generator: the generator
	Generator() layout.Generator
}

// Snapshot is a point-in-time copy of the scene split by how often it changes.
type Snapshot struct {
	Static        []so.SceneObject
	Dynamic       []so.SceneObject
	StaticVersion uint64
}

// Stats counts what the current theme generated.
type Stats struct {
	Theme       common.Theme   `json:"theme"`
	Objects     int            `json:"objects"`
	Transparent int            `json:"transparent"`
	Emissive    int            `json:"emissive"`
	PointLights int            `json:"pointLights"`
	Groups      map[string]int `json:"groups"`
	Parts       map[string]int `json:"parts"`
}

// GroupKinds returns the keys of Groups in sorted order.
func (s Stats) GroupKinds() []string {
	kinds := make([]string, 0, len(s.Groups))
	for k := range s.Groups {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// body is a building body that can be highlighted.
type body struct {
	group  string
	idx    int
	bounds common.AABB
	color  common.Color
	scale  common.Vec3
}

// lensSet holds the object index of each lens of one traffic light, -1 if missing.
type lensSet [traffic.SignalCount]int

type scene struct {
	mu *sync.RWMutex

	generator layout.Generator
	theme     common.Theme
	period    time.Duration
	stagger   time.Duration

	objects []so.SceneObject
	version uint64
	rig     light.Rig
	clear   common.Color

	signals  []traffic.TrafficLight
	lenses   []lensSet
	vehicles []traffic.Vehicle

	// Indices into objects, rebuilt on every regeneration.
	dynamic      []bool
	treeIdx      []int
	vehicleIdx   [][]int
	treeRotation []common.Vec3
	bodies       []body

	hovered string

	start   time.Time
	elapsed time.Duration
}

var _ Scene = &scene{}

// NewScene builds the scene from the generator's tables and generates the initial
// theme. A nil generator is replaced by one over the default tables.
//
// Parameters:
//   - generator: the layout generator
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the scene, not yet started
func NewScene(generator layout.Generator, options ...SceneBuilderOption) Scene {
	if generator == nil {
		generator = layout.NewGenerator()
	}
	s := &scene{
		mu:        &sync.RWMutex{},
		generator: generator,
		theme:     common.ThemeDay,
		period:    traffic.DefaultPeriod,
		stagger:   DefaultStagger,
	}
	for _, option := range options {
		option(s)
	}
	if s.theme >= common.ThemeCount {
		s.theme = common.ThemeDay
	}

	tables := generator.Tables()
	s.signals = make([]traffic.TrafficLight, len(tables.TrafficLights))
	for i := range tables.TrafficLights {
		s.signals[i] = traffic.NewTrafficLight(
			traffic.WithID(i),
			traffic.WithPeriod(s.period),
			traffic.WithOffset(time.Duration(i)*s.stagger),
		)
	}
	s.vehicles = make([]traffic.Vehicle, len(tables.Vehicles))
	for i, v := range tables.Vehicles {
		s.vehicles[i] = generator.Motion(v)
	}

	s.regenerate()
	return s
}

func (s *scene) Theme() common.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *scene) SetTheme(theme common.Theme) {
	if theme >= common.ThemeCount {
		log.Printf("[Scene] unknown theme %d, keeping %s", theme, s.Theme())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if theme == s.theme {
		return
	}
	s.theme = theme
	s.regenerate()
}

func (s *scene) ToggleTheme() common.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = s.theme.Toggle()
	s.regenerate()
	return s.theme
}

func (s *scene) Update(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.start.IsZero() {
		s.start = now
	}
	s.elapsed = now.Sub(s.start)

	for i, tl := range s.signals {
		if tl.Sync(now) {
			s.recolor(i, tl.State())
		}
	}
	s.animate()
}

func (s *scene) Objects() []so.SceneObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]so.SceneObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{StaticVersion: s.version}
	for i, obj := range s.objects {
		if s.dynamic[i] {
			snap.Dynamic = append(snap.Dynamic, obj)
		} else {
			snap.Static = append(snap.Static, obj)
		}
	}
	return snap
}

func (s *scene) Lights() light.Rig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rig
}

func (s *scene) ClearColor() common.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clear
}

func (s *scene) Signals() []traffic.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]traffic.Signal, len(s.signals))
	for i, tl := range s.signals {
		out[i] = tl.State()
	}
	return out
}

func (s *scene) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

func (s *scene) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		Theme:       s.theme,
		Objects:     len(s.objects),
		PointLights: len(s.rig.Points),
		Groups:      make(map[string]int),
		Parts:       make(map[string]int),
	}
	seen := make(map[string]struct{})
	for _, obj := range s.objects {
		if obj.Transparent() {
			st.Transparent++
		}
		if obj.Material.EmissiveIntensity > 0 {
			st.Emissive++
		}
		kind := groupKind(obj.Group)
		st.Parts[kind]++
		if _, ok := seen[obj.Group]; !ok {
			seen[obj.Group] = struct{}{}
			st.Groups[kind]++
		}
	}
	return st
}

func (s *scene) Generator() layout.Generator {
	return s.generator
}

// regenerate rebuilds every theme-dependent field. The caller holds the write lock.
func (s *scene) regenerate() {
	s.objects = s.generator.Generate(s.theme)
	s.clear = s.generator.ClearColor(s.theme)
	s.version++

	tables := s.generator.Tables()
	vehicleGroups := make(map[string]int, len(tables.Vehicles))
	for i, v := range tables.Vehicles {
		vehicleGroups[layout.VehicleGroup(i, v)] = i
	}

	s.dynamic = make([]bool, len(s.objects))
	s.treeIdx = s.treeIdx[:0]
	s.treeRotation = s.treeRotation[:0]
	s.vehicleIdx = make([][]int, len(s.vehicles))
	s.bodies = s.bodies[:0]
	s.lenses = make([]lensSet, len(s.signals))
	for i := range s.lenses {
		s.lenses[i] = lensSet{-1, -1, -1}
	}

	var points []light.Light
	for i, obj := range s.objects {
		kind, id, _ := strings.Cut(obj.Group, "/")
		switch kind {
		case layout.GroupBuilding:
			if obj.Part == layout.PartBody {
				s.bodies = append(s.bodies, body{
					group:  obj.Group,
					idx:    i,
					bounds: boxBounds(obj),
					color:  obj.Material.Color,
					scale:  obj.Local.Scale,
				})
			}
		case layout.GroupTree:
			s.dynamic[i] = true
			s.treeIdx = append(s.treeIdx, i)
			s.treeRotation = append(s.treeRotation, obj.Parent.Rotation)
		case layout.GroupVehicle:
			if v, ok := vehicleGroups[obj.Group]; ok {
				s.dynamic[i] = true
				s.vehicleIdx[v] = append(s.vehicleIdx[v], i)
			}
		case layout.GroupTrafficLight:
			var n int
			if _, err := fmt.Sscanf(id, "%d", &n); err != nil || n < 0 || n >= len(s.lenses) {
				continue
			}
			for lens := traffic.SignalRed; lens < traffic.SignalCount; lens++ {
				if obj.Part == layout.LensPart(lens) {
					s.dynamic[i] = true
					s.lenses[n][lens] = i
				}
			}
		}
		if obj.Light != nil {
			pos := obj.WorldPosition()
			points = append(points, light.NewLight(light.LightTypePoint,
				light.WithPosition(pos.X, pos.Y, pos.Z),
				light.WithColor(obj.Light.Color),
				light.WithIntensity(obj.Light.Intensity),
				light.WithRange(obj.Light.Range),
			))
		}
	}

	base := s.generator.Lights(s.theme)
	if dropped := len(base.Points) + len(points) - light.MaxPointLights; dropped > 0 {
		log.Printf("[Scene] %d point lights over the limit of %d are not lit", dropped, light.MaxPointLights)
	}
	s.rig = base.WithPoints(points...)

	if !s.highlight(s.hovered, true) {
		s.hovered = ""
	}
	for i, tl := range s.signals {
		s.recolor(i, tl.State())
	}
	s.animate()
}

func (s *scene) Pick(origin, dir common.Vec3) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best := float32(math.Inf(1))
	group := ""
	for _, b := range s.bodies {
		if t, ok := b.bounds.IntersectRay(origin, dir); ok && t < best {
			best, group = t, b.group
		}
	}
	return group, group != ""
}

func (s *scene) SetHovered(group string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasBody(group) {
		group = ""
	}
	if group == s.hovered {
		return
	}
	s.highlight(s.hovered, false)
	s.highlight(group, true)
	s.hovered = group
	// Bodies are static geometry, so the static set has to be re-tessellated.
	s.version++
}

func (s *scene) Hovered() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hovered
}

func (s *scene) hasBody(group string) bool {
	for _, b := range s.bodies {
		if b.group == group {
			return true
		}
	}
	return false
}

// highlight applies or removes the hover look on the body of group. The caller holds
// the write lock.
//
// Returns:
//   - bool: false if group has no body
func (s *scene) highlight(group string, on bool) bool {
	if group == "" {
		return false
	}
	for _, b := range s.bodies {
		if b.group != group {
			continue
		}
		obj := &s.objects[b.idx]
		if on {
			obj.Material.Color = layout.HoverColor
			obj.Local.Scale = b.scale.Scale(layout.HoverScale)
		} else {
			obj.Material.Color = b.color
			obj.Local.Scale = b.scale
		}
		return true
	}
	return false
}

// boxBounds returns the world-space bounds of a box object.
func boxBounds(obj so.SceneObject) common.AABB {
	var m [16]float32
	obj.WorldMatrix(m[:])
	hx, hy, hz := obj.Dimensions.Width/2, obj.Dimensions.Height/2, obj.Dimensions.Depth/2
	corners := make([]common.Vec3, 0, 8)
	for _, x := range [2]float32{-hx, hx} {
		for _, y := range [2]float32{-hy, hy} {
			for _, z := range [2]float32{-hz, hz} {
				corners = append(corners, common.TransformPoint(m[:], common.V3(x, y, z)))
			}
		}
	}
	return common.BoundsOf(corners...)
}

// recolor lights the lens of traffic light i that shows current and dims the others.
func (s *scene) recolor(i int, current traffic.Signal) {
	for lens, idx := range s.lenses[i] {
		if idx < 0 {
			continue
		}
		s.objects[idx].Material = layout.LensMaterial(traffic.Signal(lens), current)
	}
}

// animate poses trees and vehicles for the current elapsed time.
func (s *scene) animate() {
	t := s.elapsed.Seconds()
	sway := float32(math.Sin(t*SwayRate) * SwayAmplitude)
	for n, i := range s.treeIdx {
		s.objects[i].Parent.Rotation.Z = s.treeRotation[n].Z + sway
	}
	for v, idx := range s.vehicleIdx {
		if len(idx) == 0 {
			continue
		}
		pos, yaw := s.vehicles[v].At(s.elapsed)
		for _, i := range idx {
			s.objects[i].Parent.Position = pos
			s.objects[i].Parent.Rotation = common.V3(0, yaw, 0)
		}
	}
}

// groupKind returns the prefix of a group id, such as "tree" for "tree/3".
func groupKind(group string) string {
	kind, _, _ := strings.Cut(group, "/")
	return kind
}
