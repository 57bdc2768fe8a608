package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/camera"
	"github.com/Carmen-Shannon/oxy-city/engine/layout"
	"github.com/Carmen-Shannon/oxy-city/engine/mesh"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer"
	"github.com/Carmen-Shannon/oxy-city/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of loop iterations, calling script before each update.
type fakeWindow struct {
	mu sync.Mutex

	frames int
	script func(i int, w *fakeWindow)

	onUpdate      func()
	onResize      func(width, height int)
	onWheel       func(deltaY float32)
	onKeyDown     func(keyCode uint32)
	onPointerDown func(x, y float32)
	onPointerUp   func()
	onPointerMove func(x, y float32)

	titles         []string
	closeRequested bool
	closes         int
	cleared        bool
}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetWheelCallback(cb func(deltaY float32)) { w.onWheel = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32)) { w.onKeyDown = cb }
func (w *fakeWindow) SetPointerDownCallback(cb func(x, y float32)) { w.onPointerDown = cb }
func (w *fakeWindow) SetPointerUpCallback(cb func()) { w.onPointerUp = cb }
func (w *fakeWindow) SetPointerMoveCallback(cb func(x, y float32)) { w.onPointerMove = cb }
func (w *fakeWindow) SetTitle(title string) { w.titles = append(w.titles, title) }
func (w *fakeWindow) Title() string { return "Oxy City" }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) Width() int { return 64 }
func (w *fakeWindow) Height() int { return 32 }
func (w *fakeWindow) CursorBounds() (width, height float32) { return 64, 32 }

func (w *fakeWindow) ClearCallbacks() {
	w.onUpdate, w.onResize, w.onWheel, w.onKeyDown = nil, nil, nil, nil
	w.onPointerDown, w.onPointerUp, w.onPointerMove = nil, nil, nil
	w.cleared = true
}

func (w *fakeWindow) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closeRequested && w.closes == 0
}

func (w *fakeWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeRequested = true
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closes++
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.frames && w.IsRunning(); i++ {
		if w.script != nil {
			w.script(i, w)
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

// fakeRenderer counts draws and releases.
type fakeRenderer struct {
	mu       sync.Mutex
	draws    int
	releases int
	resizes  [][2]int
	last     renderer.Frame
	panicOn  int
}

func (r *fakeRenderer) Backend() renderer.RendererBackendType { return renderer.BackendTypeSoftware }
func (r *fakeRenderer) Size() (int, int) { return 64, 32 }
func (r *fakeRenderer) Aspect() float32 { return 2 }
func (r *fakeRenderer) Capture(string) error { return renderer.ErrCaptureUnsupported }

func (r *fakeRenderer) Draw(f renderer.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws++
	if r.panicOn > 0 && r.draws == r.panicOn {
		panic("device lost")
	}
	r.last = f
	return nil
}

func (r *fakeRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resizes = append(r.resizes, [2]int{width, height})
}

func (r *fakeRenderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint64(r.draws)
}

func (r *fakeRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releases++
}

func newTestEngine(w *fakeWindow, r *fakeRenderer, options ...EngineBuilderOption) Engine {
	base := []EngineBuilderOption{
		WithWindow(w),
		WithScene(scene.NewScene(layout.NewGenerator(layout.WithQuiet(true)))),
		WithFrameComposer(NewFrameComposer(mesh.NewTessellator(mesh.WithWorkers(1)))),
		WithRendererFactory(func(renderer.Surface) (renderer.Renderer, error) { return r, nil }),
	}
	return NewEngine(append(base, options...)...)
}

func TestRunDrawsAndTearsDownOnce(t *testing.T) {
	w := &fakeWindow{frames: 3}
	r := &fakeRenderer{}
	e := newTestEngine(w, r)

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, r.draws)
	assert.Equal(t, 1, r.releases)
	assert.Equal(t, 1, w.closes)
	assert.True(t, w.cleared)
	assert.NotEmpty(t, w.titles)
	assert.Contains(t, w.titles[0], "Oxy City")

	require.NoError(t, e.Close())
	assert.Equal(t, 1, r.releases)
	assert.Equal(t, 1, w.closes)
	assert.ErrorIs(t, e.Run(context.Background()), ErrClosed)
}

func TestRunSetsCameraAspectFromRenderer(t *testing.T) {
	w := &fakeWindow{frames: 1}
	r := &fakeRenderer{}
	e := newTestEngine(w, r)
	require.NoError(t, e.Run(context.Background()))
	assert.InDelta(t, 2, e.Camera().Aspect(), 1e-6)
}

func TestRendererAcquisitionFailureFailsFast(t *testing.T) {
	w := &fakeWindow{frames: 3}
	acquireErr := errors.New("no adapter")
	e := NewEngine(
		WithWindow(w),
		WithRendererFactory(func(renderer.Surface) (renderer.Renderer, error) { return nil, acquireErr }),
	)

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, acquireErr)
	assert.Equal(t, 1, w.closes)
	assert.Nil(t, e.Renderer())
}

func TestDefaultRendererNeedsSurface(t *testing.T) {
	w := &fakeWindow{frames: 1}
	e := NewEngine(WithWindow(w))
	err := e.Run(context.Background())
	assert.ErrorIs(t, err, renderer.ErrNoSurface)
}

func TestInputDrivesCameraAndScene(t *testing.T) {
	w := &fakeWindow{frames: 4}
	w.script = func(i int, w *fakeWindow) {
		switch i {
		case 0:
			w.onPointerDown(100, 100)
			w.onPointerMove(150, 80)
			w.onPointerUp()
		case 1:
			w.onWheel(-100)
		case 2:
			w.onKeyDown(common.KeyT)
			w.onResize(200, 50)
		}
	}
	r := &fakeRenderer{}
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(
		camera.WithAzimuth(0.8), camera.WithPolar(0.8), camera.WithRadius(40),
	)))
	e := newTestEngine(w, r, WithCamera(cam))

	require.NoError(t, e.Run(context.Background()))
	ctrl := e.Camera().Controller()
	assert.InDelta(t, 0.55, ctrl.Azimuth(), 1e-5)
	assert.InDelta(t, 0.7, ctrl.Polar(), 1e-5)
	assert.InDelta(t, 35, ctrl.Radius(), 1e-4)
	assert.Equal(t, common.ThemeNight, e.Scene().Theme())
	assert.Equal(t, [][2]int{{200, 50}}, r.resizes)
	assert.InDelta(t, 4, e.Camera().Aspect(), 1e-6)
}

func TestResetKeyRestoresCamera(t *testing.T) {
	w := &fakeWindow{frames: 2}
	w.script = func(i int, w *fakeWindow) {
		if i == 0 {
			w.onWheel(400)
		} else {
			w.onKeyDown(common.KeyR)
		}
	}
	r := &fakeRenderer{}
	e := newTestEngine(w, r)
	want := e.Camera().Controller().State()
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, want, e.Camera().Controller().State())
}

func TestEscQuits(t *testing.T) {
	w := &fakeWindow{frames: 100}
	w.script = func(i int, w *fakeWindow) {
		if i == 1 {
			w.onKeyDown(common.KeyEsc)
		}
	}
	r := &fakeRenderer{}
	e := newTestEngine(w, r)
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 1, r.draws)
	assert.Equal(t, 1, r.releases)
}

func TestContextCancelEndsView(t *testing.T) {
	w := &fakeWindow{frames: 1 << 30}
	r := &fakeRenderer{}
	e := newTestEngine(w, r)

	ctx, cancel := context.WithCancel(context.Background())
	w.script = func(i int, _ *fakeWindow) {
		if i == 2 {
			cancel()
		}
		if i > 2 {
			// Give the context goroutine a moment to observe the cancel.
			time.Sleep(time.Millisecond)
		}
	}

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("view did not stop after cancel")
	}
	assert.Equal(t, 1, r.releases)
}

func TestRenderPanicIsRecovered(t *testing.T) {
	w := &fakeWindow{frames: 10}
	r := &fakeRenderer{panicOn: 2}
	e := newTestEngine(w, r)

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.Equal(t, 2, r.draws)
	assert.Equal(t, 1, r.releases)
}

func TestRunTwiceIsRejected(t *testing.T) {
	w := &fakeWindow{frames: 1 << 30}
	r := &fakeRenderer{}
	e := newTestEngine(w, r)

	started := make(chan struct{})
	var once sync.Once
	w.script = func(int, *fakeWindow) {
		once.Do(func() { close(started) })
		time.Sleep(time.Millisecond)
	}
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	<-started
	assert.ErrorIs(t, e.Run(context.Background()), ErrAlreadyRunning)
	e.Quit()
	require.NoError(t, <-done)
}

// screenPoint projects a world point onto a 64x32 viewport.
func screenPoint(vp [16]float32, p common.Vec3) (x, y float32) {
	cx := vp[0]*p.X + vp[4]*p.Y + vp[8]*p.Z + vp[12]
	cy := vp[1]*p.X + vp[5]*p.Y + vp[9]*p.Z + vp[13]
	cw := vp[3]*p.X + vp[7]*p.Y + vp[11]*p.Z + vp[15]
	if cw <= 0 {
		return -1, -1
	}
	return (cx/cw + 1) / 2 * 64, (1 - cy/cw) / 2 * 32
}

func TestPointerHoverHighlightsBuilding(t *testing.T) {
	var e Engine
	var hovered, afterDrag string
	w := &fakeWindow{frames: 2}
	w.script = func(i int, w *fakeWindow) {
		switch i {
		case 0:
			vp := e.Camera().ViewProjection()
			for _, obj := range e.Scene().Objects() {
				if obj.Part != layout.PartBody {
					continue
				}
				x, y := screenPoint(vp, obj.WorldPosition())
				if x > 0 && x < 64 && y > 0 && y < 32 {
					w.onPointerMove(x, y)
					break
				}
			}
			hovered = e.Scene().Hovered()
		case 1:
			w.onPointerDown(0, 0)
			w.onPointerMove(1, 1)
			afterDrag = e.Scene().Hovered()
			w.onPointerUp()
		}
	}
	r := &fakeRenderer{}
	e = newTestEngine(w, r)
	require.NoError(t, e.Run(context.Background()))

	assert.Contains(t, hovered, layout.GroupBuilding+"/")
	assert.Equal(t, hovered, afterDrag, "dragging must not move the highlight")
	assert.Equal(t, uint64(2), r.last.StaticVersion)
}

func TestFramesCarryStaticVersion(t *testing.T) {
	w := &fakeWindow{frames: 2}
	w.script = func(i int, w *fakeWindow) {
		if i == 1 {
			w.onKeyDown(common.KeyT)
		}
	}
	r := &fakeRenderer{}
	e := newTestEngine(w, r)
	require.NoError(t, e.Run(context.Background()))

	assert.Equal(t, uint64(2), r.last.StaticVersion)
	assert.NotZero(t, r.last.Static.Triangles())
	assert.NotZero(t, r.last.Dynamic.Triangles())
	assert.Equal(t, e.Scene().ClearColor(), r.last.Clear)
}

func TestNewEngineRequiresWindow(t *testing.T) {
	assert.Panics(t, func() { NewEngine() })
}
