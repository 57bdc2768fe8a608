package mesh

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-city/common"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
)

// minChunk is the smallest slice of objects worth handing to a worker.
const minChunk = 64

type primitiveKey struct {
	kind so.GeometryKind
	dims so.Dimensions
}

type tessellatorImpl struct {
	mu *sync.Mutex

	workers int
	pool    worker.DynamicWorkerPool

	cacheMu *sync.RWMutex
	cache   map[primitiveKey]Mesh

	released bool
}

// Tessellator converts scene objects into world-space batches. Large object lists are split
// into chunks and tessellated on a worker pool; the merged output keeps input order so the
// same objects always produce the same buffers.
type Tessellator interface {
	// Tessellate builds the batch for objects. Transparent objects land in Batch.Transparent.
	//
	// Parameters:
	//   - objects: the objects to tessellate
	//
	// Returns:
	//   - Batch: the merged world-space geometry
	Tessellate(objects []so.SceneObject) Batch

	// Workers returns the size of the worker pool.
	//
	// Returns:
	//   - int: the worker count
	Workers() int

	// Release stops the worker pool. Calling it more than once is a no-op, and
	// Tessellate keeps working inline afterwards.
	Release()
}

var _ Tessellator = &tessellatorImpl{}

// NewTessellator creates a Tessellator backed by a worker pool sized to the CPU count.
//
// Parameters:
//   - options: functional options to configure the tessellator
//
// Returns:
//   - Tessellator: the new tessellator
func NewTessellator(options ...TessellatorBuilderOption) Tessellator {
	t := &tessellatorImpl{
		mu:      &sync.Mutex{},
		workers: runtime.NumCPU(),
		cacheMu: &sync.RWMutex{},
		cache:   make(map[primitiveKey]Mesh),
	}
	for _, opt := range options {
		opt(t)
	}
	if t.workers < 1 {
		t.workers = 1
	}
	if t.workers > 1 {
		t.pool = worker.NewDynamicWorkerPool(t.workers, 256, 1*time.Second)
	}
	return t
}

func (t *tessellatorImpl) Workers() int {
	return t.workers
}

func (t *tessellatorImpl) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	if t.pool != nil {
		t.pool.Stop()
		t.pool = nil
	}
}

func (t *tessellatorImpl) Tessellate(objects []so.SceneObject) Batch {
	t.mu.Lock()
	pool := t.pool
	t.mu.Unlock()

	if pool == nil || len(objects) <= minChunk {
		return t.tessellateRange(objects)
	}

	chunk := max((len(objects)+t.workers-1)/t.workers, minChunk)
	parts := make([]Batch, (len(objects)+chunk-1)/chunk)

	var wg sync.WaitGroup
	for i := range parts {
		lo := i * chunk
		hi := min(lo+chunk, len(objects))
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				parts[i] = t.tessellateRange(objects[lo:hi])
				return nil, nil
			},
		})
	}
	wg.Wait()

	var out Batch
	for _, p := range parts {
		out.Opaque.Append(p.Opaque)
		out.Transparent.Append(p.Transparent)
	}
	return out
}

func (t *tessellatorImpl) tessellateRange(objects []so.SceneObject) Batch {
	var b Batch
	for _, o := range objects {
		m := t.world(o)
		if o.Transparent() {
			b.Transparent.Append(m)
		} else {
			b.Opaque.Append(m)
		}
	}
	return b
}

func (t *tessellatorImpl) primitive(kind so.GeometryKind, d so.Dimensions) Mesh {
	key := primitiveKey{kind: kind, dims: d}
	t.cacheMu.RLock()
	m, ok := t.cache[key]
	t.cacheMu.RUnlock()
	if ok {
		return m
	}
	m = Primitive(kind, d)
	if m.Empty() {
		log.Printf("[Mesh] %s with dimensions %+v produced no triangles", kind, d)
	}
	t.cacheMu.Lock()
	t.cache[key] = m
	t.cacheMu.Unlock()
	return m
}

func (t *tessellatorImpl) world(o so.SceneObject) Mesh {
	return transform(t.primitive(o.Kind, o.Dimensions), o)
}

// Object tessellates a single object into world space without caching.
//
// Parameters:
//   - o: the object
//
// Returns:
//   - Mesh: the world-space mesh carrying o's material colours
func Object(o so.SceneObject) Mesh {
	return transform(Primitive(o.Kind, o.Dimensions), o)
}

func transform(local Mesh, o so.SceneObject) Mesh {
	var mat [16]float32
	o.WorldMatrix(mat[:])

	color := o.Material.Color.WithAlpha(o.Material.Opacity).Array()
	em := o.Material.Emission()
	emission := [3]float32{em.R, em.G, em.B}

	out := Mesh{
		Vertices: make([]Vertex, len(local.Vertices)),
		Indices:  local.Indices,
	}
	for i, v := range local.Vertices {
		p := common.TransformPoint(mat[:], common.V3(v.Position[0], v.Position[1], v.Position[2]))
		n := common.TransformDirection(mat[:], common.V3(v.Normal[0], v.Normal[1], v.Normal[2]))
		out.Vertices[i] = Vertex{
			Position: p.Array(),
			Normal:   n.Array(),
			Color:    color,
			Emission: emission,
		}
	}
	return out
}
