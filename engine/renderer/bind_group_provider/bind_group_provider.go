package bind_group_provider

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label prefixed to every buffer it creates.
	label string

	// GPU resources below are owned by the provider and freed by Release.

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds uniform or storage buffers keyed by binding index.
	buffers map[int]*wgpu.Buffer

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	vertexCap    uint64
	indexCap     uint64
}

// BindGroupProvider owns one group of GPU resources: a bind group with its layout and
// buffers, and/or a growable vertex and index buffer pair. The renderer backend keeps
// one provider for the frame uniform and one per geometry batch.
type BindGroupProvider interface {
	// Release frees every GPU resource the provider holds. Further calls are no-ops.
	Release()

	// Label returns the debug label.
	Label() string

	// BindGroup returns the bind group, or nil if none was set.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the bind group layout, or nil if none was set.
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer
	Buffer(binding int) *wgpu.Buffer

	// VertexBuffer returns the vertex buffer, or nil before the first Grow.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the index buffer, or nil before the first Grow.
	IndexBuffer() *wgpu.Buffer

	// SetBindGroup replaces the bind group. The previous one is not released.
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout replaces the bind group layout. The previous one is not released.
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores buf at binding. The previous buffer is not released.
	SetBuffer(binding int, buf *wgpu.Buffer)

	// Grow makes sure the vertex and index buffers hold at least the given byte counts,
	// recreating them with headroom when they are too small.
	//
	// Parameters:
	//   - device: the device to allocate on
	//   - vertexBytes: required vertex buffer size
	//   - indexBytes: required index buffer size
	//
	// Returns:
	//   - error: an allocation error
	Grow(device *wgpu.Device, vertexBytes, indexBytes uint64) error
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) Grow(device *wgpu.Device, vertexBytes, indexBytes uint64) error {
	var err error
	if p.vertexBuffer, p.vertexCap, err = ensure(device, p.vertexBuffer, p.vertexCap, vertexBytes, wgpu.BufferUsageVertex, p.label+" Vertex Buffer"); err != nil {
		return err
	}
	if p.indexBuffer, p.indexCap, err = ensure(device, p.indexBuffer, p.indexCap, indexBytes, wgpu.BufferUsageIndex, p.label+" Index Buffer"); err != nil {
		return err
	}
	return nil
}

// Capacity returns the size Grow allocates for a request of size bytes: a quarter of
// headroom, rounded up to the 4-byte multiple queue writes require.
func Capacity(size uint64) uint64 {
	return (size + size/4 + 3) &^ 3
}

func ensure(device *wgpu.Device, buf *wgpu.Buffer, capacity, size uint64, usage wgpu.BufferUsage, label string) (*wgpu.Buffer, uint64, error) {
	if buf != nil && capacity >= size {
		return buf, capacity, nil
	}
	if buf != nil {
		buf.Release()
	}
	capacity = Capacity(size)
	created, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  capacity,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("creating %s: %w", label, err)
	}
	return created, capacity, nil
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.vertexCap, p.indexCap = 0, 0
}
