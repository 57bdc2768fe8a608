package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/mesh"
	bgp "github.com/Carmen-Shannon/oxy-city/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// geometryBuffers holds one uploaded Batch: opaque indices first, transparent after.
type geometryBuffers struct {
	provider bgp.BindGroupProvider

	opaqueCount      uint32
	transparentCount uint32
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    wgpu.TextureFormat
	msaaTexture      *wgpu.Texture
	msaaTextureView  *wgpu.TextureView
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	shaderModule    *wgpu.ShaderModule
	pipelineLayout  *wgpu.PipelineLayout
	frame           bgp.BindGroupProvider
	frameBinding    int

	opaque      pipeline.Pipeline
	transparent pipeline.Pipeline

	static        geometryBuffers
	dynamic       geometryBuffers
	staticVersion uint64
	staticLoaded  bool

	released bool
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, mode PresentMode) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	if surfaceDescriptor == nil {
		return nil, ErrNoSurface
	}

	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		opaque:      pipeline.Opaque(),
		transparent: pipeline.Transparent(),
		static:      geometryBuffers{provider: bgp.NewBindGroupProvider("Static")},
		dynamic:     geometryBuffers{provider: bgp.NewBindGroupProvider("Dynamic")},
		frame:       bgp.NewBindGroupProvider("Frame"),
	}
	if mode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("requesting adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "City Device",
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("requesting device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initFrameResources(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// initFrameResources creates the shader module, the frame uniform and its bind group.
func (b *wgpuRendererBackendImpl) initFrameResources() error {
	city, err := NewCityShader()
	if err != nil {
		return err
	}
	_, binding, ok := city.Binding(FrameBindingName)
	if !ok {
		return fmt.Errorf("city shader declares no %q binding", FrameBindingName)
	}

	b.shaderModule, err = b.device.CreateShaderModule(city.Module())
	if err != nil {
		return fmt.Errorf("compiling city shader: %w", err)
	}

	b.frameBinding = binding

	var u GPUFrameUniform
	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    uint32(binding),
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: u.Size(),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating frame bind group layout: %w", err)
	}
	b.frame.SetBindGroupLayout(layout)

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "City Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("creating pipeline layout: %w", err)
	}

	uniform, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  u.Size(),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("creating frame uniform: %w", err)
	}
	b.frame.SetBuffer(binding, uniform)

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: uint32(binding),
				Buffer:  uniform,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating frame bind group: %w", err)
	}
	b.frame.SetBindGroup(group)
	return nil
}

func (b *wgpuRendererBackendImpl) Configure(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	if width <= 0 || height <= 0 {
		return nil
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("surface reports no texture formats")
	}
	format := capabilities.Formats[0]
	formatChanged := format != b.surfaceFormat
	b.surfaceFormat = format

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()
	count := uint32(b.sampleCount)
	var err error
	if count > 1 {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		b.msaaTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("creating msaa texture: %w", err)
		}
		if b.msaaTextureView, err = b.msaaTexture.CreateView(nil); err != nil {
			return fmt.Errorf("creating msaa view: %w", err)
		}
	}

	// Depth texture sample count must match the color attachment.
	b.depthTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("creating depth texture: %w", err)
	}
	if b.depthTextureView, err = b.depthTexture.CreateView(nil); err != nil {
		return fmt.Errorf("creating depth view: %w", err)
	}

	if formatChanged || b.opaque.RenderPipeline() == nil {
		for _, p := range []pipeline.Pipeline{b.opaque, b.transparent} {
			if err := b.registerPipeline(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// registerPipeline creates the GPU pipeline for p against the current surface format.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) registerPipeline(p pipeline.Pipeline) error {
	target := wgpu.ColorTargetState{
		Format:    b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shaderModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shaderModule,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating pipeline %s: %w", p.PipelineKey(), err)
	}
	p.Release()
	p.SetRenderPipeline(created)
	return nil
}

// vertexLayout describes mesh.Vertex to the vertex stage.
func vertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: mesh.VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: mesh.OffsetPosition, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: mesh.OffsetNormal, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: mesh.OffsetColor, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x3, Offset: mesh.OffsetEmission, ShaderLocation: 3},
		},
	}
}

// upload writes batch into g, growing the buffers when needed. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) upload(g *geometryBuffers, batch mesh.Batch) error {
	var m mesh.Mesh
	m.Append(batch.Opaque)
	m.Append(batch.Transparent)
	g.opaqueCount = uint32(len(batch.Opaque.Indices))
	g.transparentCount = uint32(len(batch.Transparent.Indices))
	if m.Empty() {
		return nil
	}

	vertexData := common.SliceToBytes(m.Vertices)
	indexData := common.SliceToBytes(m.Indices)

	if err := g.provider.Grow(b.device, uint64(len(vertexData)), uint64(len(indexData))); err != nil {
		return err
	}
	b.queue.WriteBuffer(g.provider.VertexBuffer(), 0, vertexData)
	b.queue.WriteBuffer(g.provider.IndexBuffer(), 0, indexData)
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(f Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	if b.depthTextureView == nil {
		return nil
	}

	if !b.staticLoaded || f.StaticVersion != b.staticVersion {
		if err := b.upload(&b.static, f.Static); err != nil {
			return err
		}
		b.staticVersion = f.StaticVersion
		b.staticLoaded = true
	}
	if err := b.upload(&b.dynamic, f.Dynamic); err != nil {
		return err
	}

	u := NewGPUFrameUniform(f)
	bgp.WriteAll(b.queue, bgp.BufferWrite{Provider: b.frame, Binding: b.frameBinding, Data: u.Bytes()})

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquiring surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("creating surface view: %w", err)
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("creating command encoder: %w", err)
	}
	defer encoder.Release()

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget.
	color := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
	}
	color.ClearValue.R, color.ClearValue.G, color.ClearValue.B, color.ClearValue.A = clearColor(f.Clear)
	if b.msaaTextureView != nil {
		color.View = b.msaaTextureView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	pass.SetBindGroup(0, b.frame.BindGroup(), nil)

	pass.SetPipeline(b.opaque.RenderPipeline())
	b.drawRange(pass, &b.static, 0, b.static.opaqueCount)
	b.drawRange(pass, &b.dynamic, 0, b.dynamic.opaqueCount)

	pass.SetPipeline(b.transparent.RenderPipeline())
	b.drawRange(pass, &b.static, b.static.opaqueCount, b.static.transparentCount)
	b.drawRange(pass, &b.dynamic, b.dynamic.opaqueCount, b.dynamic.transparentCount)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finishing command encoder: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) drawRange(pass *wgpu.RenderPassEncoder, g *geometryBuffers, first, count uint32) {
	vertex := g.provider.VertexBuffer()
	if count == 0 || vertex == nil {
		return
	}
	pass.SetVertexBuffer(0, vertex, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(g.provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(count, 1, first, 0, 0)
}

func (b *wgpuRendererBackendImpl) Capture(string) error {
	return ErrCaptureUnsupported
}

// releaseTargets frees size-dependent textures. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true

	b.static.provider.Release()
	b.dynamic.provider.Release()
	b.opaque.Release()
	b.transparent.Release()
	b.releaseTargets()

	b.frame.Release()
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	if b.shaderModule != nil {
		b.shaderModule.Release()
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
