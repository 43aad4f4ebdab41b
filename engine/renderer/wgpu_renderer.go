package renderer

import (
	"errors"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/spynter/hub360/common"
	"github.com/spynter/hub360/logging"
)

var _ Renderer = &wgpuRenderer{}

const (
	cameraUniformSize = 64
	fadeUniformSize   = 16
	markerUniformSize = 80
)

type wgpuRenderer struct {
	mu sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	sampler *wgpu.Sampler

	cameraLayout   *wgpu.BindGroupLayout
	panoramaLayout *wgpu.BindGroupLayout
	markerLayout   *wgpu.BindGroupLayout

	panoramaPipeline *wgpu.RenderPipeline
	markerPipeline   *wgpu.RenderPipeline

	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup
	fadeBuffer      *wgpu.Buffer

	// fadeGeneration bumps whenever the previous-texture binding changes so
	// panorama meshes know to rebuild their bind group.
	fadeGeneration uint64
	fadeView       *wgpu.TextureView
	fadeActive     bool

	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
}

type wgpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *wgpuTexture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

type panoramaMeshImpl struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32

	texture    *wgpuTexture
	bindGroup  *wgpu.BindGroup
	generation uint64
}

func (m *panoramaMeshImpl) Release() {
	if m.bindGroup != nil {
		m.bindGroup.Release()
		m.bindGroup = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
}

type markerMeshHandle struct {
	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	indexCount    uint32
	uniformBuffer *wgpu.Buffer
	bindGroup     *wgpu.BindGroup
	color         [4]float32
}

func (m *markerMeshHandle) Release() {
	if m.bindGroup != nil {
		m.bindGroup.Release()
		m.bindGroup = nil
	}
	if m.uniformBuffer != nil {
		m.uniformBuffer.Release()
		m.uniformBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
}

// NewWGPURenderer creates the WebGPU renderer on the given surface. Must be
// called from the thread that owns the surface's window; the renderer locks
// the calling goroutine to its OS thread.
//
// Parameters:
//   - surfaceDescriptor: platform surface obtained from the window layer
//   - width, height: initial drawable size in pixels
//   - opts: optional renderer settings
//
// Returns:
//   - Renderer: the configured renderer
//   - error: error if adapter or device acquisition fails
func NewWGPURenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, opts ...WGPURendererOption) (Renderer, error) {
	runtime.LockOSThread()

	settings := defaultRendererSettings()
	for _, opt := range opts {
		opt(settings)
	}

	r := &wgpuRenderer{}

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	adapter, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: settings.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		r.Dispose()
		return nil, err
	}
	r.adapter = adapter

	device, err := r.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "hub360 device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		r.Dispose()
		return nil, err
	}
	r.device = device
	r.queue = r.device.GetQueue()

	caps := r.surface.GetCapabilities(r.adapter)
	r.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: settings.presentMode,
		AlphaMode:   caps.AlphaModes[0],
	}
	r.surface.Configure(r.adapter, r.device, r.config)

	if err := r.createDepthTexture(); err != nil {
		r.Dispose()
		return nil, err
	}
	if err := r.createSharedResources(); err != nil {
		r.Dispose()
		return nil, err
	}
	if err := r.createPipelines(); err != nil {
		r.Dispose()
		return nil, err
	}

	logging.Info().
		Str("format", r.config.Format.String()).
		Uint32("width", r.config.Width).
		Uint32("height", r.config.Height).
		Msg("renderer initialized")
	return r, nil
}

func (r *wgpuRenderer) createDepthTexture() error {
	depth, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth texture",
		Size: wgpu.Extent3D{
			Width:              r.config.Width,
			Height:             r.config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	r.depthTexture = depth
	r.depthView, err = depth.CreateView(nil)
	return err
}

func (r *wgpuRenderer) createSharedResources() error {
	sampler, err := r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "panorama sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return err
	}
	r.sampler = sampler

	cameraLayout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "camera bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return err
	}
	r.cameraLayout = cameraLayout

	panoramaLayout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "panorama bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    3,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return err
	}
	r.panoramaLayout = panoramaLayout

	markerLayout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "marker bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return err
	}
	r.markerLayout = markerLayout

	cameraBuffer, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "camera uniform buffer",
		Size:             cameraUniformSize,
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return err
	}
	r.cameraBuffer = cameraBuffer

	var identity [16]float32
	common.Identity(identity[:])
	r.queue.WriteBuffer(r.cameraBuffer, 0, wgpu.ToBytes(identity[:]))

	cameraBindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "camera bind group",
		Layout: r.cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  r.cameraBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return err
	}
	r.cameraBindGroup = cameraBindGroup

	fadeBuffer, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "fade uniform buffer",
		Size:             fadeUniformSize,
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return err
	}
	r.fadeBuffer = fadeBuffer
	r.writeFadeUniform(0, false)
	return nil
}

func (r *wgpuRenderer) createPipelines() error {
	panoramaModule, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "panorama shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: panoramaShader,
		},
	})
	if err != nil {
		return err
	}
	defer panoramaModule.Release()

	markerModule, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "marker shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: markerShader,
		},
	})
	if err != nil {
		return err
	}
	defer markerModule.Release()

	vertexBuffers := []wgpu.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{
					Format:         wgpu.VertexFormatFloat32x3,
					Offset:         0,
					ShaderLocation: 0,
				},
				{
					Format:         wgpu.VertexFormatFloat32x2,
					Offset:         12,
					ShaderLocation: 1,
				},
			},
		},
	}

	panoramaPipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "panorama pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.cameraLayout, r.panoramaLayout},
	})
	if err != nil {
		return err
	}
	defer panoramaPipelineLayout.Release()

	// The camera sits inside the sphere, so culling is off and the panorama
	// never writes depth. Markers are depth tested against each other only.
	panoramaPipeline, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "panorama pipeline",
		Layout: panoramaPipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     panoramaModule,
			EntryPoint: "vs_main",
			Buffers:    vertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     panoramaModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    r.config.Format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}
	r.panoramaPipeline = panoramaPipeline

	markerPipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "marker pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.cameraLayout, r.markerLayout},
	})
	if err != nil {
		return err
	}
	defer markerPipelineLayout.Release()

	markerPipeline, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "marker pipeline",
		Layout: markerPipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     markerModule,
			EntryPoint: "vs_main",
			Buffers:    vertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     markerModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: r.config.Format,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
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
		return err
	}
	r.markerPipeline = markerPipeline
	return nil
}

func (r *wgpuRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = uint32(width)
	r.config.Height = uint32(height)
	r.surface.Configure(r.adapter, r.device, r.config)

	if r.depthView != nil {
		r.depthView.Release()
		r.depthView = nil
	}
	if r.depthTexture != nil {
		r.depthTexture.Release()
		r.depthTexture = nil
	}
	if err := r.createDepthTexture(); err != nil {
		logging.Error().Err(err).Msg("failed to recreate depth texture")
	}
}

func (r *wgpuRenderer) CreateTexture(data common.TextureStagingData) (TextureHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	texture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "panorama texture",
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}
	return &wgpuTexture{texture: texture, view: view}, nil
}

func (r *wgpuRenderer) CreatePanorama(tex TextureHandle) (MeshHandle, error) {
	wt, ok := tex.(*wgpuTexture)
	if !ok || wt.view == nil {
		return nil, errors.New("texture was not created by this renderer")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := panoramaMesh()
	vertexBuffer, indexBuffer, err := r.createMeshBuffers("panorama", data)
	if err != nil {
		return nil, err
	}

	return &panoramaMeshImpl{
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		indexCount:   uint32(len(data.indices)),
		texture:      wt,
	}, nil
}

func (r *wgpuRenderer) CreateMarker(kind MarkerKind) (MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := markerMesh()
	vertexBuffer, indexBuffer, err := r.createMeshBuffers("marker", data)
	if err != nil {
		return nil, err
	}

	uniformBuffer, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "marker uniform buffer",
		Size:             markerUniformSize,
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		vertexBuffer.Release()
		indexBuffer.Release()
		return nil, err
	}

	bindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "marker bind group",
		Layout: r.markerLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  uniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		uniformBuffer.Release()
		vertexBuffer.Release()
		indexBuffer.Release()
		return nil, err
	}

	return &markerMeshHandle{
		vertexBuffer:  vertexBuffer,
		indexBuffer:   indexBuffer,
		indexCount:    uint32(len(data.indices)),
		uniformBuffer: uniformBuffer,
		bindGroup:     bindGroup,
		color:         markerColor(kind),
	}, nil
}

func (r *wgpuRenderer) createMeshBuffers(label string, data meshData) (*wgpu.Buffer, *wgpu.Buffer, error) {
	vertexBuffer, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " vertex buffer",
		Size:             uint64(len(data.vertices) * 4),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, nil, err
	}
	r.queue.WriteBuffer(vertexBuffer, 0, wgpu.ToBytes(data.vertices))

	indexBuffer, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " index buffer",
		Size:             uint64(len(data.indices) * 4),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		vertexBuffer.Release()
		return nil, nil, err
	}
	r.queue.WriteBuffer(indexBuffer, 0, wgpu.ToBytes(data.indices))
	return vertexBuffer, indexBuffer, nil
}

func (r *wgpuRenderer) SetCamera(viewProjection [16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue.WriteBuffer(r.cameraBuffer, 0, wgpu.ToBytes(viewProjection[:]))
}

func (r *wgpuRenderer) BeginCrossFade(prev TextureHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wt, ok := prev.(*wgpuTexture)
	if !ok || wt.view == nil {
		logging.Warn().Msg("cross fade ignored, previous texture not usable")
		return
	}
	r.fadeView = wt.view
	r.fadeActive = true
	r.fadeGeneration++
	r.writeFadeUniform(0, true)
}

func (r *wgpuRenderer) SetCrossFadeProgress(progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.fadeActive {
		return
	}
	r.writeFadeUniform(float32(common.Clamp(progress, 0, 1)), true)
}

func (r *wgpuRenderer) EndCrossFade() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fadeView = nil
	r.fadeActive = false
	r.fadeGeneration++
	r.writeFadeUniform(0, false)
}

func (r *wgpuRenderer) writeFadeUniform(progress float32, enabled bool) {
	data := [4]float32{progress, 0, 0, 0}
	if enabled {
		data[1] = 1
	}
	r.queue.WriteBuffer(r.fadeBuffer, 0, wgpu.ToBytes(data[:]))
}

func (r *wgpuRenderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frameSurface != nil {
		return errors.New("frame already in progress")
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1,
		},
	})

	r.frameSurface = surfaceTexture
	r.frameView = view
	r.frameEncoder = encoder
	r.framePass = pass
	return nil
}

func (r *wgpuRenderer) DrawPanorama(mesh MeshHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := mesh.(*panoramaMeshImpl)
	if !ok || r.framePass == nil {
		return
	}
	if m.bindGroup == nil || m.generation != r.fadeGeneration {
		if err := r.rebuildPanoramaBindGroup(m); err != nil {
			logging.Error().Err(err).Msg("failed to rebuild panorama bind group")
			return
		}
	}
	r.framePass.SetPipeline(r.panoramaPipeline)
	r.framePass.SetBindGroup(0, r.cameraBindGroup, nil)
	r.framePass.SetBindGroup(1, m.bindGroup, nil)
	r.framePass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	r.framePass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	r.framePass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
}

// rebuildPanoramaBindGroup binds the previous-texture slot to the retained
// fade texture, or to the mesh's own texture when no fade is running.
func (r *wgpuRenderer) rebuildPanoramaBindGroup(m *panoramaMeshImpl) error {
	previous := m.texture.view
	if r.fadeActive && r.fadeView != nil {
		previous = r.fadeView
	}

	bindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "panorama bind group",
		Layout: r.panoramaLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Sampler: r.sampler,
			},
			{
				Binding:     1,
				TextureView: m.texture.view,
			},
			{
				Binding:     2,
				TextureView: previous,
			},
			{
				Binding: 3,
				Buffer:  r.fadeBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return err
	}
	if m.bindGroup != nil {
		m.bindGroup.Release()
	}
	m.bindGroup = bindGroup
	m.generation = r.fadeGeneration
	return nil
}

func (r *wgpuRenderer) DrawMarker(mesh MeshHandle, model [16]float32, highlight bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := mesh.(*markerMeshHandle)
	if !ok || r.framePass == nil {
		return
	}

	color := m.color
	if highlight {
		color[0] = min32(color[0]*1.35, 1)
		color[1] = min32(color[1]*1.35, 1)
		color[2] = min32(color[2]*1.35, 1)
		color[3] = 1
	}
	var uniform [20]float32
	copy(uniform[:16], model[:])
	copy(uniform[16:], color[:])
	r.queue.WriteBuffer(m.uniformBuffer, 0, wgpu.ToBytes(uniform[:]))

	r.framePass.SetPipeline(r.markerPipeline)
	r.framePass.SetBindGroup(0, r.cameraBindGroup, nil)
	r.framePass.SetBindGroup(1, m.bindGroup, nil)
	r.framePass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	r.framePass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	r.framePass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
}

func (r *wgpuRenderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.framePass == nil {
		return
	}
	r.framePass.End()
	cmdBuf, err := r.frameEncoder.Finish(nil)
	if err != nil {
		logging.Error().Err(err).Msg("failed to finish command encoder")
	} else {
		r.queue.Submit(cmdBuf)
		cmdBuf.Release()
	}
	r.framePass.Release()
	r.framePass = nil
	r.frameEncoder.Release()
	r.frameEncoder = nil
}

func (r *wgpuRenderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frameSurface == nil {
		return
	}
	r.surface.Present()
	r.frameView.Release()
	r.frameView = nil
	r.frameSurface.Release()
	r.frameSurface = nil
}

func (r *wgpuRenderer) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.framePass != nil {
		r.framePass.Release()
		r.framePass = nil
	}
	if r.frameEncoder != nil {
		r.frameEncoder.Release()
		r.frameEncoder = nil
	}
	if r.frameView != nil {
		r.frameView.Release()
		r.frameView = nil
	}
	if r.frameSurface != nil {
		r.frameSurface.Release()
		r.frameSurface = nil
	}
	if r.markerPipeline != nil {
		r.markerPipeline.Release()
		r.markerPipeline = nil
	}
	if r.panoramaPipeline != nil {
		r.panoramaPipeline.Release()
		r.panoramaPipeline = nil
	}
	if r.fadeBuffer != nil {
		r.fadeBuffer.Release()
		r.fadeBuffer = nil
	}
	if r.cameraBindGroup != nil {
		r.cameraBindGroup.Release()
		r.cameraBindGroup = nil
	}
	if r.cameraBuffer != nil {
		r.cameraBuffer.Release()
		r.cameraBuffer = nil
	}
	if r.markerLayout != nil {
		r.markerLayout.Release()
		r.markerLayout = nil
	}
	if r.panoramaLayout != nil {
		r.panoramaLayout.Release()
		r.panoramaLayout = nil
	}
	if r.cameraLayout != nil {
		r.cameraLayout.Release()
		r.cameraLayout = nil
	}
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	if r.depthView != nil {
		r.depthView.Release()
		r.depthView = nil
	}
	if r.depthTexture != nil {
		r.depthTexture.Release()
		r.depthTexture = nil
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.adapter != nil {
		r.adapter.Release()
		r.adapter = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
