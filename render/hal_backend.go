// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"

	"github.com/gogpu/textfx/internal/logging"
	"github.com/gogpu/textfx/shader"
)

// HALBackend draws items with wgpu HAL render pipelines.
//
// The backend RECEIVES the device and queue from the host and records into
// a render pass the host begins and ends:
//
//	b, _ := render.NewHALBackendFromHandle(provider)
//	rp := encoder.BeginRenderPass(desc)
//	b.BeginFrame(rp)
//	_ = scene.Render(render.NewContext(b, w, h))
//	b.EndFrame()
//	rp.End()
//
// Pipelines are cached by program text, so every owner whose deformer
// stack synthesizes the same program shares one pipeline. Textures are
// cached by image and re-uploaded when DrawItem.TextureVersion changes.
// Per-draw buffers and bind groups live until the next BeginFrame.
//
// Bind group 0 holds the globals uniform, the base texture and its
// sampler. Bind group 1 holds one uniform buffer per deformer block, at the
// bindings the program assigned.
type HALBackend struct {
	device hal.Device
	queue  hal.Queue
	cfg    Config

	globalsLayout hal.BindGroupLayout
	sampler       hal.Sampler

	pipelines map[string]*halPipeline
	textures  map[image.Image]*halTexture
	white     *halTexture

	pass  hal.RenderPassEncoder
	frame []halFrameResources
	draws int
}

// halPipeline holds the GPU objects of one synthesized program.
type halPipeline struct {
	vertex      hal.ShaderModule
	fragment    hal.ShaderModule
	blockLayout hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
}

type halTexture struct {
	texture hal.Texture
	view    hal.TextureView
	version uint64
}

// halFrameResources holds per-draw GPU resources released at the next
// BeginFrame.
type halFrameResources struct {
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
}

// NewHALBackend creates a backend on a host-provided device and queue.
func NewHALBackend(device hal.Device, queue hal.Queue, opts ...Option) (*HALBackend, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDeviceHandle
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HALBackend{
		device:    device,
		queue:     queue,
		cfg:       cfg,
		pipelines: make(map[string]*halPipeline),
		textures:  make(map[image.Image]*halTexture),
	}, nil
}

// NewHALBackendFromHandle creates a backend from a host device handle that
// exposes HalDevice and HalQueue.
func NewHALBackendFromHandle(h DeviceHandle, opts ...Option) (*HALBackend, error) {
	device, queue, err := halFromHandle(h)
	if err != nil {
		return nil, err
	}
	return NewHALBackend(device, queue, opts...)
}

// Config returns the backend configuration.
func (b *HALBackend) Config() Config { return b.cfg }

// Capabilities returns the backend's capabilities.
func (b *HALBackend) Capabilities() BackendCapabilities {
	return BackendCapabilities{
		IsGPU:                true,
		SupportsAntialiasing: b.cfg.SampleCount > 1,
		RunsPrograms:         true,
		MaxTextureSize:       int(gputypes.DefaultLimits().MaxTextureDimension2D),
	}
}

// PipelineCount returns the number of cached pipelines.
func (b *HALBackend) PipelineCount() int { return len(b.pipelines) }

// DrawCount returns the number of draws recorded since BeginFrame.
func (b *HALBackend) DrawCount() int { return b.draws }

// BeginFrame releases the previous frame's per-draw resources and starts
// recording into pass.
func (b *HALBackend) BeginFrame(pass hal.RenderPassEncoder) {
	b.releaseFrame()
	b.pass = pass
	b.draws = 0
}

// EndFrame stops recording. Per-draw resources stay alive until the next
// BeginFrame or Destroy, since the GPU may still read them.
func (b *HALBackend) EndFrame() {
	b.pass = nil
}

// Draw records item into the current render pass.
func (b *HALBackend) Draw(projection [16]float32, item *DrawItem) error {
	if b.pass == nil {
		return ErrNoRenderPass
	}
	if err := item.Validate(); err != nil {
		return err
	}
	if len(item.Indices) == 0 {
		return nil
	}
	if err := b.ensureShared(); err != nil {
		return err
	}
	pl, err := b.ensurePipeline(item.Program)
	if err != nil {
		return err
	}
	tex, err := b.ensureTexture(item.Texture, item.TextureVersion)
	if err != nil {
		return err
	}

	var res halFrameResources
	defer func() { b.frame = append(b.frame, res) }()

	vertBuf, err := b.createAndUploadBuffer("textfx_vertices", item.VertexBytes(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	res.buffers = append(res.buffers, vertBuf)

	idxBuf, err := b.createAndUploadBuffer("textfx_indices", item.IndexBytes(),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	res.buffers = append(res.buffers, idxBuf)

	globals := item.Globals(projection)
	globalsBuf, err := b.createAndUploadBuffer("textfx_globals", globals.Bytes(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	res.buffers = append(res.buffers, globalsBuf)

	globalsGroup, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "textfx_globals_bind",
		Layout: b.globalsLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: globalsBuf.NativeHandle(), Offset: 0, Size: shader.GlobalsSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: tex.view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: b.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("create globals bind group: %w", err)
	}
	res.bindGroups = append(res.bindGroups, globalsGroup)

	var blockGroup hal.BindGroup
	if pl.blockLayout != nil {
		entries := make([]gputypes.BindGroupEntry, 0, len(item.Program.Blocks))
		for i, blk := range item.Program.Blocks {
			buf, err := b.createAndUploadBuffer(blk.VarName(), item.Uniforms[i],
				gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
			if err != nil {
				return err
			}
			res.buffers = append(res.buffers, buf)
			entries = append(entries, gputypes.BindGroupEntry{
				Binding: uint32(blk.Binding), //nolint:gosec // bindings are small
				Resource: gputypes.BufferBinding{
					Buffer: buf.NativeHandle(), Offset: 0, Size: uint64(len(item.Uniforms[i])),
				},
			})
		}
		blockGroup, err = b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   "textfx_deformer_bind",
			Layout:  pl.blockLayout,
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("create deformer bind group: %w", err)
		}
		res.bindGroups = append(res.bindGroups, blockGroup)
	}

	b.pass.SetPipeline(pl.pipeline)
	b.pass.SetBindGroup(shader.GlobalsGroup, globalsGroup, nil)
	if blockGroup != nil {
		b.pass.SetBindGroup(shader.DeformerGroup, blockGroup, nil)
	}
	b.pass.SetVertexBuffer(0, vertBuf, 0)
	b.pass.SetIndexBuffer(idxBuf, gputypes.IndexFormatUint32, 0)
	b.pass.DrawIndexed(uint32(len(item.Indices)), 1, 0, 0, 0) //nolint:gosec // index count fits uint32
	b.draws++
	return nil
}

// ensureShared creates the globals layout and sampler on first use.
func (b *HALBackend) ensureShared() error {
	if b.globalsLayout == nil {
		layout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label: "textfx_globals_layout",
			Entries: []gputypes.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
					Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
				},
				{
					Binding:    1,
					Visibility: gputypes.ShaderStageFragment,
					Texture: &gputypes.TextureBindingLayout{
						SampleType:    gputypes.TextureSampleTypeFloat,
						ViewDimension: gputypes.TextureViewDimension2D,
					},
				},
				{
					Binding:    2,
					Visibility: gputypes.ShaderStageFragment,
					Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("create globals layout: %w", err)
		}
		b.globalsLayout = layout
	}
	if b.sampler == nil {
		sampler, err := b.device.CreateSampler(&hal.SamplerDescriptor{
			Label:        "textfx_sampler",
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    gputypes.FilterModeNearest,
			MinFilter:    gputypes.FilterModeNearest,
			MipmapFilter: gputypes.FilterModeNearest,
		})
		if err != nil {
			return fmt.Errorf("create sampler: %w", err)
		}
		b.sampler = sampler
	}
	return nil
}

// ensurePipeline returns the cached pipeline for p, creating it on a miss.
func (b *HALBackend) ensurePipeline(p *shader.Program) (*halPipeline, error) {
	key := p.Key()
	if pl, ok := b.pipelines[key]; ok {
		return pl, nil
	}
	pl := &halPipeline{}
	if err := b.createPipeline(pl, p); err != nil {
		b.destroyPipeline(pl)
		return nil, err
	}
	b.pipelines[key] = pl
	logging.Logger().Debug("render: pipeline created",
		"blocks", len(p.Blocks), "weights", p.UsesWeights, "cached", len(b.pipelines))
	return pl, nil
}

func (b *HALBackend) shaderSources(p *shader.Program) (vs, fs hal.ShaderSource, err error) {
	if !b.cfg.SPIRV {
		return hal.ShaderSource{WGSL: p.Vertex}, hal.ShaderSource{WGSL: p.Fragment}, nil
	}
	c, err := p.Compile()
	if err != nil {
		return vs, fs, err
	}
	return hal.ShaderSource{SPIRV: c.Vertex}, hal.ShaderSource{SPIRV: c.Fragment}, nil
}

func (b *HALBackend) createPipeline(pl *halPipeline, p *shader.Program) error {
	vsSrc, fsSrc, err := b.shaderSources(p)
	if err != nil {
		return fmt.Errorf("compile program: %w", err)
	}
	pl.vertex, err = b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "textfx_vertex",
		Source: vsSrc,
	})
	if err != nil {
		return fmt.Errorf("create vertex module: %w", err)
	}
	pl.fragment, err = b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "textfx_fragment",
		Source: fsSrc,
	})
	if err != nil {
		return fmt.Errorf("create fragment module: %w", err)
	}

	layouts := []hal.BindGroupLayout{b.globalsLayout}
	if len(p.Blocks) > 0 {
		entries := make([]gputypes.BindGroupLayoutEntry, 0, len(p.Blocks))
		for _, blk := range p.Blocks {
			entries = append(entries, gputypes.BindGroupLayoutEntry{
				Binding:    uint32(blk.Binding), //nolint:gosec // bindings are small
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			})
		}
		pl.blockLayout, err = b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   "textfx_deformer_layout",
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("create deformer layout: %w", err)
		}
		layouts = append(layouts, pl.blockLayout)
	}

	pl.pipeLayout, err = b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "textfx_pipe_layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	blend := gputypes.BlendStateAlpha()
	pl.pipeline, err = b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "textfx_pipeline",
		Layout: pl.pipeLayout,
		Vertex: hal.VertexState{
			Module:     pl.vertex,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(p.UsesWeights),
		},
		Fragment: &hal.FragmentState{
			Module:     pl.fragment,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    b.cfg.Format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: b.cfg.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	return nil
}

// vertexLayout matches VertexInput of the synthesized vertex program.
func vertexLayout(weights bool) []gputypes.VertexBufferLayout {
	attrs := []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: shader.PositionLocation},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: shader.UVLocation},
	}
	if weights {
		attrs = append(attrs, gputypes.VertexAttribute{
			Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: shader.WeightsLocation,
		})
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		},
	}
}

// ensureTexture returns the GPU copy of img, uploading it when new or when
// version changed. A nil image maps to a 1x1 white texture.
func (b *HALBackend) ensureTexture(img image.Image, version uint64) (*halTexture, error) {
	if img == nil {
		if b.white == nil {
			white := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			white.Pix = []byte{0xff, 0xff, 0xff, 0xff}
			t, err := b.uploadTexture(nil, white, 0)
			if err != nil {
				return nil, err
			}
			b.white = t
		}
		return b.white, nil
	}
	t := b.textures[img]
	if t != nil && t.version == version {
		return t, nil
	}
	t, err := b.uploadTexture(t, img, version)
	if err != nil {
		return nil, err
	}
	b.textures[img] = t
	return t, nil
}

func (b *HALBackend) uploadTexture(t *halTexture, img image.Image, version uint64) (*halTexture, error) {
	bounds := img.Bounds()
	w, h := uint32(bounds.Dx()), uint32(bounds.Dy()) //nolint:gosec // image sizes fit uint32
	if t == nil {
		tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
			Label:         "textfx_texture",
			Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create texture: %w", err)
		}
		view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:         "textfx_texture_view",
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			b.device.DestroyTexture(tex)
			return nil, fmt.Errorf("create texture view: %w", err)
		}
		t = &halTexture{texture: tex, view: view}
	}

	err := b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.texture, MipLevel: 0},
		textureBytes(img),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return nil, fmt.Errorf("upload texture: %w", err)
	}
	t.version = version
	return t, nil
}

// textureBytes converts img to tightly packed straight-alpha RGBA8. Alpha
// images become white with coverage in alpha.
func textureBytes(img image.Image) []byte {
	bounds := img.Bounds()
	if a, ok := img.(*image.Alpha); ok {
		w, h := bounds.Dx(), bounds.Dy()
		out := make([]byte, w*h*4)
		for y := range h {
			row := a.Pix[y*a.Stride : y*a.Stride+w]
			for x, v := range row {
				o := (y*w + x) * 4
				out[o+0], out[o+1], out[o+2], out[o+3] = 0xff, 0xff, 0xff, v
			}
		}
		return out
	}
	if n, ok := img.(*image.NRGBA); ok && n.Stride == 4*bounds.Dx() && n.Rect.Min == (image.Point{}) {
		return n.Pix
	}
	n := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(n, n.Bounds(), img, bounds.Min, draw.Src)
	return n.Pix
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (b *HALBackend) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		b.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

func (b *HALBackend) releaseFrame() {
	for _, res := range b.frame {
		for _, g := range res.bindGroups {
			b.device.DestroyBindGroup(g)
		}
		for _, buf := range res.buffers {
			b.device.DestroyBuffer(buf)
		}
	}
	b.frame = b.frame[:0]
}

// destroyPipeline releases pipeline resources in reverse creation order.
func (b *HALBackend) destroyPipeline(pl *halPipeline) {
	if pl.pipeline != nil {
		b.device.DestroyRenderPipeline(pl.pipeline)
	}
	if pl.pipeLayout != nil {
		b.device.DestroyPipelineLayout(pl.pipeLayout)
	}
	if pl.blockLayout != nil {
		b.device.DestroyBindGroupLayout(pl.blockLayout)
	}
	if pl.fragment != nil {
		b.device.DestroyShaderModule(pl.fragment)
	}
	if pl.vertex != nil {
		b.device.DestroyShaderModule(pl.vertex)
	}
}

func (b *HALBackend) destroyTexture(t *halTexture) {
	if t.view != nil {
		b.device.DestroyTextureView(t.view)
	}
	if t.texture != nil {
		b.device.DestroyTexture(t.texture)
	}
}

// Destroy releases all GPU resources held by the backend. Safe to call
// multiple times.
func (b *HALBackend) Destroy() {
	b.releaseFrame()
	for key, pl := range b.pipelines {
		b.destroyPipeline(pl)
		delete(b.pipelines, key)
	}
	for img, t := range b.textures {
		b.destroyTexture(t)
		delete(b.textures, img)
	}
	if b.white != nil {
		b.destroyTexture(b.white)
		b.white = nil
	}
	if b.sampler != nil {
		b.device.DestroySampler(b.sampler)
		b.sampler = nil
	}
	if b.globalsLayout != nil {
		b.device.DestroyBindGroupLayout(b.globalsLayout)
		b.globalsLayout = nil
	}
	b.pass = nil
}

var _ Backend = (*HALBackend)(nil)
