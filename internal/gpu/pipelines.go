package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sprite/batch"
)

// Pipeline identifiers. Materials map onto exactly one of these.
const (
	PipelineSprite batch.PipelineID = iota
	PipelineAlphaMask
	PipelineQuad
	PipelineLight

	pipelineCount
)

// Pipeline errors.
var (
	// ErrUnknownPipeline is returned for a PipelineID outside the known set.
	ErrUnknownPipeline = errors.New("wgpu: unknown pipeline")

	// ErrPipelinesDestroyed is returned after Destroy.
	ErrPipelinesDestroyed = errors.New("wgpu: pipelines destroyed")
)

// Default pipeline configuration.
const (
	DefaultSampleCount = 1
	DefaultFormat      = gputypes.TextureFormatBGRA8Unorm
	DefaultFilter      = gputypes.FilterModeNearest
)

// Config selects the render target and sampling behavior of all pipelines.
// Zero fields take the package defaults.
type Config struct {
	Format      gputypes.TextureFormat
	SampleCount uint32
	Filter      gputypes.FilterMode
}

func (c Config) withDefaults() Config {
	if c.Format == gputypes.TextureFormatUndefined {
		c.Format = DefaultFormat
	}
	if c.SampleCount == 0 {
		c.SampleCount = DefaultSampleCount
	}
	if c.Filter == gputypes.FilterModeUndefined {
		c.Filter = DefaultFilter
	}
	return c
}

// pipelineLayoutKind selects how many bind groups a pipeline uses.
type pipelineLayoutKind int

const (
	layoutCamera        pipelineLayoutKind = iota // group 0
	layoutCameraTexture                           // groups 0, 1
	layoutCameraMask                              // groups 0, 1, 2

	layoutCount
)

type pipelineSpec struct {
	label    string
	shader   *string
	fragment string
	layout   pipelineLayoutKind
	blend    gputypes.BlendState
}

func additiveBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorZero,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

var pipelineSpecs = [pipelineCount]pipelineSpec{
	PipelineSprite:    {"sprite", &spriteShaderSource, "fs_main", layoutCameraTexture, gputypes.BlendStatePremultiplied()},
	PipelineAlphaMask: {"alpha_mask", &maskShaderSource, "fs_main", layoutCameraMask, gputypes.BlendStatePremultiplied()},
	PipelineQuad:      {"quad", &quadShaderSource, "fs_main", layoutCamera, gputypes.BlendStatePremultiplied()},
	PipelineLight:     {"light_add", &spriteShaderSource, "fs_light", layoutCameraTexture, additiveBlend()},
}

// Pipelines owns the shader modules, layouts, sampler and render pipelines
// used by the sprite renderer.
//
// Shared objects (layouts, sampler) are created by NewPipelines. Shader
// modules and render pipelines are created lazily the first time a
// PipelineID is requested. Pipelines is not safe for concurrent use.
type Pipelines struct {
	device hal.Device
	config Config

	cameraLayout  hal.BindGroupLayout
	textureLayout hal.BindGroupLayout
	layouts       [layoutCount]hal.PipelineLayout
	sampler       hal.Sampler

	shaders   map[*string]hal.ShaderModule
	pipelines [pipelineCount]hal.RenderPipeline

	blitLayout hal.PipelineLayout
	blit       hal.RenderPipeline

	destroyed bool
}

// NewPipelines creates the bind group layouts, pipeline layouts and sampler.
func NewPipelines(device hal.Device, config Config) (*Pipelines, error) {
	p := &Pipelines{
		device:  device,
		config:  config.withDefaults(),
		shaders: make(map[*string]hal.ShaderModule),
	}
	if err := p.createShared(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// Config returns the effective configuration.
func (p *Pipelines) Config() Config { return p.config }

// CameraLayout returns the group 0 layout.
func (p *Pipelines) CameraLayout() hal.BindGroupLayout { return p.cameraLayout }

// TextureLayout returns the layout shared by group 1 and group 2.
func (p *Pipelines) TextureLayout() hal.BindGroupLayout { return p.textureLayout }

// Sampler returns the sampler bound next to every texture.
func (p *Pipelines) Sampler() hal.Sampler { return p.sampler }

// Created reports whether the pipeline for id has been built.
func (p *Pipelines) Created(id batch.PipelineID) bool {
	return id < pipelineCount && p.pipelines[id] != nil
}

// Pipeline returns the render pipeline for id, creating it on first use.
func (p *Pipelines) Pipeline(id batch.PipelineID) (hal.RenderPipeline, error) {
	if p.destroyed {
		return nil, ErrPipelinesDestroyed
	}
	if id >= pipelineCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPipeline, id)
	}
	if p.pipelines[id] != nil {
		return p.pipelines[id], nil
	}
	pipeline, err := p.createPipeline(pipelineSpecs[id])
	if err != nil {
		return nil, err
	}
	p.pipelines[id] = pipeline
	return pipeline, nil
}

// Blit returns the pipeline that copies a virtual render target onto the
// surface, creating it on first use. It binds only group 0 (texture +
// sampler) and draws six generated vertices.
func (p *Pipelines) Blit() (hal.RenderPipeline, error) {
	if p.destroyed {
		return nil, ErrPipelinesDestroyed
	}
	if p.blit != nil {
		return p.blit, nil
	}
	shader, err := p.shaderModule("blit", &blitShaderSource)
	if err != nil {
		return nil, err
	}
	if p.blitLayout == nil {
		layout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label:            "sprite_blit_layout",
			BindGroupLayouts: []hal.BindGroupLayout{p.textureLayout},
		})
		if err != nil {
			return nil, fmt.Errorf("create blit pipeline layout: %w", err)
		}
		p.blitLayout = layout
	}
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_pipeline",
		Layout: p.blitLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{Format: p.config.Format, WriteMask: gputypes.ColorWriteMaskAll},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return nil, fmt.Errorf("create blit pipeline: %w", err)
	}
	slogger().Debug("pipeline created", "pipeline", "blit", "format", p.config.Format)
	p.blit = pipeline
	return pipeline, nil
}

// Destroy releases all GPU resources in reverse creation order. Safe to
// call multiple times.
func (p *Pipelines) Destroy() {
	if p.device == nil || p.destroyed {
		return
	}
	p.destroyed = true
	if p.blit != nil {
		p.device.DestroyRenderPipeline(p.blit)
		p.blit = nil
	}
	if p.blitLayout != nil {
		p.device.DestroyPipelineLayout(p.blitLayout)
		p.blitLayout = nil
	}
	for i := len(p.pipelines) - 1; i >= 0; i-- {
		if p.pipelines[i] != nil {
			p.device.DestroyRenderPipeline(p.pipelines[i])
			p.pipelines[i] = nil
		}
	}
	for key, shader := range p.shaders {
		p.device.DestroyShaderModule(shader)
		delete(p.shaders, key)
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	for i := len(p.layouts) - 1; i >= 0; i-- {
		if p.layouts[i] != nil {
			p.device.DestroyPipelineLayout(p.layouts[i])
			p.layouts[i] = nil
		}
	}
	if p.textureLayout != nil {
		p.device.DestroyBindGroupLayout(p.textureLayout)
		p.textureLayout = nil
	}
	if p.cameraLayout != nil {
		p.device.DestroyBindGroupLayout(p.cameraLayout)
		p.cameraLayout = nil
	}
}

func (p *Pipelines) createShared() error {
	// Group 0: camera uniform, read by the vertex stage.
	cameraLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_camera_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create camera layout: %w", err)
	}
	p.cameraLayout = cameraLayout

	// Groups 1 and 2:
	//   Binding 0: texture (texture_2d, fragment)
	//   Binding 1: sampler (fragment)
	textureLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture layout: %w", err)
	}
	p.textureLayout = textureLayout

	groups := [layoutCount][]hal.BindGroupLayout{
		layoutCamera:        {p.cameraLayout},
		layoutCameraTexture: {p.cameraLayout, p.textureLayout},
		layoutCameraMask:    {p.cameraLayout, p.textureLayout, p.textureLayout},
	}
	for kind, bgls := range groups {
		layout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label:            fmt.Sprintf("sprite_pipe_layout_%d", kind),
			BindGroupLayouts: bgls,
		})
		if err != nil {
			return fmt.Errorf("create pipeline layout %d: %w", kind, err)
		}
		p.layouts[kind] = layout
	}

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sprite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    p.config.Filter,
		MinFilter:    p.config.Filter,
		MipmapFilter: p.config.Filter,
	})
	if err != nil {
		return fmt.Errorf("create sprite sampler: %w", err)
	}
	p.sampler = sampler
	return nil
}

func (p *Pipelines) shaderModule(label string, source *string) (hal.ShaderModule, error) {
	if shader, ok := p.shaders[source]; ok {
		return shader, nil
	}
	if *source == "" {
		return nil, fmt.Errorf("%s shader source is empty", label)
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{WGSL: *source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", label, err)
	}
	p.shaders[source] = shader
	return shader, nil
}

func (p *Pipelines) createPipeline(spec pipelineSpec) (hal.RenderPipeline, error) {
	shader, err := p.shaderModule(spec.label, spec.shader)
	if err != nil {
		return nil, err
	}

	blend := spec.blend
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  spec.label + "_pipeline",
		Layout: p.layouts[spec.layout],
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    instanceLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: spec.fragment,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.config.Format,
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
			Count: p.config.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", spec.label, err)
	}
	slogger().Debug("pipeline created", "pipeline", spec.label, "format", p.config.Format)
	return pipeline, nil
}
