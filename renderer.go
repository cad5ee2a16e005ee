package sprite

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sprite/asset"
	"github.com/gogpu/sprite/batch"
	"github.com/gogpu/sprite/internal/gpu"
)

// Renderer collects draw items for a frame and records them into a render
// pass as batched, instanced draw calls.
//
// A Renderer owns its textures, materials, pipelines and buffers. It is
// not safe for concurrent use: queue items and call Render from the
// goroutine that owns the frame.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	opts   rendererOptions

	pipelines *gpu.Pipelines
	frame     *gpu.Frame
	budget    *gpu.MemoryBudget

	textures  asset.Registry[Texture]
	materials asset.Registry[Material]
	items     *batch.Queue[Item]

	physical Size
	camera   Vec2
	virtual  *gpu.VirtualTarget

	// Per-frame scratch, reused across frames.
	entries   []batch.Entry
	instances []gpu.Instance
	offsets   []int
	calls     []drawCall

	stats  Stats
	closed bool
}

// NewRenderer creates a renderer drawing with device and queue.
func NewRenderer(device hal.Device, queue hal.Queue, opts ...RendererOption) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.validateShaders {
		if err := gpu.ValidateShaders(); err != nil {
			return nil, fmt.Errorf("sprite: %w", err)
		}
	}

	pipelines, err := gpu.NewPipelines(device, gpu.Config{
		Format:      o.format,
		SampleCount: o.sampleCount,
		Filter:      o.filter,
	})
	if err != nil {
		return nil, fmt.Errorf("sprite: create pipelines: %w", err)
	}
	frame, err := gpu.NewFrame(device, queue, pipelines)
	if err != nil {
		pipelines.Destroy()
		return nil, fmt.Errorf("sprite: create frame buffers: %w", err)
	}

	r := &Renderer{
		device:    device,
		queue:     queue,
		opts:      o,
		pipelines: pipelines,
		frame:     frame,
		budget:    gpu.NewMemoryBudget(o.textureMemoryMB),
		items:     batch.NewQueue[Item](o.initialCapacity),
	}
	slogger().Info("sprite renderer created",
		"format", o.format,
		"virtual", fmt.Sprintf("%dx%d", o.virtual.W, o.virtual.H),
		"viewport", o.strategy,
		"max_instances", o.maxInstances)
	return r, nil
}

// NewRendererFromProvider creates a renderer on a device shared by a host
// application. The provider must expose HalDevice() and HalQueue()
// returning hal.Device and hal.Queue. The provider's surface format is
// used unless an option overrides it.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, opts ...RendererOption) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoDeviceProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoDeviceProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoDeviceProvider)
	}
	if format := provider.SurfaceFormat(); format != gputypes.TextureFormatUndefined {
		opts = append([]RendererOption{WithSurfaceFormat(format)}, opts...)
	}
	return NewRenderer(device, queue, opts...)
}

// Add queues an item for the next Render. Items are not deduplicated.
func (r *Renderer) Add(item Item) {
	r.items.Add(item)
}

// DrawSprite queues a sprite.
func (r *Renderer) DrawSprite(pos Vec3, material asset.Handle[Material], s SpriteShape) {
	r.items.Add(Item{Position: pos, Material: material, Shape: s})
}

// DrawQuad queues a solid quad.
func (r *Renderer) DrawQuad(pos Vec3, material asset.Handle[Material], q QuadShape) {
	r.items.Add(Item{Position: pos, Material: material, Shape: q})
}

// DrawNineSlice queues a nine-slice.
func (r *Renderer) DrawNineSlice(pos Vec3, material asset.Handle[Material], n NineSliceShape) {
	r.items.Add(Item{Position: pos, Material: material, Shape: n})
}

// DrawText queues a line or block of text.
func (r *Renderer) DrawText(pos Vec3, material asset.Handle[Material], t TextShape) {
	r.items.Add(Item{Position: pos, Material: material, Shape: t})
}

// DrawTileMap queues a tile map.
func (r *Renderer) DrawTileMap(pos Vec3, material asset.Handle[Material], m TileMapShape) {
	r.items.Add(Item{Position: pos, Material: material, Shape: m})
}

// Queued returns the number of items queued for the next Render.
func (r *Renderer) Queued() int { return r.items.Len() }

// Resize records the physical surface size in pixels.
func (r *Renderer) Resize(width, height int) {
	r.physical = Size{max(width, 0), max(height, 0)}
}

// SetCamera moves the camera. pos is the world point shown at the
// lower-left corner of the virtual screen.
func (r *Renderer) SetCamera(pos Vec2) { r.camera = pos }

// Camera returns the camera position.
func (r *Renderer) Camera() Vec2 { return r.camera }

// VirtualSize returns the size of the visible world area. It follows the
// physical size under MatchPhysicalSize.
func (r *Renderer) VirtualSize() Size {
	if r.opts.strategy == MatchPhysicalSize && r.physical.W > 0 && r.physical.H > 0 {
		return r.physical
	}
	return r.opts.virtual
}

// Viewport returns the surface rectangle the virtual screen is drawn to.
// It is zero until Resize is called.
func (r *Renderer) Viewport() Viewport {
	return ComputeViewport(r.opts.virtual, r.physical, r.opts.strategy)
}

// ClearColor returns the configured clear color for the caller's pass.
// With a virtual render target it clears the virtual pass.
func (r *Renderer) ClearColor() gputypes.Color {
	return passColor(r.opts.clearColor)
}

// ScreenClearColor returns the clear color of the present pass.
func (r *Renderer) ScreenClearColor() gputypes.Color {
	return passColor(r.opts.screenClear)
}

func passColor(c Color) gputypes.Color {
	return gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// SurfaceFormat returns the color format the pipelines target.
func (r *Renderer) SurfaceFormat() gputypes.TextureFormat {
	return r.pipelines.Config().Format
}

// MemoryStats describes texture memory use against the budget.
type MemoryStats = gpu.MemoryStats

// MemoryStats returns the texture memory accounting.
func (r *Renderer) MemoryStats() MemoryStats { return r.budget.Stats() }

// LastFrameStats returns the statistics of the most recent Render.
func (r *Renderer) LastFrameStats() Stats { return r.stats }

// Close releases all GPU resources. Textures and materials become stale.
// Close is idempotent.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.items.Clear()

	var textures []asset.Handle[Texture]
	r.textures.Range(func(h asset.Handle[Texture], _ Texture) bool {
		textures = append(textures, h)
		return true
	})
	for _, h := range textures {
		r.RemoveTexture(h)
	}
	if r.virtual != nil {
		r.virtual.Destroy(r.device)
		r.virtual = nil
	}
	r.frame.Destroy()
	r.pipelines.Destroy()
	slogger().Info("sprite renderer closed")
}
