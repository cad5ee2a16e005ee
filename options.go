package sprite

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sprite/internal/gpu"
)

// Instance limits.
const (
	// DefaultMaxInstances is the default number of instances one frame
	// may expand to.
	DefaultMaxInstances = 32768

	// MaxInstancesPerBatch caps the instance count of a single draw call.
	// Longer runs are split into consecutive draws with the same state.
	MaxInstancesPerBatch = 4096
)

// Default virtual screen size.
const (
	DefaultVirtualWidth  = 320
	DefaultVirtualHeight = 240
)

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	r, err := sprite.NewRenderer(device, queue,
//	    sprite.WithVirtualSize(640, 360),
//	    sprite.WithViewportStrategy(sprite.FitFloatScaling),
//	)
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	maxInstances    int
	format          gputypes.TextureFormat
	sampleCount     uint32
	filter          gputypes.FilterMode
	virtual         Size
	strategy        ViewportStrategy
	validateShaders bool
	clearColor      Color
	screenClear     Color
	initialCapacity int
	textureMemoryMB int
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		maxInstances:    DefaultMaxInstances,
		format:          gpu.DefaultFormat,
		sampleCount:     gpu.DefaultSampleCount,
		filter:          gpu.DefaultFilter,
		virtual:         Size{DefaultVirtualWidth, DefaultVirtualHeight},
		strategy:        FitIntegerScaling,
		clearColor:      Black,
		screenClear:     Black,
		initialCapacity: 1024,
		textureMemoryMB: gpu.DefaultMaxMemoryMB,
	}
}

// WithMaxInstances sets how many instances one frame may expand to.
// Values <= 0 are ignored.
func WithMaxInstances(n int) RendererOption {
	return func(o *rendererOptions) {
		if n > 0 {
			o.maxInstances = n
		}
	}
}

// WithSurfaceFormat sets the color target format of every pipeline. It
// must match the render pass attachment.
func WithSurfaceFormat(format gputypes.TextureFormat) RendererOption {
	return func(o *rendererOptions) {
		o.format = format
	}
}

// WithSampleCount sets the MSAA sample count of every pipeline.
func WithSampleCount(n uint32) RendererOption {
	return func(o *rendererOptions) {
		if n > 0 {
			o.sampleCount = n
		}
	}
}

// WithFilter sets the texture filter. Nearest keeps pixel art crisp.
func WithFilter(filter gputypes.FilterMode) RendererOption {
	return func(o *rendererOptions) {
		o.filter = filter
	}
}

// WithVirtualSize sets the size of the virtual screen in world units.
func WithVirtualSize(width, height int) RendererOption {
	return func(o *rendererOptions) {
		if width > 0 && height > 0 {
			o.virtual = Size{width, height}
		}
	}
}

// WithViewportStrategy sets how the virtual screen maps onto the surface.
func WithViewportStrategy(s ViewportStrategy) RendererOption {
	return func(o *rendererOptions) {
		o.strategy = s
	}
}

// WithShaderValidation compiles the embedded shaders with naga when the
// renderer is created, turning shader errors into a NewRenderer error.
func WithShaderValidation(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.validateShaders = enabled
	}
}

// WithClearColor sets the color reported by [Renderer.ClearColor] for the
// caller's render pass load operation.
func WithClearColor(c Color) RendererOption {
	return func(o *rendererOptions) {
		o.clearColor = c
	}
}

// WithScreenClearColor sets the color of the surface area outside the
// viewport when the virtual render target is presented.
func WithScreenClearColor(c Color) RendererOption {
	return func(o *rendererOptions) {
		o.screenClear = c
	}
}

// WithItemCapacity preallocates room for n queued items.
func WithItemCapacity(n int) RendererOption {
	return func(o *rendererOptions) {
		if n > 0 {
			o.initialCapacity = n
		}
	}
}

// WithTextureMemoryMB sets the texture memory budget in megabytes.
// CreateTexture fails with [ErrMemoryBudgetExceeded] once it is used up.
func WithTextureMemoryMB(mb int) RendererOption {
	return func(o *rendererOptions) {
		if mb > 0 {
			o.textureMemoryMB = mb
		}
	}
}
