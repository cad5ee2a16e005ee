package sprite

import (
	"errors"

	"github.com/gogpu/sprite/internal/gpu"
)

// Errors returned by the renderer.
var (
	// ErrMaterialNotFound is returned by Render when a queued item refers
	// to a material that has been removed. The frame is discarded.
	ErrMaterialNotFound = errors.New("sprite: material not found")

	// ErrTextureNotFound is returned when a material refers to a texture
	// that has been removed.
	ErrTextureNotFound = errors.New("sprite: texture not found")

	// ErrInstanceOverflow is returned by Render when a frame expands to
	// more instances than the renderer was configured for.
	ErrInstanceOverflow = errors.New("sprite: too many instances in frame")

	// ErrInvalidShape is returned for shapes that cannot be expanded,
	// such as a nine-slice smaller than its borders.
	ErrInvalidShape = errors.New("sprite: invalid shape")

	// ErrNilDevice is returned by NewRenderer when device or queue is nil.
	ErrNilDevice = errors.New("sprite: nil device or queue")

	// ErrNoDeviceProvider is returned when a device provider does not
	// expose HAL device and queue.
	ErrNoDeviceProvider = errors.New("sprite: provider does not expose HAL types")

	// ErrRendererClosed is returned by operations on a closed renderer.
	ErrRendererClosed = errors.New("sprite: renderer closed")

	// ErrNoVirtualTarget is returned by RenderVirtual and Present before
	// VirtualView has allocated the virtual render target.
	ErrNoVirtualTarget = errors.New("sprite: no virtual render target")

	// ErrInvalidTextureSize is returned for empty images.
	ErrInvalidTextureSize = errors.New("sprite: invalid texture size")

	// ErrMemoryBudgetExceeded is returned by CreateTexture when the texture
	// memory budget is used up.
	ErrMemoryBudgetExceeded = gpu.ErrMemoryBudgetExceeded

	// ErrFrameOutOfRange is returned by FixedAtlas.Frame for an index past
	// the last cell.
	ErrFrameOutOfRange = errors.New("sprite: atlas frame out of range")
)
