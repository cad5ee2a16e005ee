package gpu

import (
	"errors"
	"fmt"
	"sync"
)

// Memory budget errors.
var (
	// ErrMemoryBudgetExceeded is returned when a texture would exceed the
	// budget.
	ErrMemoryBudgetExceeded = errors.New("wgpu: memory budget exceeded")

	// ErrTextureNotTracked is returned when releasing a texture the budget
	// does not know.
	ErrTextureNotTracked = errors.New("wgpu: texture not tracked by budget")
)

// Default memory limits.
const (
	// DefaultMaxMemoryMB is the default texture memory budget (256 MB).
	DefaultMaxMemoryMB = 256

	// MinMemoryMB is the smallest allowed budget.
	MinMemoryMB = 1
)

// MemoryStats contains texture memory usage statistics.
type MemoryStats struct {
	// TotalBytes is the budget in bytes.
	TotalBytes uint64

	// UsedBytes is the memory held by live textures.
	UsedBytes uint64

	// AvailableBytes is the remaining budget.
	AvailableBytes uint64

	// TextureCount is the number of live textures.
	TextureCount int

	// Rejected counts allocations refused for lack of budget.
	Rejected uint64

	// Utilization is UsedBytes / TotalBytes (0.0 to 1.0).
	Utilization float64
}

// String returns a human-readable summary.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d KB, %d textures, %d rejected]",
		s.Utilization*100,
		s.UsedBytes/1024,
		s.TotalBytes/1024,
		s.TextureCount,
		s.Rejected)
}

// MemoryBudget accounts texture memory against a fixed budget.
//
// Textures handed out by the renderer are referenced by weak handles, so
// the budget never evicts: an allocation that does not fit fails instead.
//
// MemoryBudget is safe for concurrent use.
type MemoryBudget struct {
	mu sync.Mutex

	budgetBytes uint64
	usedBytes   uint64
	textures    map[*Texture]uint64
	rejected    uint64
}

// NewMemoryBudget creates a budget of maxMB megabytes. Values below
// MinMemoryMB select DefaultMaxMemoryMB.
func NewMemoryBudget(maxMB int) *MemoryBudget {
	if maxMB < MinMemoryMB {
		maxMB = DefaultMaxMemoryMB
	}
	return &MemoryBudget{
		budgetBytes: uint64(maxMB) * 1024 * 1024, //nolint:gosec // maxMB >= MinMemoryMB
		textures:    make(map[*Texture]uint64),
	}
}

// TextureBytes returns the memory an RGBA8 texture of the given size uses.
func TextureBytes(width, height uint32) uint64 {
	return uint64(width) * uint64(height) * 4
}

// Fits reports an error if a texture of size bytes would exceed the budget.
func (b *MemoryBudget) Fits(size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.usedBytes+size > b.budgetBytes {
		b.rejected++
		return fmt.Errorf("%w: need %d KB, %d of %d KB in use",
			ErrMemoryBudgetExceeded, size/1024, b.usedBytes/1024, b.budgetBytes/1024)
	}
	return nil
}

// Track records tex as live. Call it after Fits and a successful upload.
func (b *MemoryBudget) Track(tex *Texture) {
	size := TextureBytes(tex.Size())

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.textures[tex]; ok {
		return
	}
	b.textures[tex] = size
	b.usedBytes += size
}

// Release returns the memory of tex to the budget.
func (b *MemoryBudget) Release(tex *Texture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	size, ok := b.textures[tex]
	if !ok {
		return ErrTextureNotTracked
	}
	delete(b.textures, tex)
	b.usedBytes -= size
	return nil
}

// Stats returns current usage.
func (b *MemoryBudget) Stats() MemoryStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := MemoryStats{
		TotalBytes:   b.budgetBytes,
		UsedBytes:    b.usedBytes,
		TextureCount: len(b.textures),
		Rejected:     b.rejected,
	}
	if b.budgetBytes > b.usedBytes {
		s.AvailableBytes = b.budgetBytes - b.usedBytes
	}
	if b.budgetBytes > 0 {
		s.Utilization = float64(b.usedBytes) / float64(b.budgetBytes)
	}
	return s
}
