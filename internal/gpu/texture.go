package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture errors.
var (
	// ErrInvalidTextureSize is returned for zero-sized textures.
	ErrInvalidTextureSize = errors.New("wgpu: invalid texture size")

	// ErrTextureDataSize is returned when the pixel data length does not
	// match width*height*4.
	ErrTextureDataSize = errors.New("wgpu: texture data size mismatch")
)

// Texture is an RGBA8 sampled texture together with the bind group that
// exposes it to the sprite shaders.
type Texture struct {
	width, height uint32

	texture   hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (width, height uint32) { return t.width, t.height }

// BindGroup returns the texture + sampler bind group. It is valid at
// group 1 of every textured pipeline and at group 2 of the alpha mask
// pipeline.
func (t *Texture) BindGroup() hal.BindGroup { return t.bindGroup }

// CreateTexture uploads premultiplied RGBA8 pixels and builds the bind group.
func (p *Pipelines) CreateTexture(queue hal.Queue, label string, width, height uint32, pixels []byte) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, width, height)
	}
	if want := int(width) * int(height) * 4; len(pixels) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrTextureDataSize, len(pixels), want)
	}

	t := &Texture{width: width, height: height}
	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %s: %w", label, err)
	}
	t.texture = tex

	err = queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		pixels,
		&hal.ImageDataLayout{BytesPerRow: width * 4, RowsPerImage: height},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		t.Destroy(p.device)
		return nil, fmt.Errorf("upload texture %s: %w", label, err)
	}

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: label + "_view",
	})
	if err != nil {
		t.Destroy(p.device)
		return nil, fmt.Errorf("create texture view %s: %w", label, err)
	}
	t.view = view

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: p.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: p.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		t.Destroy(p.device)
		return nil, fmt.Errorf("create texture bind group %s: %w", label, err)
	}
	t.bindGroup = bindGroup
	return t, nil
}

// Destroy releases the bind group, view and texture. Safe to call more
// than once.
func (t *Texture) Destroy(device hal.Device) {
	if t.bindGroup != nil {
		device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
