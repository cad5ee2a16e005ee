package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// VirtualTarget is an offscreen color target at the virtual resolution.
// Batches are drawn into it and the blit pipeline copies it onto the
// surface. It uses the surface format so the sprite pipelines can render
// into it unchanged.
type VirtualTarget struct {
	width, height uint32

	texture   hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup
}

// Size returns the target dimensions in pixels.
func (v *VirtualTarget) Size() (width, height uint32) { return v.width, v.height }

// View returns the view to use as the color attachment of the virtual pass.
func (v *VirtualTarget) View() hal.TextureView { return v.view }

// BindGroup returns the texture + sampler group read by the blit pipeline.
func (v *VirtualTarget) BindGroup() hal.BindGroup { return v.bindGroup }

// CreateVirtualTarget allocates the offscreen texture, its view and the
// blit bind group.
func (p *Pipelines) CreateVirtualTarget(width, height uint32) (*VirtualTarget, error) {
	if p.destroyed {
		return nil, ErrPipelinesDestroyed
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: virtual target %dx%d", ErrInvalidTextureSize, width, height)
	}

	v := &VirtualTarget{width: width, height: height}
	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "sprite_virtual_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        p.config.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("create virtual target: %w", err)
	}
	v.texture = tex

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "sprite_virtual_target_view",
	})
	if err != nil {
		v.Destroy(p.device)
		return nil, fmt.Errorf("create virtual target view: %w", err)
	}
	v.view = view

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sprite_virtual_target_bind",
		Layout: p.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: p.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		v.Destroy(p.device)
		return nil, fmt.Errorf("create virtual target bind group: %w", err)
	}
	v.bindGroup = bindGroup
	slogger().Debug("virtual target created", "width", width, "height", height)
	return v, nil
}

// Destroy releases the bind group, view and texture. Safe to call more
// than once.
func (v *VirtualTarget) Destroy(device hal.Device) {
	if v.bindGroup != nil {
		device.DestroyBindGroup(v.bindGroup)
		v.bindGroup = nil
	}
	if v.view != nil {
		device.DestroyTextureView(v.view)
		v.view = nil
	}
	if v.texture != nil {
		device.DestroyTexture(v.texture)
		v.texture = nil
	}
}
