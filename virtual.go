package sprite

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PresentStream is the part of a render pass Present records into.
// hal.RenderPassEncoder satisfies it.
type PresentStream interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

var _ PresentStream = hal.RenderPassEncoder(nil)

// blitVertexCount is the number of generated vertices of the blit quad.
const blitVertexCount = 6

// VirtualView returns the color attachment of the virtual render target,
// allocating it at VirtualSize on first use and reallocating it when
// VirtualSize changes. Begin the pass passed to RenderVirtual on this
// view, cleared with ClearColor.
func (r *Renderer) VirtualView() (hal.TextureView, error) {
	if r.closed {
		return nil, ErrRendererClosed
	}
	size := r.VirtualSize()
	w, h := uint32(size.W), uint32(size.H) //nolint:gosec // sizes are non-negative
	if r.virtual != nil {
		if vw, vh := r.virtual.Size(); vw == w && vh == h {
			return r.virtual.View(), nil
		}
		r.virtual.Destroy(r.device)
		r.virtual = nil
	}
	target, err := r.pipelines.CreateVirtualTarget(w, h)
	if err != nil {
		return nil, fmt.Errorf("sprite: %w", err)
	}
	r.virtual = target
	return target.View(), nil
}

// RenderVirtual records every queued item into a pass targeting
// VirtualView and clears the queue. It behaves like Render except that the
// viewport covers the whole virtual target instead of the surface
// viewport.
func (r *Renderer) RenderVirtual(pass CommandStream) error {
	if r.closed {
		r.items.Clear()
		return ErrRendererClosed
	}
	if r.virtual == nil {
		r.items.Clear()
		return ErrNoVirtualTarget
	}
	w, h := r.virtual.Size()
	return r.render(pass, Viewport{W: int(w), H: int(h)})
}

// Present records the copy of the virtual render target onto the surface:
// the viewport from the ViewportStrategy, the blit pipeline, the virtual
// texture at group 0 and one six-vertex draw. Begin pass on the surface,
// cleared with ScreenClearColor.
func (r *Renderer) Present(pass PresentStream) error {
	if r.closed {
		return ErrRendererClosed
	}
	if r.virtual == nil {
		return ErrNoVirtualTarget
	}
	blit, err := r.pipelines.Blit()
	if err != nil {
		return fmt.Errorf("sprite: %w", err)
	}
	if vp := r.Viewport(); vp.W > 0 && vp.H > 0 {
		pass.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.W), float32(vp.H), 0, 1)
	}
	pass.SetPipeline(blit)
	pass.SetBindGroup(0, r.virtual.BindGroup(), nil)
	pass.Draw(blitVertexCount, 1, 0, 0)
	return nil
}

// RenderFrame records a whole frame into encoder: the queued items into
// the virtual render target, then the target onto surface. The encoder
// must be between BeginEncoding and EndEncoding.
func (r *Renderer) RenderFrame(encoder hal.CommandEncoder, surface hal.TextureView) error {
	view, err := r.VirtualView()
	if err != nil {
		r.items.Clear()
		return err
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "sprite_virtual_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{clearAttachment(view, r.ClearColor())},
	})
	err = r.RenderVirtual(pass)
	pass.End()
	if err != nil {
		return err
	}

	pass = encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "sprite_present_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{clearAttachment(surface, r.ScreenClearColor())},
	})
	err = r.Present(pass)
	pass.End()
	return err
}

func clearAttachment(view hal.TextureView, c gputypes.Color) hal.RenderPassColorAttachment {
	return hal.RenderPassColorAttachment{
		View:       view,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: c,
	}
}
