package sprite

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sprite/batch"
	"github.com/gogpu/sprite/internal/gpu"
)

// CommandStream is the part of a render pass the renderer records into.
// hal.RenderPassEncoder satisfies it.
type CommandStream interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64)
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

var _ CommandStream = hal.RenderPassEncoder(nil)

// drawCall is one resolved batch: everything needed to record it without
// further lookups.
type drawCall struct {
	pipeline batch.PipelineID
	handle   hal.RenderPipeline
	groups   []hal.BindGroup // bound at 1, 2, ...
	start    uint32          // first instance
	count    uint32
}

// emitter records draw calls, binding a pipeline only when it differs
// from the one bound by the previous call.
type emitter struct {
	pass   CommandStream
	camera hal.BindGroup

	current batch.PipelineID
	bound   bool

	draws    int
	switches int
}

// begin binds the per-frame buffers and the viewport. A zero viewport
// leaves the pass default in place.
func (e *emitter) begin(instances, indices hal.Buffer, vp Viewport) {
	if vp.W > 0 && vp.H > 0 {
		e.pass.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.W), float32(vp.H), 0, 1)
	}
	e.pass.SetVertexBuffer(0, instances, 0)
	e.pass.SetIndexBuffer(indices, gputypes.IndexFormatUint16, 0)
}

func (e *emitter) draw(c drawCall) {
	if !e.bound || c.pipeline != e.current {
		e.pass.SetPipeline(c.handle)
		// Group 0 is rebound with every pipeline change so that a layout
		// switch never leaves the camera unbound.
		e.pass.SetBindGroup(0, e.camera, nil)
		e.current = c.pipeline
		e.bound = true
		e.switches++
	}
	for i, g := range c.groups {
		e.pass.SetBindGroup(uint32(i+1), g, nil) //nolint:gosec // at most two material groups
	}
	e.pass.DrawIndexed(gpu.QuadIndexCount, c.count, 0, 0, c.start)
	e.draws++
}
