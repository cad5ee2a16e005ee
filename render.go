package sprite

import (
	"fmt"

	"github.com/gogpu/sprite/asset"
	"github.com/gogpu/sprite/batch"
	"github.com/gogpu/sprite/internal/gpu"
)

// Stats describes one rendered frame.
type Stats struct {
	// Items is the number of queued items.
	Items int
	// Instances is the number of GPU instances the items expanded to.
	Instances int
	// Batches is the number of coalesced runs.
	Batches int
	// DrawCalls is the number of DrawIndexed calls. It exceeds Batches
	// when long runs are split.
	DrawCalls int
	// PipelineSwitches is the number of SetPipeline calls.
	PipelineSwitches int
}

// Render records every queued item into pass and clears the queue.
//
// Items are sorted by (Z, pipeline, material, texture), coalesced into
// runs sharing pipeline, material and texture, and drawn with one
// instanced DrawIndexed per run. All validation happens before the first
// command is recorded: if any item refers to a removed material, Render
// returns an error wrapping [ErrMaterialNotFound] and pass is untouched.
//
// The queue is cleared whether or not Render succeeds.
func (r *Renderer) Render(pass CommandStream) error {
	return r.render(pass, r.Viewport())
}

func (r *Renderer) render(pass CommandStream, vp Viewport) error {
	defer r.items.Clear()
	if r.closed {
		return ErrRendererClosed
	}
	r.stats = Stats{Items: r.items.Len()}

	calls, err := r.prepare()
	if err != nil {
		return err
	}
	if len(calls) == 0 {
		slogger().Debug("sprite frame empty", "items", r.stats.Items)
		return nil
	}

	if err := r.frame.WriteInstances(r.instances); err != nil {
		return fmt.Errorf("sprite: %w", err)
	}
	if err := r.frame.WriteCamera(r.viewProjection()); err != nil {
		return fmt.Errorf("sprite: %w", err)
	}

	e := emitter{pass: pass, camera: r.frame.CameraGroup()}
	e.begin(r.frame.InstanceBuffer(), r.frame.IndexBuffer(), vp)
	for _, c := range calls {
		e.draw(c)
	}
	r.stats.DrawCalls = e.draws
	r.stats.PipelineSwitches = e.switches

	slogger().Debug("sprite frame rendered",
		"items", r.stats.Items,
		"instances", r.stats.Instances,
		"batches", r.stats.Batches,
		"draws", r.stats.DrawCalls,
		"pipeline_switches", r.stats.PipelineSwitches)
	return nil
}

// prepare runs every fallible stage of a frame: key extraction, sorting,
// coalescing, instance expansion and GPU object resolution.
func (r *Renderer) prepare() ([]drawCall, error) {
	if err := r.extract(); err != nil {
		return nil, err
	}
	batch.Sort(r.entries)
	runs := batch.Coalesce(r.entries)
	r.stats.Batches = len(runs)

	if err := r.expand(runs); err != nil {
		return nil, err
	}
	r.stats.Instances = len(r.instances)
	return r.resolve(runs)
}

// extract derives one sort key per queued item. A stale material handle
// is fatal for the frame.
func (r *Renderer) extract() error {
	r.entries = r.entries[:0]
	for i, item := range r.items.Items() {
		m, ok := r.materials.Get(item.Material)
		if !ok {
			return fmt.Errorf("%w: item %d refers to material %v", ErrMaterialNotFound, i, item.Material)
		}
		var texture asset.ID
		if m.Kind.textured() {
			if !r.textures.Contains(m.Primary) {
				return fmt.Errorf("%w: item %d material %v texture %v",
					ErrTextureNotFound, i, item.Material, m.Primary)
			}
			texture = m.Primary.ID()
		}
		r.entries = append(r.entries, batch.Entry{
			Key: batch.Key{
				Z:        item.Position.Z,
				Pipeline: m.Kind.Pipeline(),
				Material: item.Material.ID(),
				Texture:  texture,
			},
			Index: i,
		})
	}
	return nil
}

// expand builds the instances of the sorted items. offsets[k] is the first
// instance of sorted entry k; offsets[len(entries)] is the total.
func (r *Renderer) expand(runs []batch.Descriptor) error {
	r.instances = r.instances[:0]
	r.offsets = r.offsets[:0]

	var err error
	for _, run := range runs {
		var tex Size
		if t, ok := r.textures.Get(asset.HandleFromID[Texture](run.Texture)); ok {
			tex = t.Size()
		}
		for _, e := range r.entries[run.Start:run.End()] {
			r.offsets = append(r.offsets, len(r.instances))
			item := r.items.At(e.Index)
			if item.Shape == nil {
				return fmt.Errorf("%w: item %d has no shape", ErrInvalidShape, e.Index)
			}
			r.instances, err = item.Shape.appendInstances(r.instances, item.Position, tex)
			if err != nil {
				return fmt.Errorf("item %d: %w", e.Index, err)
			}
			if len(r.instances) > r.opts.maxInstances {
				return fmt.Errorf("%w: more than %d", ErrInstanceOverflow, r.opts.maxInstances)
			}
		}
	}
	r.offsets = append(r.offsets, len(r.instances))
	return nil
}

// resolve maps runs from item ranges to instance ranges, splits runs
// longer than MaxInstancesPerBatch and looks up pipelines and bind groups.
// Runs whose items expanded to nothing are dropped.
func (r *Renderer) resolve(runs []batch.Descriptor) ([]drawCall, error) {
	r.calls = r.calls[:0]
	for _, run := range runs {
		first := r.offsets[run.Start]
		count := r.offsets[run.End()] - first
		if count == 0 {
			continue
		}

		handle, err := r.pipelines.Pipeline(run.Pipeline)
		if err != nil {
			return nil, fmt.Errorf("sprite: %w", err)
		}
		m, ok := r.materials.Get(asset.HandleFromID[Material](run.Material))
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrMaterialNotFound, run.Material)
		}
		groups, err := r.materialGroups(m)
		if err != nil {
			return nil, err
		}

		inst := run
		inst.Start, inst.Count = first, count
		for _, part := range batch.Split([]batch.Descriptor{inst}, MaxInstancesPerBatch) {
			r.calls = append(r.calls, drawCall{
				pipeline: part.Pipeline,
				handle:   handle,
				groups:   groups,
				start:    uint32(part.Start), //nolint:gosec // bounded by maxInstances
				count:    uint32(part.Count), //nolint:gosec // bounded by MaxInstancesPerBatch
			})
		}
	}
	return r.calls, nil
}

// viewProjection returns the camera matrix for the current virtual size.
func (r *Renderer) viewProjection() [16]float32 {
	size := r.VirtualSize()
	w, h := float32(size.W), float32(size.H)
	return gpu.Ortho(r.camera.X+w/2, r.camera.Y+h/2, w, h)
}
