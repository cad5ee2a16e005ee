package sprite

import (
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/sprite/asset"
)

// createNoopDevice opens the noop HAL backend.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// labeled is a pipeline or bind group that remembers its descriptor label,
// so recorded command streams can be compared as text.
type labeled struct{ label string }

func (l *labeled) Destroy() {}

// labelingDevice wraps the noop device and hands out labeled pipelines and
// bind groups.
type labelingDevice struct {
	hal.Device
}

func (d labelingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	return &labeled{label: desc.Label}, nil
}

func (d labelingDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	return &labeled{label: desc.Label}, nil
}

func labelOf(v any) string {
	if l, ok := v.(*labeled); ok {
		return l.label
	}
	return fmt.Sprintf("%T", v)
}

// recorder is a CommandStream and PresentStream that logs every call.
type recorder struct {
	cmds []string
}

func (r *recorder) SetPipeline(p hal.RenderPipeline) {
	r.cmds = append(r.cmds, "pipeline "+labelOf(p))
}

func (r *recorder) SetBindGroup(index uint32, g hal.BindGroup, _ []uint32) {
	r.cmds = append(r.cmds, fmt.Sprintf("bind %d %s", index, labelOf(g)))
}

func (r *recorder) SetVertexBuffer(slot uint32, _ hal.Buffer, offset uint64) {
	r.cmds = append(r.cmds, fmt.Sprintf("vertex %d %d", slot, offset))
}

func (r *recorder) SetIndexBuffer(_ hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	r.cmds = append(r.cmds, fmt.Sprintf("index %d %d", format, offset))
}

func (r *recorder) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	r.cmds = append(r.cmds, fmt.Sprintf("viewport %g %g %g %g %g %g", x, y, w, h, minDepth, maxDepth))
}

func (r *recorder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	r.cmds = append(r.cmds, fmt.Sprintf("draw %d %d %d %d %d",
		indexCount, instanceCount, firstIndex, baseVertex, firstInstance))
}

func (r *recorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.cmds = append(r.cmds, fmt.Sprintf("vertices %d %d %d %d",
		vertexCount, instanceCount, firstVertex, firstInstance))
}

// filter returns the recorded commands starting with prefix.
func (r *recorder) filter(prefix string) []string {
	var out []string
	for _, c := range r.cmds {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// newTestRenderer creates a renderer on a labeling noop device.
func newTestRenderer(t *testing.T, opts ...RendererOption) *Renderer {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	r, err := NewRenderer(labelingDevice{device}, queue, opts...)
	if err != nil {
		cleanup()
		t.Fatalf("NewRenderer: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		cleanup()
	})
	return r
}

// mustTexture uploads a blank w x h texture.
func mustTexture(t *testing.T, r *Renderer, name string, w, h int) asset.Handle[Texture] {
	t.Helper()
	tex, err := r.CreateTexture(name, image.NewRGBA(image.Rect(0, 0, w, h)))
	if err != nil {
		t.Fatalf("CreateTexture(%q): %v", name, err)
	}
	return tex
}

// mustMaterial registers a material of kind sampling tex.
func mustMaterial(t *testing.T, r *Renderer, name string, kind MaterialKind, tex asset.Handle[Texture]) asset.Handle[Material] {
	t.Helper()
	m, err := r.CreateMaterial(name, Material{Kind: kind, Primary: tex})
	if err != nil {
		t.Fatalf("CreateMaterial(%q): %v", name, err)
	}
	return m
}
