package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/sprite/batch"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
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

func newTestPipelines(t *testing.T, device hal.Device) *Pipelines {
	t.Helper()
	p, err := NewPipelines(device, Config{})
	if err != nil {
		t.Fatalf("NewPipelines failed: %v", err)
	}
	return p
}

func TestNewPipelinesDefaults(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	p := newTestPipelines(t, device)
	defer p.Destroy()

	cfg := p.Config()
	if cfg.Format != DefaultFormat {
		t.Errorf("Format = %v, want %v", cfg.Format, DefaultFormat)
	}
	if cfg.SampleCount != DefaultSampleCount {
		t.Errorf("SampleCount = %d, want %d", cfg.SampleCount, DefaultSampleCount)
	}
	if cfg.Filter != DefaultFilter {
		t.Errorf("Filter = %v, want %v", cfg.Filter, DefaultFilter)
	}
	if p.CameraLayout() == nil || p.TextureLayout() == nil || p.Sampler() == nil {
		t.Fatal("shared objects not created")
	}
	for id := batch.PipelineID(0); id < pipelineCount; id++ {
		if p.Created(id) {
			t.Errorf("pipeline %d created eagerly", id)
		}
	}
}

func TestPipelinesLazyCreation(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	p := newTestPipelines(t, device)
	defer p.Destroy()

	for _, id := range []batch.PipelineID{PipelineSprite, PipelineAlphaMask, PipelineQuad, PipelineLight} {
		first, err := p.Pipeline(id)
		if err != nil {
			t.Fatalf("Pipeline(%d): %v", id, err)
		}
		if first == nil {
			t.Fatalf("Pipeline(%d) returned nil", id)
		}
		second, err := p.Pipeline(id)
		if err != nil {
			t.Fatalf("Pipeline(%d) second call: %v", id, err)
		}
		if first != second {
			t.Errorf("Pipeline(%d) not cached", id)
		}
		if !p.Created(id) {
			t.Errorf("Created(%d) = false after Pipeline", id)
		}
	}

	// Sprite and light share one shader module.
	if got := len(p.shaders); got != 3 {
		t.Errorf("shader modules = %d, want 3", got)
	}
}

func TestPipelinesUnknownID(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	p := newTestPipelines(t, device)
	defer p.Destroy()

	if _, err := p.Pipeline(pipelineCount); !errors.Is(err, ErrUnknownPipeline) {
		t.Errorf("got %v, want ErrUnknownPipeline", err)
	}
}

func TestPipelinesDestroy(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	p := newTestPipelines(t, device)
	if _, err := p.Pipeline(PipelineSprite); err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	p.Destroy()
	p.Destroy() // idempotent

	if p.Created(PipelineSprite) {
		t.Error("pipeline survived Destroy")
	}
	if _, err := p.Pipeline(PipelineSprite); !errors.Is(err, ErrPipelinesDestroyed) {
		t.Errorf("got %v, want ErrPipelinesDestroyed", err)
	}
}

func TestValidateShaders(t *testing.T) {
	if err := ValidateShaders(); err != nil {
		t.Fatalf("ValidateShaders: %v", err)
	}
}

func TestVirtualTargetAndBlit(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	p := newTestPipelines(t, device)
	defer p.Destroy()

	if _, err := p.CreateVirtualTarget(0, 180); !errors.Is(err, ErrInvalidTextureSize) {
		t.Errorf("zero width err = %v, want ErrInvalidTextureSize", err)
	}

	v, err := p.CreateVirtualTarget(320, 180)
	if err != nil {
		t.Fatalf("CreateVirtualTarget: %v", err)
	}
	if w, h := v.Size(); w != 320 || h != 180 {
		t.Errorf("Size = %dx%d, want 320x180", w, h)
	}
	if v.View() == nil || v.BindGroup() == nil {
		t.Error("virtual target missing view or bind group")
	}

	blit, err := p.Blit()
	if err != nil {
		t.Fatalf("Blit: %v", err)
	}
	again, err := p.Blit()
	if err != nil || again != blit {
		t.Errorf("second Blit = %v, %v; want cached pipeline", again, err)
	}

	v.Destroy(device)
	v.Destroy(device)
	if v.View() != nil || v.BindGroup() != nil {
		t.Error("virtual target survived Destroy")
	}

	p.Destroy()
	if _, err := p.Blit(); !errors.Is(err, ErrPipelinesDestroyed) {
		t.Errorf("Blit after Destroy err = %v, want ErrPipelinesDestroyed", err)
	}
	if _, err := p.CreateVirtualTarget(1, 1); !errors.Is(err, ErrPipelinesDestroyed) {
		t.Errorf("CreateVirtualTarget after Destroy err = %v, want ErrPipelinesDestroyed", err)
	}
}
