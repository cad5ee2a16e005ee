package sprite

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// fakeProvider is a host device provider exposing the noop HAL device.
type fakeProvider struct {
	device any
	queue  any
	format gputypes.TextureFormat
}

func (p *fakeProvider) Device() gpucontext.Device { return p.device }
func (p *fakeProvider) Queue() gpucontext.Queue { return p.queue }
func (p *fakeProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *fakeProvider) Adapter() gpucontext.Adapter { return nil }
func (p *fakeProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{Name: "noop"} }
func (p *fakeProvider) HalDevice() any { return p.device }
func (p *fakeProvider) HalQueue() any { return p.queue }

var _ gpucontext.DeviceProvider = (*fakeProvider)(nil)

func TestNewRendererFromProvider(t *testing.T) {
	tests := []struct {
		name   string
		format gputypes.TextureFormat
		opts   []RendererOption
		want   gputypes.TextureFormat
	}{
		{"headless default", gputypes.TextureFormatUndefined, nil, gputypes.TextureFormatBGRA8Unorm},
		{"surface format", gputypes.TextureFormatRGBA8Unorm, nil, gputypes.TextureFormatRGBA8Unorm},
		{
			"option overrides surface",
			gputypes.TextureFormatRGBA8Unorm,
			[]RendererOption{WithSurfaceFormat(gputypes.TextureFormatBGRA8UnormSrgb)},
			gputypes.TextureFormatBGRA8UnormSrgb,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, queue, cleanup := createNoopDevice(t)
			defer cleanup()

			p := &fakeProvider{device: device, queue: queue, format: tt.format}
			r, err := NewRendererFromProvider(p, tt.opts...)
			if err != nil {
				t.Fatalf("NewRendererFromProvider: %v", err)
			}
			defer r.Close()

			if got := r.SurfaceFormat(); got != tt.want {
				t.Errorf("SurfaceFormat = %v, want %v", got, tt.want)
			}
			m := mustMaterial(t, r, "hero", KindSprite, mustTexture(t, r, "hero", 4, 4))
			r.DrawSprite(Vec3{}, m, SpriteShape{})
			if err := r.Render(&recorder{}); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if stats := r.LastFrameStats(); stats.DrawCalls != 1 {
				t.Errorf("DrawCalls = %d, want 1", stats.DrawCalls)
			}
		})
	}
}

func TestNewRendererFromProviderWrongTypes(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name string
		p    *fakeProvider
	}{
		{"device is not hal", &fakeProvider{device: "device", queue: queue}},
		{"queue is not hal", &fakeProvider{device: device, queue: 42}},
		{"nil device", &fakeProvider{queue: queue}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRendererFromProvider(tt.p); !errors.Is(err, ErrNoDeviceProvider) {
				t.Errorf("err = %v, want ErrNoDeviceProvider", err)
			}
		})
	}
}
