package sprite

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestVirtualTargetRenderAndPresent(t *testing.T) {
	r := newTestRenderer(t,
		WithVirtualSize(320, 180),
		WithViewportStrategy(FitIntegerScaling),
		WithScreenClearColor(Color{R: 0.5, G: 0.25, B: 0.125, A: 1}),
	)
	r.Resize(1000, 600)
	m := mustMaterial(t, r, "hero", KindSprite, mustTexture(t, r, "hero", 4, 4))

	if err := r.Present(&recorder{}); !errors.Is(err, ErrNoVirtualTarget) {
		t.Fatalf("Present before VirtualView err = %v, want ErrNoVirtualTarget", err)
	}

	view, err := r.VirtualView()
	if err != nil {
		t.Fatalf("VirtualView: %v", err)
	}
	if view == nil {
		t.Fatal("VirtualView returned nil view")
	}

	r.DrawSprite(Vec3{}, m, SpriteShape{})
	virtual := &recorder{}
	if err := r.RenderVirtual(virtual); err != nil {
		t.Fatalf("RenderVirtual: %v", err)
	}
	if got := virtual.filter("viewport"); !slices.Equal(got, []string{"viewport 0 0 320 180 0 1"}) {
		t.Errorf("virtual viewport = %v", got)
	}
	if got := virtual.filter("draw"); !slices.Equal(got, []string{"draw 6 1 0 0 0"}) {
		t.Errorf("virtual draws = %v", got)
	}
	if r.Queued() != 0 {
		t.Errorf("Queued = %d after RenderVirtual", r.Queued())
	}

	// 320x180 scaled by 3 is 960x540, centered on 1000x600.
	present := &recorder{}
	if err := r.Present(present); err != nil {
		t.Fatalf("Present: %v", err)
	}
	want := []string{
		"viewport 20 30 960 540 0 1",
		"pipeline blit_pipeline",
		"bind 0 sprite_virtual_target_bind",
		"vertices 6 1 0 0",
	}
	if !slices.Equal(present.cmds, want) {
		t.Errorf("present commands:\n got %q\nwant %q", present.cmds, want)
	}

	if got := r.ScreenClearColor(); got.R != 0.5 || got.B != 0.125 || got.A != 1 {
		t.Errorf("ScreenClearColor = %+v", got)
	}
}

func TestVirtualViewFollowsVirtualSize(t *testing.T) {
	r := newTestRenderer(t, WithViewportStrategy(MatchPhysicalSize))
	r.Resize(200, 100)

	first, err := r.VirtualView()
	if err != nil {
		t.Fatalf("VirtualView: %v", err)
	}
	again, err := r.VirtualView()
	if err != nil || again != first {
		t.Errorf("VirtualView at same size = %v, %v; want the same view", again, err)
	}

	r.Resize(300, 150)
	if _, err := r.VirtualView(); err != nil {
		t.Fatalf("VirtualView after Resize: %v", err)
	}
	if w, h := r.virtual.Size(); w != 300 || h != 150 {
		t.Errorf("virtual target = %dx%d, want 300x150", w, h)
	}

	rec := &recorder{}
	if err := r.RenderVirtual(rec); err != nil {
		t.Fatalf("RenderVirtual: %v", err)
	}
	if len(rec.cmds) != 0 {
		t.Errorf("empty frame recorded %q", rec.cmds)
	}
}

func TestRenderVirtualErrors(t *testing.T) {
	r := newTestRenderer(t)
	m := mustMaterial(t, r, "hero", KindSprite, mustTexture(t, r, "hero", 4, 4))

	r.DrawSprite(Vec3{}, m, SpriteShape{})
	if err := r.RenderVirtual(&recorder{}); !errors.Is(err, ErrNoVirtualTarget) {
		t.Errorf("RenderVirtual without target err = %v, want ErrNoVirtualTarget", err)
	}
	if r.Queued() != 0 {
		t.Errorf("Queued = %d after failed RenderVirtual", r.Queued())
	}

	if _, err := r.VirtualView(); err != nil {
		t.Fatalf("VirtualView: %v", err)
	}
	r.Close()
	if _, err := r.VirtualView(); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("VirtualView after Close err = %v, want ErrRendererClosed", err)
	}
	if err := r.Present(&recorder{}); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Present after Close err = %v, want ErrRendererClosed", err)
	}
}

func TestRenderFrameOnNoopEncoder(t *testing.T) {
	r := newTestRenderer(t, WithVirtualSize(64, 32))
	r.Resize(128, 64)
	m := mustMaterial(t, r, "hero", KindSprite, mustTexture(t, r, "hero", 4, 4))

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "surface",
		Size:          hal.Extent3D{Width: 128, Height: 64, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        r.SurfaceFormat(),
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer r.device.DestroyTexture(tex)
	surface, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "surface_view"})
	if err != nil {
		t.Fatalf("CreateTextureView: %v", err)
	}
	defer r.device.DestroyTextureView(surface)
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "test"})
	if err != nil {
		t.Fatalf("CreateCommandEncoder: %v", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding("frame"); err != nil {
		t.Fatalf("BeginEncoding: %v", err)
	}

	r.DrawSprite(Vec3{}, m, SpriteShape{})
	if err := r.RenderFrame(encoder, surface); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if stats := r.LastFrameStats(); stats.DrawCalls != 1 {
		t.Errorf("DrawCalls = %d, want 1", stats.DrawCalls)
	}
}
