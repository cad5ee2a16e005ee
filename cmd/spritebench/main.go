// Command spritebench renders a TOML scene headlessly on the noop GPU
// backend and reports batching statistics per frame.
package main

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/sprite"
)

//go:embed default.toml
var defaultScene string

func main() {
	var (
		scenePath = flag.String("scene", "", "TOML scene file (default: built-in scene)")
		frames    = flag.Int("frames", 0, "frames to render (overrides the scene)")
		width     = flag.Int("width", 1280, "surface width")
		height    = flag.Int("height", 720, "surface height")
		level     = flag.String("log", "info", "log level: debug, info, warn")
		validate  = flag.Bool("validate", false, "validate shaders with naga before rendering")
		direct    = flag.Bool("direct", false, "render straight to the surface instead of through the virtual target")
	)
	flag.Parse()

	logger, err := newLogger(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	sprite.SetLogger(logger)

	data := defaultScene
	if *scenePath != "" {
		raw, err := os.ReadFile(*scenePath)
		if err != nil {
			logger.Error("read scene", "err", err)
			os.Exit(1)
		}
		data = string(raw)
	}
	scene, err := ParseScene(data)
	if err != nil {
		logger.Error("parse scene", "err", err)
		os.Exit(1)
	}
	if *frames > 0 {
		scene.Frames = *frames
	}
	if *direct {
		scene.VirtualTarget = false
	}

	opts := scene.Options()
	if *validate {
		opts = append(opts, sprite.WithShaderValidation(true))
	}
	total, err := run(scene, *width, *height, opts, logger)
	if err != nil {
		logger.Error("spritebench failed", "err", err)
		os.Exit(1)
	}
	logger.Info("spritebench done",
		"frames", scene.Frames,
		"items", total.Items,
		"instances", total.Instances,
		"draws", total.DrawCalls,
		"pipeline_switches", total.PipelineSwitches)
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("spritebench: log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// headless is a noop device with a color target to render into.
type headless struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	target   hal.Texture
	view     hal.TextureView
}

func openHeadless(width, height int, format gputypes.TextureFormat) (*headless, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("no adapter")
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	h := &headless{instance: instance, device: open.Device, queue: open.Queue}

	h.target, err = h.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "spritebench_target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // flag values
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		h.close()
		return nil, fmt.Errorf("create target: %w", err)
	}
	h.view, err = h.device.CreateTextureView(h.target, &hal.TextureViewDescriptor{Label: "spritebench_target_view"})
	if err != nil {
		h.close()
		return nil, fmt.Errorf("create target view: %w", err)
	}
	return h, nil
}

func (h *headless) close() {
	if h.view != nil {
		h.device.DestroyTextureView(h.view)
	}
	if h.target != nil {
		h.device.DestroyTexture(h.target)
	}
	h.device.Destroy()
	h.instance.Destroy()
}

// run renders every frame of scene and returns the summed statistics.
func run(scene *Scene, width, height int, opts []sprite.RendererOption, logger *slog.Logger) (sprite.Stats, error) {
	var total sprite.Stats

	h, err := openHeadless(width, height, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		return total, err
	}
	defer h.close()

	r, err := sprite.NewRenderer(h.device, h.queue, opts...)
	if err != nil {
		return total, err
	}
	defer r.Close()
	r.Resize(width, height)

	b, err := scene.build(r)
	if err != nil {
		return total, err
	}

	for frame := range scene.Frames {
		start := time.Now()
		b.queue(r)
		if err := renderFrame(h, r, scene.VirtualTarget); err != nil {
			return total, fmt.Errorf("frame %d: %w", frame, err)
		}
		s := r.LastFrameStats()
		logger.Debug("frame",
			"n", frame,
			"items", s.Items,
			"instances", s.Instances,
			"batches", s.Batches,
			"draws", s.DrawCalls,
			"pipeline_switches", s.PipelineSwitches,
			"elapsed", time.Since(start))

		total.Items += s.Items
		total.Instances += s.Instances
		total.Batches += s.Batches
		total.DrawCalls += s.DrawCalls
		total.PipelineSwitches += s.PipelineSwitches
	}
	return total, nil
}

func renderFrame(h *headless, r *sprite.Renderer, virtual bool) error {
	encoder, err := h.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "spritebench"})
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding("spritebench_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	var renderErr error
	if virtual {
		renderErr = r.RenderFrame(encoder, h.view)
	} else {
		pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "sprite_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{
				{
					View:       h.view,
					LoadOp:     gputypes.LoadOpClear,
					StoreOp:    gputypes.StoreOpStore,
					ClearValue: r.ClearColor(),
				},
			},
		})
		renderErr = r.Render(pass)
		pass.End()
	}
	if renderErr != nil {
		encoder.DiscardEncoding()
		return renderErr
	}

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer h.device.FreeCommandBuffer(cmd)
	if _, err := h.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}
