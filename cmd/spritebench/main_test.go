package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/gogpu/sprite"
)

func TestParseDefaultScene(t *testing.T) {
	s, err := ParseScene(defaultScene)
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if s.Seed != 7 || s.Frames != 60 || !s.VirtualTarget {
		t.Errorf("seed/frames/virtual = %d/%d/%v", s.Seed, s.Frames, s.VirtualTarget)
	}
	if len(s.Textures) != 4 || len(s.Materials) != 5 || len(s.Groups) != 5 {
		t.Errorf("scene = %d textures, %d materials, %d groups",
			len(s.Textures), len(s.Materials), len(s.Groups))
	}
	if got := s.Textures[2].Color; got != 0xffe08080 {
		t.Errorf("glow color = %#x", got)
	}
	if got := s.Groups[2].Z; got != [2]float32{2, 4} {
		t.Errorf("hero z = %v", got)
	}
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "frames = 1\nspeed = 3\n"},
		{"unknown shape", "[[group]]\nmaterial = \"a\"\nshape = \"circle\"\ncount = 1\n"},
		{"negative count", "[[group]]\nmaterial = \"a\"\ncount = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScene(tt.data); !errors.Is(err, errScene) {
				t.Errorf("ParseScene err = %v, want errScene", err)
			}
		})
	}
	if _, err := ParseScene("frames = ["); err == nil {
		t.Error("ParseScene accepted malformed TOML")
	}
}

func TestRunDefaultScene(t *testing.T) {
	// Each 96x48 panel has a 12x12 texel center tiled 7x3 times.
	const items, instances = 489, 485 + 4*(sprite.NineSliceBorders+7*3)

	for _, virtual := range []bool{true, false} {
		t.Run(fmt.Sprintf("virtual=%v", virtual), func(t *testing.T) {
			s, err := ParseScene(defaultScene)
			if err != nil {
				t.Fatalf("ParseScene: %v", err)
			}
			s.Frames = 3
			s.VirtualTarget = virtual

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			total, err := run(s, 640, 480, s.Options(), logger)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if total.Items != 3*items {
				t.Errorf("Items = %d, want %d", total.Items, 3*items)
			}
			if total.Instances != 3*instances {
				t.Errorf("Instances = %d, want %d", total.Instances, 3*instances)
			}
			if total.DrawCalls < 3*5 || total.DrawCalls > total.Items {
				t.Errorf("DrawCalls = %d, want between %d and %d", total.DrawCalls, 3*5, total.Items)
			}
		})
	}
}

func TestRunUnknownMaterial(t *testing.T) {
	s, err := ParseScene("frames = 1\n[[group]]\nmaterial = \"missing\"\ncount = 1\n")
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := run(s, 64, 64, nil, logger); !errors.Is(err, errScene) {
		t.Errorf("run err = %v, want errScene", err)
	}
}
