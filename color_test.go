package sprite

import (
	"image/color"
	"testing"
)

func TestColorFromHex(t *testing.T) {
	c := ColorFromHex(0xFF8000FF)
	if c.R != 1 || c.G != float32(0x80)/255 || c.B != 0 || c.A != 1 {
		t.Errorf("ColorFromHex = %+v", c)
	}
	if got := c.Hex(); got != 0xFF8000FF {
		t.Errorf("Hex() = %#x, want 0xff8000ff", got)
	}
}

func TestColorFromFloatClamps(t *testing.T) {
	got := ColorFromFloat(-1, 0.5, 2, 1)
	if got != (Color{0, 0.5, 1, 1}) {
		t.Errorf("ColorFromFloat = %+v", got)
	}
}

func TestColorPremultiplied(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0, A: 0.5}
	if got := c.Premultiplied(); got != [4]float32{0.5, 0.25, 0, 0.5} {
		t.Errorf("Premultiplied = %v", got)
	}
	if got := c.Float(); got != [4]float32{1, 0.5, 0, 0.5} {
		t.Errorf("Float = %v", got)
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	if got != (Color{1, 0, 0, 1}) {
		t.Errorf("FromColor = %+v", got)
	}
}

func TestColorOrWhite(t *testing.T) {
	if got := (Color{}).orWhite(); got != White {
		t.Errorf("zero color = %+v, want White", got)
	}
	if got := Black.orWhite(); got != Black {
		t.Errorf("Black = %+v", got)
	}
}
