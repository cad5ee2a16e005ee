package sprite

import "image/color"

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{}
)

// ColorFromHex creates a color from a 0xRRGGBBAA value.
func ColorFromHex(rgba uint32) Color {
	return Color{
		R: float32(rgba>>24&0xFF) / 255,
		G: float32(rgba>>16&0xFF) / 255,
		B: float32(rgba>>8&0xFF) / 255,
		A: float32(rgba&0xFF) / 255,
	}
}

// ColorFromFloat creates a color from float components, clamped to [0, 1].
func ColorFromFloat(r, g, b, a float32) Color {
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(a)}
}

// FromColor converts a standard color.Color.
func FromColor(c color.Color) Color {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float32(nc.R) / 255,
		G: float32(nc.G) / 255,
		B: float32(nc.B) / 255,
		A: float32(nc.A) / 255,
	}
}

// Float returns the components as an array.
func (c Color) Float() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// Premultiplied returns the components with RGB multiplied by alpha, as
// the sprite pipelines expect them.
func (c Color) Premultiplied() [4]float32 {
	return [4]float32{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// Hex returns the color as 0xRRGGBBAA.
func (c Color) Hex() uint32 {
	return uint32(to8(c.R))<<24 | uint32(to8(c.G))<<16 | uint32(to8(c.B))<<8 | uint32(to8(c.A))
}

// orWhite treats the zero color as untinted.
func (c Color) orWhite() Color {
	if c == (Color{}) {
		return White
	}
	return c
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func to8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5) //nolint:gosec // clamped to [0, 255.5)
}
