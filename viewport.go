package sprite

import "fmt"

// ViewportStrategy decides how the virtual screen maps onto the surface.
type ViewportStrategy uint8

const (
	// FitIntegerScaling scales the virtual screen by the largest integer
	// factor that fits and centers it. Pixel art stays crisp.
	FitIntegerScaling ViewportStrategy = iota

	// FitFloatScaling scales the virtual screen by the largest factor
	// that keeps its aspect ratio and centers it.
	FitFloatScaling

	// MatchPhysicalSize renders at surface resolution; the virtual size
	// follows the surface.
	MatchPhysicalSize
)

// String returns the strategy name.
func (s ViewportStrategy) String() string {
	switch s {
	case FitIntegerScaling:
		return "fit_integer"
	case FitFloatScaling:
		return "fit_float"
	case MatchPhysicalSize:
		return "match_physical"
	default:
		return fmt.Sprintf("ViewportStrategy(%d)", s)
	}
}

// Viewport is a rectangle of the surface, in physical pixels.
type Viewport struct {
	X, Y, W, H int
}

// ComputeViewport returns where the virtual screen is drawn on a surface
// of the given physical size.
func ComputeViewport(virtual, physical Size, strategy ViewportStrategy) Viewport {
	if physical.W <= 0 || physical.H <= 0 {
		return Viewport{}
	}
	if virtual.W <= 0 || virtual.H <= 0 || strategy == MatchPhysicalSize {
		return Viewport{W: physical.W, H: physical.H}
	}
	if strategy == FitFloatScaling {
		return viewportFloat(virtual, physical)
	}
	return viewportInteger(virtual, physical)
}

func viewportInteger(virtual, physical Size) Viewport {
	scale := max(min(physical.W/virtual.W, physical.H/virtual.H), 1)
	w, h := virtual.W*scale, virtual.H*scale
	if physical.W < w || physical.H < h {
		w, h = physical.W, physical.H
	}
	return Viewport{X: (physical.W - w) / 2, Y: (physical.H - h) / 2, W: w, H: h}
}

func viewportFloat(virtual, physical Size) Viewport {
	if physical.W < virtual.W || physical.H < virtual.H {
		return Viewport{W: physical.W, H: physical.H}
	}
	windowAspect := float32(physical.W) / float32(physical.H)
	virtualAspect := float32(virtual.W) / float32(virtual.H)

	var scale float32
	if windowAspect > virtualAspect {
		scale = float32(physical.H) / float32(virtual.H)
	} else {
		scale = float32(physical.W) / float32(virtual.W)
	}
	scale = max(scale, 0.01)

	w, h := int(float32(virtual.W)*scale), int(float32(virtual.H)*scale)
	return Viewport{X: (physical.W - w) / 2, Y: (physical.H - h) / 2, W: w, H: h}
}

// AspectRatio is a reduced width:height ratio.
type AspectRatio struct {
	W, H int
}

// Well-known aspect ratios.
var (
	Ratio16By9  = AspectRatio{16, 9}
	Ratio21By9  = AspectRatio{21, 9}
	Ratio16By10 = AspectRatio{16, 10}
	Ratio4By3   = AspectRatio{4, 3}
)

// AspectRatioOf reduces width:height by their greatest common divisor.
// 16:10 is reported as such rather than 8:5.
func AspectRatioOf(width, height int) AspectRatio {
	if width <= 0 || height <= 0 {
		return AspectRatio{}
	}
	d := gcd(width, height)
	r := AspectRatio{width / d, height / d}
	switch r {
	case AspectRatio{8, 5}:
		return Ratio16By10
	case AspectRatio{7, 3}:
		return Ratio21By9
	}
	return r
}

// Known reports whether r is one of the well-known ratios.
func (r AspectRatio) Known() bool {
	switch r {
	case Ratio16By9, Ratio21By9, Ratio16By10, Ratio4By3:
		return true
	}
	return false
}

// Float returns W/H.
func (r AspectRatio) Float() float32 {
	if r.H == 0 {
		return 0
	}
	return float32(r.W) / float32(r.H)
}

// String formats the ratio as "W:H".
func (r AspectRatio) String() string { return fmt.Sprintf("%d:%d", r.W, r.H) }

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
