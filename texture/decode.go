package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"

	_ "golang.org/x/image/bmp"  // register BMP
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// Decoding errors.
var (
	// ErrEmptyImage is returned for images with a zero dimension.
	ErrEmptyImage = errors.New("texture: empty image")

	// ErrUnsupportedFormat is returned for unknown block formats.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")

	// ErrCorruptData is returned when payload sizes do not add up.
	ErrCorruptData = errors.New("texture: corrupt data")
)

// Filter selects the resampling kernel used by Resize.
type Filter int

const (
	// FilterNearest keeps hard pixel edges; the right choice for pixel art.
	FilterNearest Filter = iota
	// FilterBilinear is a fast approximate bilinear filter.
	FilterBilinear
	// FilterCatmullRom is a high quality cubic filter.
	FilterCatmullRom
)

func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterBilinear:
		return "bilinear"
	case FilterCatmullRom:
		return "catmull-rom"
	default:
		return fmt.Sprintf("Filter(%d)", int(f))
	}
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case FilterBilinear:
		return draw.ApproxBiLinear
	case FilterCatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// Decode reads an image in any registered format and converts it to RGBA.
// It returns the format name reported by the image package.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("texture: decode: %w", err)
	}
	rgba, err := ToRGBA(img)
	if err != nil {
		return nil, format, err
	}
	return rgba, format, nil
}

// ToRGBA converts img to an *image.RGBA anchored at the origin. An RGBA
// image already at the origin is returned as is.
func ToRGBA(img image.Image) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, b.Dx(), b.Dy())
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}

// Resize scales src to width x height with the given filter.
func Resize(src image.Image, width, height int, filter Filter) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	filter.interpolator().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}
