package texture

import (
	"fmt"
	"image"

	"github.com/mauserzjeh/dxt"
	"github.com/pierrec/lz4/v4"
)

// Format is the pixel layout of a raw block payload.
type Format uint8

const (
	// FormatRGBA8 is 4 bytes per pixel, straight alpha.
	FormatRGBA8 Format = iota
	// FormatR8 is a single coverage byte per pixel, used for masks.
	FormatR8
	// FormatDXT1 is BC1 block compression, 8 bytes per 4x4 block.
	FormatDXT1
	// FormatDXT5 is BC3 block compression, 16 bytes per 4x4 block.
	FormatDXT5
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatR8:
		return "r8"
	case FormatDXT1:
		return "dxt1"
	case FormatDXT5:
		return "dxt5"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Compression is the outer compression of a block payload.
type Compression uint8

const (
	// CompressionNone means Data holds the pixel payload directly.
	CompressionNone Compression = iota
	// CompressionLZ4 means Data is a raw LZ4 block of RawSize bytes.
	CompressionLZ4
)

// Block is a raw texture payload with its metadata.
type Block struct {
	Format      Format
	Compression Compression
	Width       int
	Height      int
	// RawSize is the decompressed payload size. Required for LZ4.
	RawSize int
	Data    []byte
}

// PayloadSize returns the uncompressed payload size of format at the given
// dimensions.
func PayloadSize(format Format, width, height int) (int, error) {
	blocks := ((width + 3) / 4) * ((height + 3) / 4)
	switch format {
	case FormatRGBA8:
		return width * height * 4, nil
	case FormatR8:
		return width * height, nil
	case FormatDXT1:
		return blocks * 8, nil
	case FormatDXT5:
		return blocks * 16, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// DecodeBlock decompresses and decodes b into a premultiplied RGBA image.
func DecodeBlock(b Block) (*image.RGBA, error) {
	if b.Width <= 0 || b.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, b.Width, b.Height)
	}
	want, err := PayloadSize(b.Format, b.Width, b.Height)
	if err != nil {
		return nil, err
	}

	payload := b.Data
	switch b.Compression {
	case CompressionNone:
	case CompressionLZ4:
		if b.RawSize <= 0 {
			return nil, fmt.Errorf("%w: lz4 block without raw size", ErrCorruptData)
		}
		raw := make([]byte, b.RawSize)
		n, err := lz4.UncompressBlock(b.Data, raw)
		if err != nil {
			return nil, fmt.Errorf("texture: lz4: %w", err)
		}
		payload = raw[:n]
	default:
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupportedFormat, b.Compression)
	}

	if len(payload) < want {
		return nil, fmt.Errorf("%w: %s %dx%d needs %d bytes, got %d",
			ErrCorruptData, b.Format, b.Width, b.Height, want, len(payload))
	}

	var pix []byte
	w, h := uint(b.Width), uint(b.Height) //nolint:gosec // checked positive above
	switch b.Format {
	case FormatRGBA8:
		pix = make([]byte, want)
		copy(pix, payload)
	case FormatR8:
		pix = expandR8(payload[:want])
	case FormatDXT1:
		pix, err = dxt.DecodeDXT1(payload[:want], w, h)
	case FormatDXT5:
		pix, err = dxt.DecodeDXT5(payload[:want], w, h)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", b.Format, err)
	}
	if len(pix) != b.Width*b.Height*4 {
		return nil, fmt.Errorf("%w: %s decoded to %d bytes", ErrCorruptData, b.Format, len(pix))
	}

	img := &image.RGBA{
		Pix:    pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
	if b.Format != FormatR8 {
		premultiply(img.Pix)
	}
	return img, nil
}

// expandR8 turns coverage bytes into premultiplied white.
func expandR8(src []byte) []byte {
	pix := make([]byte, len(src)*4)
	for i, v := range src {
		pix[i*4+0] = v
		pix[i*4+1] = v
		pix[i*4+2] = v
		pix[i*4+3] = v
	}
	return pix
}

func premultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 0xFF {
			continue
		}
		pix[i+0] = uint8(uint32(pix[i+0]) * a / 0xFF) //nolint:gosec // result <= 255
		pix[i+1] = uint8(uint32(pix[i+1]) * a / 0xFF) //nolint:gosec // result <= 255
		pix[i+2] = uint8(uint32(pix[i+2]) * a / 0xFF) //nolint:gosec // result <= 255
	}
}
