package sprite

import (
	"fmt"
	"image"

	"github.com/gogpu/sprite/asset"
	"github.com/gogpu/sprite/internal/gpu"
	"github.com/gogpu/sprite/texture"
)

// Texture is a GPU texture registered with a renderer.
type Texture struct {
	Width, Height int

	res *gpu.Texture
}

// Size returns the texture size in texels.
func (t Texture) Size() Size { return Size{t.Width, t.Height} }

// CreateTexture uploads img and registers it. Name may be empty;
// otherwise it must pass [asset.ValidateName] and be unique.
func (r *Renderer) CreateTexture(name string, img *image.RGBA) (asset.Handle[Texture], error) {
	if r.closed {
		return asset.Handle[Texture]{}, ErrRendererClosed
	}
	if img == nil || img.Bounds().Empty() {
		return asset.Handle[Texture]{}, ErrInvalidTextureSize
	}
	if name != "" {
		if err := asset.ValidateName(name); err != nil {
			return asset.Handle[Texture]{}, err
		}
		if _, taken := r.textures.Lookup(name); taken {
			return asset.Handle[Texture]{}, fmt.Errorf("create texture %q: %w", name, asset.ErrNameTaken)
		}
	}

	b := img.Bounds()
	width, height := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // bounds are positive
	if err := r.budget.Fits(gpu.TextureBytes(width, height)); err != nil {
		return asset.Handle[Texture]{}, fmt.Errorf("create texture %q: %w", name, err)
	}
	label := name
	if label == "" {
		label = "sprite_texture"
	}
	res, err := r.pipelines.CreateTexture(r.queue, label, width, height, packPixels(img))
	if err != nil {
		return asset.Handle[Texture]{}, fmt.Errorf("create texture %q: %w", name, err)
	}
	t := Texture{Width: b.Dx(), Height: b.Dy(), res: res}
	var h asset.Handle[Texture]
	if name == "" {
		h = r.textures.Insert(t)
	} else if h, err = r.textures.InsertNamed(name, t); err != nil {
		res.Destroy(r.device)
		return asset.Handle[Texture]{}, fmt.Errorf("create texture %q: %w", name, err)
	}
	r.budget.Track(res)
	return h, nil
}

// LoadTexture decodes path through loader and uploads the result under
// name.
func (r *Renderer) LoadTexture(loader *texture.Loader, name, path string) (asset.Handle[Texture], error) {
	img, err := loader.Load(path)
	if err != nil {
		return asset.Handle[Texture]{}, err
	}
	return r.CreateTexture(name, img)
}

// TextureByName returns the handle of a named texture.
func (r *Renderer) TextureByName(name string) (asset.Handle[Texture], bool) {
	return r.textures.Lookup(name)
}

// TextureSize returns the size of the texture behind h.
func (r *Renderer) TextureSize(h asset.Handle[Texture]) (Size, bool) {
	t, ok := r.textures.Get(h)
	if !ok {
		return Size{}, false
	}
	return t.Size(), true
}

// RemoveTexture unregisters the texture and releases its GPU resources.
// Materials still referring to it fail extraction with
// [ErrTextureNotFound].
func (r *Renderer) RemoveTexture(h asset.Handle[Texture]) bool {
	t, ok := r.textures.Remove(h)
	if !ok {
		return false
	}
	if err := r.budget.Release(t.res); err != nil {
		slogger().Warn("texture memory accounting", "texture", h, "err", err)
	}
	t.res.Destroy(r.device)
	return true
}

// packPixels returns the pixels of img as tightly packed rows.
func packPixels(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	if img.Stride == rowLen && b.Min == (image.Point{}) {
		return img.Pix[:rowLen*b.Dy()]
	}
	out := make([]byte, rowLen*b.Dy())
	for y := range b.Dy() {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*rowLen:], img.Pix[src:src+rowLen])
	}
	return out
}
