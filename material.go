package sprite

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sprite/asset"
	"github.com/gogpu/sprite/batch"
	"github.com/gogpu/sprite/internal/gpu"
)

// MaterialKind selects the pipeline a material draws with and the
// textures it binds.
type MaterialKind uint8

const (
	// KindSprite samples Primary and blends premultiplied alpha.
	KindSprite MaterialKind = iota

	// KindAlphaMask samples Primary and multiplies by the alpha of Mask.
	KindAlphaMask

	// KindQuad draws solid colored quads. It binds no texture.
	KindQuad

	// KindLightAdd samples Primary and blends additively.
	KindLightAdd
)

// String returns the kind name.
func (k MaterialKind) String() string {
	switch k {
	case KindSprite:
		return "sprite"
	case KindAlphaMask:
		return "alpha_mask"
	case KindQuad:
		return "quad"
	case KindLightAdd:
		return "light_add"
	default:
		return fmt.Sprintf("MaterialKind(%d)", k)
	}
}

// Pipeline returns the pipeline identifier items of this kind sort and
// batch on.
func (k MaterialKind) Pipeline() batch.PipelineID {
	switch k {
	case KindAlphaMask:
		return gpu.PipelineAlphaMask
	case KindQuad:
		return gpu.PipelineQuad
	case KindLightAdd:
		return gpu.PipelineLight
	default:
		return gpu.PipelineSprite
	}
}

// textured reports whether the kind samples its primary texture.
func (k MaterialKind) textured() bool { return k != KindQuad }

// Material describes how items are drawn. Materials are registered with
// [Renderer.CreateMaterial] and referenced by handle.
type Material struct {
	Kind MaterialKind

	// Primary is the sampled texture. Ignored for KindQuad.
	Primary asset.Handle[Texture]

	// Mask is the alpha source of KindAlphaMask. Ignored otherwise.
	Mask asset.Handle[Texture]
}

// CreateMaterial registers m. Name may be empty; otherwise it must pass
// [asset.ValidateName] and be unique.
func (r *Renderer) CreateMaterial(name string, m Material) (asset.Handle[Material], error) {
	if r.closed {
		return asset.Handle[Material]{}, ErrRendererClosed
	}
	if m.Kind.textured() && !r.textures.Contains(m.Primary) {
		return asset.Handle[Material]{}, fmt.Errorf("%w: primary %v", ErrTextureNotFound, m.Primary)
	}
	if m.Kind == KindAlphaMask && !r.textures.Contains(m.Mask) {
		return asset.Handle[Material]{}, fmt.Errorf("%w: mask %v", ErrTextureNotFound, m.Mask)
	}
	if name == "" {
		return r.materials.Insert(m), nil
	}
	h, err := r.materials.InsertNamed(name, m)
	if err != nil {
		return asset.Handle[Material]{}, fmt.Errorf("create material %q: %w", name, err)
	}
	return h, nil
}

// Material returns the material behind h.
func (r *Renderer) Material(h asset.Handle[Material]) (Material, bool) {
	return r.materials.Get(h)
}

// LookupMaterial returns the handle of a named material.
func (r *Renderer) LookupMaterial(name string) (asset.Handle[Material], bool) {
	return r.materials.Lookup(name)
}

// RemoveMaterial unregisters the material. Items still queued with h make
// the next Render fail with [ErrMaterialNotFound].
func (r *Renderer) RemoveMaterial(h asset.Handle[Material]) bool {
	_, ok := r.materials.Remove(h)
	return ok
}

// materialGroups resolves the bind groups a material binds at groups 1
// and up.
func (r *Renderer) materialGroups(m Material) ([]hal.BindGroup, error) {
	if !m.Kind.textured() {
		return nil, nil
	}
	primary, ok := r.textures.Get(m.Primary)
	if !ok {
		return nil, fmt.Errorf("%w: primary %v", ErrTextureNotFound, m.Primary)
	}
	if m.Kind != KindAlphaMask {
		return []hal.BindGroup{primary.res.BindGroup()}, nil
	}
	mask, ok := r.textures.Get(m.Mask)
	if !ok {
		return nil, fmt.Errorf("%w: mask %v", ErrTextureNotFound, m.Mask)
	}
	return []hal.BindGroup{primary.res.BindGroup(), mask.res.BindGroup()}, nil
}
