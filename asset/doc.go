// Package asset provides generational storage for renderer resources.
//
// Resources such as materials and textures are owned by a [Registry] and
// referenced elsewhere through a [Handle]. A handle is a weak reference: an
// index into the registry plus the generation of the slot at insertion time.
// Removing a value bumps the slot generation, so every outstanding handle to
// it stops resolving instead of silently aliasing whatever reuses the slot.
//
// Basic usage:
//
//	var materials asset.Registry[Material]
//	h := materials.Insert(Material{Kind: KindSprite})
//	m, ok := materials.Get(h)
//	materials.Remove(h)
//	_, ok = materials.Get(h) // false: h is stale
package asset
