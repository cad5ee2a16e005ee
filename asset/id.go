package asset

import "fmt"

// ID identifies a registry slot together with the generation that was live
// when the ID was issued. The zero ID is never issued and is therefore
// always invalid.
type ID struct {
	Index      uint32
	Generation uint32
}

// IsValid reports whether the ID could have been issued by a registry.
// It does not check that the referenced value is still alive.
func (id ID) IsValid() bool { return id.Generation != 0 }

// Less orders IDs by index, then by generation.
func (id ID) Less(other ID) bool {
	if id.Index != other.Index {
		return id.Index < other.Index
	}
	return id.Generation < other.Generation
}

// Key packs the ID into a single comparable integer.
func (id ID) Key() uint64 { return uint64(id.Index)<<32 | uint64(id.Generation) }

// String returns "index#generation".
func (id ID) String() string { return fmt.Sprintf("%d#%d", id.Index, id.Generation) }

// Handle is a typed weak reference into a [Registry] of T.
//
// The type parameter only prevents mixing handles of different registries;
// the runtime representation is an [ID].
type Handle[T any] struct {
	id ID
}

// HandleFromID wraps a raw ID. It is intended for decoding handles that were
// previously obtained from [Handle.ID].
func HandleFromID[T any](id ID) Handle[T] { return Handle[T]{id: id} }

// ID returns the untyped identifier.
func (h Handle[T]) ID() ID { return h.id }

// IsValid reports whether h was issued by a registry (it may be stale).
func (h Handle[T]) IsValid() bool { return h.id.IsValid() }

// String returns the handle in "index#generation" form.
func (h Handle[T]) String() string { return h.id.String() }
