package asset

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Registry errors.
var (
	// ErrStaleHandle is returned when a handle no longer resolves.
	ErrStaleHandle = errors.New("asset: stale handle")

	// ErrNameTaken is returned by InsertNamed when the name is already bound.
	ErrNameTaken = errors.New("asset: name already registered")

	// ErrRegistryFull is returned when every slot index is in use.
	ErrRegistryFull = errors.New("asset: registry full")
)

// slot is one storage cell. A slot is live while occupied is true; its
// generation is bumped every time the value is removed.
type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
	name       string
}

// Registry owns values of type T and hands out weak [Handle]s to them.
//
// Free slots are recycled with a bumped generation, so a handle issued
// before a removal never resolves to the value that later reuses its slot.
//
// The zero value is an empty registry ready for use.
// Registry is safe for concurrent use; it must not be copied after first use.
type Registry[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	names map[string]ID
	live  int
}

// Insert stores v and returns a handle to it.
// Insert panics only if more than 2^32 slots are live at once.
func (r *Registry[T]) Insert(v T) Handle[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := r.insertLocked(v, "")
	if err != nil {
		panic(err)
	}
	return h
}

// InsertNamed stores v under a validated, unique name.
func (r *Registry[T]) InsertNamed(name string, v T) (Handle[T], error) {
	if err := ValidateName(name); err != nil {
		return Handle[T]{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.names[name]; taken {
		return Handle[T]{}, fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	return r.insertLocked(v, name)
}

func (r *Registry[T]) insertLocked(v T, name string) (Handle[T], error) {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		if uint64(len(r.slots)) >= math.MaxUint32 {
			return Handle[T]{}, ErrRegistryFull
		}
		index = uint32(len(r.slots)) //nolint:gosec // bounded above
		r.slots = append(r.slots, slot[T]{generation: 1})
	}

	s := &r.slots[index]
	s.value = v
	s.occupied = true
	s.name = name
	r.live++

	id := ID{Index: index, Generation: s.generation}
	if name != "" {
		if r.names == nil {
			r.names = make(map[string]ID)
		}
		r.names[name] = id
	}
	return Handle[T]{id: id}, nil
}

// Get returns the value referenced by h and whether h is still live.
func (r *Registry[T]) Get(h Handle[T]) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.lookupLocked(h.id)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Contains reports whether h is still live.
func (r *Registry[T]) Contains(h Handle[T]) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(h.id) != nil
}

// Lookup resolves a name registered with InsertNamed.
func (r *Registry[T]) Lookup(name string) (Handle[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[name]
	if !ok {
		return Handle[T]{}, false
	}
	return Handle[T]{id: id}, true
}

// Replace overwrites the value referenced by h in place. The handle stays
// valid.
func (r *Registry[T]) Replace(h Handle[T], v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookupLocked(h.id)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	s.value = v
	return nil
}

// Remove deletes the value referenced by h and returns it.
// Every handle to the removed value becomes stale.
func (r *Registry[T]) Remove(h Handle[T]) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookupLocked(h.id)
	if s == nil {
		var zero T
		return zero, false
	}

	v := s.value
	var zero T
	s.value = zero
	s.occupied = false
	if s.name != "" {
		delete(r.names, s.name)
		s.name = ""
	}
	s.generation++
	if s.generation == 0 {
		// Generation 0 marks invalid IDs.
		s.generation = 1
	}
	r.free = append(r.free, h.id.Index)
	r.live--
	return v, true
}

// Len returns the number of live values.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live
}

// Range calls fn for every live value in slot order until fn returns false.
// fn must not call back into the registry.
func (r *Registry[T]) Range(fn func(Handle[T], T) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.slots {
		s := &r.slots[i]
		if !s.occupied {
			continue
		}
		h := Handle[T]{id: ID{Index: uint32(i), Generation: s.generation}} //nolint:gosec // slot count fits uint32
		if !fn(h, s.value) {
			return
		}
	}
}

func (r *Registry[T]) lookupLocked(id ID) *slot[T] {
	if !id.IsValid() || int(id.Index) >= len(r.slots) {
		return nil
	}
	s := &r.slots[id.Index]
	if !s.occupied || s.generation != id.Generation {
		return nil
	}
	return s
}
