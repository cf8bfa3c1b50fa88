// ABOUTME: Heap manager owning objects, roots, and capacity accounting
// ABOUTME: Provides allocate, reference mutation, and root set operations

package heap

import (
	"fmt"
	"sort"
	"sync"
)

// Heap tracks a graph of objects and a root set, and reclaims
// unreachable objects via Collect. All methods are safe for concurrent
// use; a collection cycle holds the write lock for its full duration,
// so no mutation interleaves with mark or sweep.
type Heap struct {
	mu        sync.RWMutex
	cfg       Config
	nextID    ObjID
	objects   map[ObjID]*object
	roots     map[ObjID]struct{}
	liveBytes uint64
	stats     Stats
}

// New creates an empty heap bounded by cfg.
func New(cfg Config) *Heap {
	return &Heap{
		cfg:     cfg,
		nextID:  1,
		objects: make(map[ObjID]*object),
		roots:   make(map[ObjID]struct{}),
	}
}

// FromObjects reconstructs a heap from a set of object views and roots,
// typically parsed from a dump. It validates that no object uses ID 0,
// that IDs are unique, that every non-zero slot target exists, and that
// every root exists.
func FromObjects(cfg Config, objs []Object, roots []ObjID) (*Heap, error) {
	h := New(cfg)
	for _, o := range objs {
		if o.ID == 0 {
			return nil, fmt.Errorf("%w: object id 0 is reserved", ErrUnknownObject)
		}
		if _, dup := h.objects[o.ID]; dup {
			return nil, fmt.Errorf("duplicate object id %d", o.ID)
		}
		if cfg.MaxObjects > 0 && len(h.objects) >= cfg.MaxObjects {
			return nil, fmt.Errorf("%w: object limit %d", ErrOutOfMemory, cfg.MaxObjects)
		}
		if cfg.MaxBytes > 0 && h.liveBytes+o.Size > cfg.MaxBytes {
			return nil, fmt.Errorf("%w: byte limit %d", ErrOutOfMemory, cfg.MaxBytes)
		}
		slots := make(map[string]ObjID, len(o.Slots))
		for name, to := range o.Slots {
			if to != 0 {
				slots[name] = to
			}
		}
		h.objects[o.ID] = &object{id: o.ID, size: o.Size, slots: slots}
		h.liveBytes += o.Size
		if o.ID >= h.nextID {
			h.nextID = o.ID + 1
		}
	}
	for _, o := range h.objects {
		for name, to := range o.slots {
			if _, ok := h.objects[to]; !ok {
				return nil, fmt.Errorf("%w: object %d slot %q references %d", ErrUnknownObject, o.id, name, to)
			}
		}
	}
	for _, id := range roots {
		if _, ok := h.objects[id]; !ok {
			return nil, fmt.Errorf("%w: root %d", ErrUnknownObject, id)
		}
		h.roots[id] = struct{}{}
	}
	return h, nil
}

// Allocate creates a new zero-sized object with no outgoing references.
func (h *Heap) Allocate() (ObjID, error) {
	return h.AllocateSize(0)
}

// AllocateSize creates a new object of the given byte size.
// It fails with ErrOutOfMemory when a configured capacity would be
// exceeded; the heap is unchanged on failure.
func (h *Heap) AllocateSize(size uint64) (ObjID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cfg.MaxObjects > 0 && len(h.objects) >= h.cfg.MaxObjects {
		return 0, fmt.Errorf("%w: object limit %d reached", ErrOutOfMemory, h.cfg.MaxObjects)
	}
	if h.cfg.MaxBytes > 0 && h.liveBytes+size > h.cfg.MaxBytes {
		return 0, fmt.Errorf("%w: byte limit %d reached", ErrOutOfMemory, h.cfg.MaxBytes)
	}

	id := h.nextID
	h.nextID++
	h.objects[id] = &object{id: id, size: size, slots: make(map[string]ObjID)}
	h.liveBytes += size
	return id, nil
}

// SetReference sets or clears a named outgoing reference slot.
// to == 0 clears the slot. Both from and a non-zero to must exist.
func (h *Heap) SetReference(from ObjID, slot string, to ObjID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	src, ok := h.objects[from]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownObject, from)
	}
	if to == 0 {
		delete(src.slots, slot)
		return nil
	}
	if _, ok := h.objects[to]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownObject, to)
	}
	src.slots[slot] = to
	return nil
}

// AddRoot marks an existing object as always reachable.
func (h *Heap) AddRoot(id ObjID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.objects[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	h.roots[id] = struct{}{}
	return nil
}

// RemoveRoot removes an object from the root set. Removing a non-root
// is a no-op, which makes the operation idempotent.
func (h *Heap) RemoveRoot(id ObjID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.roots, id)
}

// Roots returns the root set in ascending order.
func (h *Heap) Roots() []ObjID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]ObjID, 0, len(h.roots))
	for id := range h.roots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsRoot reports whether id is currently in the root set.
func (h *Heap) IsRoot(id ObjID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.roots[id]
	return ok
}

// Contains reports whether id is currently resident in the heap.
func (h *Heap) Contains(id ObjID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.objects[id]
	return ok
}

// Object returns a copy of the object with the given id.
func (h *Heap) Object(id ObjID) (Object, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	o, ok := h.objects[id]
	if !ok {
		return Object{}, false
	}
	return o.view(), true
}

// NumObjects returns the number of live objects.
func (h *Heap) NumObjects() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.objects)
}

// LiveBytes returns the total size of live objects.
func (h *Heap) LiveBytes() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.liveBytes
}

// ForEachObject calls fn with a copy of every live object.
// Iteration order is unspecified.
func (h *Heap) ForEachObject(fn func(Object)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.objects {
		fn(o.view())
	}
}
