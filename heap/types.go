// ABOUTME: Core data types and errors for the traced heap
// ABOUTME: Defines ObjID, Object views, Config, and the error sentinels

package heap

import "errors"

// ObjID is a unique identifier for a heap object.
// ID 0 is never allocated; it doubles as the "none" value in
// reference slots and as the analysis super-root.
type ObjID uint64

// Object is a read-only view of a heap object. The heap owns the
// underlying object exclusively; views carry copies of the slot map.
type Object struct {
	ID    ObjID            // Unique identifier
	Size  uint64           // Size in bytes, fixed at allocation
	Slots map[string]ObjID // Named outgoing references
}

// Config bounds the heap. A zero value means the dimension is unbounded.
type Config struct {
	MaxObjects int    // Maximum number of live objects
	MaxBytes   uint64 // Maximum total live bytes
}

var (
	// ErrUnknownObject is returned when an operation names an identifier
	// that is not present in the heap.
	ErrUnknownObject = errors.New("unknown object")

	// ErrOutOfMemory is returned when an allocation would exceed a
	// configured capacity limit.
	ErrOutOfMemory = errors.New("out of memory")
)

// object is the heap-internal representation.
type object struct {
	id     ObjID
	size   uint64
	slots  map[string]ObjID
	marked bool
}

// view returns a copy safe to hand out.
func (o *object) view() Object {
	slots := make(map[string]ObjID, len(o.slots))
	for name, to := range o.slots {
		slots[name] = to
	}
	return Object{ID: o.id, Size: o.size, Slots: slots}
}
