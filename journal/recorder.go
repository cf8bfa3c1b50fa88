// ABOUTME: Recorder mirrors the heap's mutating API and journals each success
// ABOUTME: Gives a host durable, replayable heap bookkeeping

package journal

import "github.com/prateek/sweeper/heap"

// Recorder wraps a heap so that every successful mutation is appended
// to a journal. Failed mutations are not journaled. A journal append
// error is returned to the caller after the mutation has already been
// applied; the caller decides whether to keep running without
// durability or to stop.
type Recorder struct {
	heap    *heap.Heap
	journal *Journal
}

// NewRecorder pairs a heap with a journal.
func NewRecorder(h *heap.Heap, j *Journal) *Recorder {
	return &Recorder{heap: h, journal: j}
}

// Heap returns the underlying heap for read-only access.
func (r *Recorder) Heap() *heap.Heap {
	return r.heap
}

// Allocate journals a zero-sized allocation.
func (r *Recorder) Allocate() (heap.ObjID, error) {
	return r.AllocateSize(0)
}

// AllocateSize journals a sized allocation.
func (r *Recorder) AllocateSize(size uint64) (heap.ObjID, error) {
	id, err := r.heap.AllocateSize(size)
	if err != nil {
		return 0, err
	}
	return id, r.journal.Append(&Record{Op: OpAlloc, ID: id, Size: size})
}

// SetReference journals a slot mutation.
func (r *Recorder) SetReference(from heap.ObjID, slot string, to heap.ObjID) error {
	if err := r.heap.SetReference(from, slot, to); err != nil {
		return err
	}
	return r.journal.Append(&Record{Op: OpSetRef, ID: from, Slot: slot, To: to})
}

// AddRoot journals a root addition.
func (r *Recorder) AddRoot(id heap.ObjID) error {
	if err := r.heap.AddRoot(id); err != nil {
		return err
	}
	return r.journal.Append(&Record{Op: OpAddRoot, ID: id})
}

// RemoveRoot journals a root removal.
func (r *Recorder) RemoveRoot(id heap.ObjID) error {
	r.heap.RemoveRoot(id)
	return r.journal.Append(&Record{Op: OpRemoveRoot, ID: id})
}

// Collect journals a collection cycle and returns the reclaimed IDs.
func (r *Recorder) Collect() ([]heap.ObjID, error) {
	reclaimed := r.heap.Collect()
	return reclaimed, r.journal.Append(&Record{Op: OpCollect})
}

// Sync forwards to the journal.
func (r *Recorder) Sync() error {
	return r.journal.Sync()
}
