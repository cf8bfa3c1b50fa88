// ABOUTME: Rebuilds heap state by replaying a mutation journal
// ABOUTME: Verifies allocation IDs line up with the original run

package journal

import (
	"fmt"

	"github.com/prateek/sweeper/heap"
)

// Replay applies every record of the journal at path to h, which must
// be in the same state it was in when the journal was started (normally
// empty). It returns the number of records applied.
//
// Allocation IDs are deterministic, so each replayed OpAlloc must yield
// the ID recorded in the journal; a mismatch means the journal and the
// heap diverged and replay stops with an error.
func Replay(path string, h *heap.Heap) (int, error) {
	r, err := OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	applied := 0
	for r.Next() {
		rec := r.Record()
		if err := apply(h, rec); err != nil {
			return applied, fmt.Errorf("journal record %d (%s): %w", applied, rec.Op, err)
		}
		applied++
	}
	if err := r.Err(); err != nil {
		return applied, err
	}
	return applied, nil
}

func apply(h *heap.Heap, rec *Record) error {
	switch rec.Op {
	case OpAlloc:
		id, err := h.AllocateSize(rec.Size)
		if err != nil {
			return err
		}
		if id != rec.ID {
			return fmt.Errorf("journal out of sync: allocated %d, journal says %d", id, rec.ID)
		}
		return nil
	case OpSetRef:
		return h.SetReference(rec.ID, rec.Slot, rec.To)
	case OpAddRoot:
		return h.AddRoot(rec.ID)
	case OpRemoveRoot:
		h.RemoveRoot(rec.ID)
		return nil
	case OpCollect:
		h.Collect()
		return nil
	default:
		return fmt.Errorf("unknown op %d", rec.Op)
	}
}
