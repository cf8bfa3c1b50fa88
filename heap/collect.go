// ABOUTME: Mark-and-sweep collection cycle over the traced heap
// ABOUTME: Worklist mark from roots, sweep of unmarked objects, cycle stats

package heap

import (
	"sort"
	"time"
)

// Cycle summarizes one completed collection cycle.
type Cycle struct {
	Seq            uint64        // 1-based cycle counter
	Reclaimed      int           // Objects removed
	ReclaimedBytes uint64        // Bytes removed
	Live           int           // Objects remaining after sweep
	Duration       time.Duration // Wall time of the cycle
}

// Stats accumulates collection activity over the heap's lifetime.
type Stats struct {
	Cycles         uint64 // Collection cycles run
	TotalReclaimed uint64 // Objects reclaimed across all cycles
	LastCycle      Cycle  // Summary of the most recent cycle
}

// Collect runs one full mark-and-sweep cycle and returns the reclaimed
// identifiers in ascending order. The write lock is held for the whole
// cycle, so callers observe either the pre-cycle or post-cycle heap,
// never an intermediate state.
func (h *Heap) Collect() []ObjID {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()

	// Mark: reset flags, then trace from the roots with an explicit
	// worklist. An object is pushed at most once, bounding the phase
	// to O(objects + references) and terminating on any cycle.
	for _, o := range h.objects {
		o.marked = false
	}
	stack := make([]*object, 0, len(h.roots))
	for id := range h.roots {
		if o := h.objects[id]; o != nil && !o.marked {
			o.marked = true
			stack = append(stack, o)
		}
	}
	for len(stack) > 0 {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range o.slots {
			if next := h.objects[to]; next != nil && !next.marked {
				next.marked = true
				stack = append(stack, next)
			}
		}
	}

	// Sweep: everything unmarked goes. A marked object only references
	// marked objects, so no surviving slot can dangle.
	var reclaimed []ObjID
	var reclaimedBytes uint64
	for id, o := range h.objects {
		if o.marked {
			continue
		}
		reclaimed = append(reclaimed, id)
		reclaimedBytes += o.size
		delete(h.objects, id)
	}
	h.liveBytes -= reclaimedBytes
	sort.Slice(reclaimed, func(i, j int) bool { return reclaimed[i] < reclaimed[j] })

	h.stats.Cycles++
	h.stats.TotalReclaimed += uint64(len(reclaimed))
	h.stats.LastCycle = Cycle{
		Seq:            h.stats.Cycles,
		Reclaimed:      len(reclaimed),
		ReclaimedBytes: reclaimedBytes,
		Live:           len(h.objects),
		Duration:       time.Since(start),
	}
	return reclaimed
}

// Stats returns a copy of the accumulated collection statistics.
func (h *Heap) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}

// Reachable returns the set of objects reachable from the current root
// set without mutating mark state visible to Collect. It is a read-only
// mark phase, useful for audits and tests.
func (h *Heap) Reachable() map[ObjID]bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[ObjID]bool, len(h.objects))
	stack := make([]ObjID, 0, len(h.roots))
	for id := range h.roots {
		if !seen[id] {
			seen[id] = true
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		o := h.objects[id]
		if o == nil {
			continue
		}
		for _, to := range o.slots {
			if !seen[to] {
				seen[to] = true
				stack = append(stack, to)
			}
		}
	}
	return seen
}
