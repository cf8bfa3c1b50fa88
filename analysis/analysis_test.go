// ABOUTME: Shared test fixtures for the analysis package
// ABOUTME: Builds traced heaps from compact edge descriptions

package analysis

import (
	"fmt"
	"testing"

	"github.com/prateek/sweeper/heap"
)

// buildHeap allocates objects 1..n with the given sizes, wires the
// edges as numbered slots, and installs the roots.
func buildHeap(t *testing.T, sizes map[heap.ObjID]uint64, edges map[heap.ObjID][]heap.ObjID, roots []heap.ObjID) *heap.Heap {
	t.Helper()
	h := heap.New(heap.Config{})

	n := heap.ObjID(0)
	for id := range sizes {
		if id > n {
			n = id
		}
	}
	for from, targets := range edges {
		if from > n {
			n = from
		}
		for _, to := range targets {
			if to > n {
				n = to
			}
		}
	}
	for _, id := range roots {
		if id > n {
			n = id
		}
	}
	for id := heap.ObjID(1); id <= n; id++ {
		got, err := h.AllocateSize(sizes[id])
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		if got != id {
			t.Fatalf("expected id %d, got %d", id, got)
		}
	}
	for from, targets := range edges {
		for i, to := range targets {
			if err := h.SetReference(from, fmt.Sprintf("s%d", i), to); err != nil {
				t.Fatalf("set reference %d->%d: %v", from, to, err)
			}
		}
	}
	for _, id := range roots {
		if err := h.AddRoot(id); err != nil {
			t.Fatalf("add root %d: %v", id, err)
		}
	}
	return h
}
