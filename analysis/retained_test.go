// ABOUTME: Tests for retained size computation
// ABOUTME: Verifies byte attribution across chains, diamonds, and subsets

package analysis

import (
	"reflect"
	"testing"

	"github.com/prateek/sweeper/heap"
)

func TestRetainedSizeLinearChain(t *testing.T) {
	h := buildHeap(t,
		map[heap.ObjID]uint64{1: 100, 2: 50, 3: 25},
		map[heap.ObjID][]heap.ObjID{1: {2}, 2: {3}},
		[]heap.ObjID{1})

	got := RetainedSize(h)
	want := map[heap.ObjID]uint64{
		1: 175, // retains the whole chain
		2: 75,
		3: 25,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRetainedSizeDiamond(t *testing.T) {
	h := buildHeap(t,
		map[heap.ObjID]uint64{1: 100, 2: 30, 3: 40, 4: 20},
		map[heap.ObjID][]heap.ObjID{1: {2, 3}, 2: {4}, 3: {4}},
		[]heap.ObjID{1})

	got := RetainedSize(h)
	want := map[heap.ObjID]uint64{
		1: 190,
		2: 30, // the join point is retained by the fork, not either arm
		3: 40,
		4: 20,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRetainedSizeExcludesUnreachable(t *testing.T) {
	h := buildHeap(t,
		map[heap.ObjID]uint64{1: 10, 2: 20, 3: 30},
		map[heap.ObjID][]heap.ObjID{1: {2}},
		[]heap.ObjID{1})

	got := RetainedSize(h)
	if _, present := got[3]; present {
		t.Errorf("unreachable object must not appear, got %v", got)
	}
	if got[1] != 30 || got[2] != 20 {
		t.Errorf("unexpected retained sizes %v", got)
	}
}

func TestRetainedSizeSubset(t *testing.T) {
	h := buildHeap(t,
		map[heap.ObjID]uint64{1: 100, 2: 50, 3: 25},
		map[heap.ObjID][]heap.ObjID{1: {2}, 2: {3}},
		[]heap.ObjID{1})

	got := RetainedSizeSubset(h, []heap.ObjID{2, 999})
	if len(got) != 1 || got[2] != 75 {
		t.Errorf("expected {2:75}, got %v", got)
	}

	if got := RetainedSizeSubset(h, nil); len(got) != 0 {
		t.Errorf("expected empty result for empty targets, got %v", got)
	}
}
