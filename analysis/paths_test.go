// ABOUTME: Tests for the paths-to-roots search
// ABOUTME: Validates BFS ordering, cycle handling, and path limits

package analysis

import (
	"reflect"
	"testing"

	"github.com/prateek/sweeper/heap"
)

func TestPathsToRootsLinearChain(t *testing.T) {
	// 1 (root) -> 2 -> 3
	h := buildHeap(t, nil,
		map[heap.ObjID][]heap.ObjID{1: {2}, 2: {3}},
		[]heap.ObjID{1})

	paths := PathsToRoots(h, 3, 10)
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	want := []heap.ObjID{3, 2, 1}
	if !reflect.DeepEqual(paths[0].IDs, want) {
		t.Errorf("expected path %v, got %v", want, paths[0].IDs)
	}
}

func TestPathsToRootsFromRoot(t *testing.T) {
	h := buildHeap(t, nil, map[heap.ObjID][]heap.ObjID{1: {2}}, []heap.ObjID{1})

	paths := PathsToRoots(h, 1, 5)
	if len(paths) != 1 || len(paths[0].IDs) != 1 || paths[0].IDs[0] != 1 {
		t.Errorf("root should yield its own single-element path, got %v", paths)
	}
}

func TestPathsToRootsDiamond(t *testing.T) {
	// 1 (root) -> 2 -> 4
	//          -> 3 -> 4
	h := buildHeap(t, nil,
		map[heap.ObjID][]heap.ObjID{1: {2, 3}, 2: {4}, 3: {4}},
		[]heap.ObjID{1})

	paths := PathsToRoots(h, 4, 10)
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths through the diamond, got %d", len(paths))
	}
	for _, p := range paths {
		if p.IDs[0] != 4 || p.IDs[len(p.IDs)-1] != 1 {
			t.Errorf("path must run target to root, got %v", p.IDs)
		}
	}

	// maxPaths truncates.
	if got := PathsToRoots(h, 4, 1); len(got) != 1 {
		t.Errorf("expected 1 path with maxPaths=1, got %d", len(got))
	}
	if got := PathsToRoots(h, 4, 0); got != nil {
		t.Errorf("expected nil with maxPaths=0, got %v", got)
	}
}

func TestPathsToRootsCycle(t *testing.T) {
	// 1 (root) -> 2 <-> 3; search from 3 must not loop.
	h := buildHeap(t, nil,
		map[heap.ObjID][]heap.ObjID{1: {2}, 2: {3}, 3: {2}},
		[]heap.ObjID{1})

	paths := PathsToRoots(h, 3, 10)
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	want := []heap.ObjID{3, 2, 1}
	if !reflect.DeepEqual(paths[0].IDs, want) {
		t.Errorf("expected %v, got %v", want, paths[0].IDs)
	}
}

func TestPathsToRootsUnreachable(t *testing.T) {
	h := buildHeap(t, nil,
		map[heap.ObjID][]heap.ObjID{1: {2}, 3: {4}},
		[]heap.ObjID{1})

	if paths := PathsToRoots(h, 4, 10); len(paths) != 0 {
		t.Errorf("unreachable object must yield no paths, got %v", paths)
	}
}

func TestBuildReverseEdges(t *testing.T) {
	h := buildHeap(t, nil,
		map[heap.ObjID][]heap.ObjID{1: {3}, 2: {3}},
		nil)

	reverse := BuildReverseEdges(h)
	got := reverse[3]
	if len(got) != 2 {
		t.Fatalf("expected 2 referrers of 3, got %v", got)
	}
	seen := map[heap.ObjID]bool{got[0]: true, got[1]: true}
	if !seen[1] || !seen[2] {
		t.Errorf("expected referrers {1,2}, got %v", got)
	}
}
