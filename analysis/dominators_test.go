// ABOUTME: Tests for dominator computation and dominator tree queries
// ABOUTME: Covers chains, diamonds, cycles, multiple roots, and unreachable nodes

package analysis

import (
	"reflect"
	"sort"
	"testing"

	"github.com/prateek/sweeper/heap"
)

func TestDominators(t *testing.T) {
	tests := []struct {
		name     string
		edges    map[heap.ObjID][]heap.ObjID
		roots    []heap.ObjID
		expected map[heap.ObjID]heap.ObjID
	}{
		{
			name:  "linear chain",
			edges: map[heap.ObjID][]heap.ObjID{1: {2}, 2: {3}},
			roots: []heap.ObjID{1},
			expected: map[heap.ObjID]heap.ObjID{
				1: 0,
				2: 1,
				3: 2,
			},
		},
		{
			name:  "diamond",
			edges: map[heap.ObjID][]heap.ObjID{1: {2, 3}, 2: {4}, 3: {4}},
			roots: []heap.ObjID{1},
			expected: map[heap.ObjID]heap.ObjID{
				1: 0,
				2: 1,
				3: 1,
				4: 1, // join point is dominated by the fork, not either arm
			},
		},
		{
			name:  "multiple paths",
			edges: map[heap.ObjID][]heap.ObjID{1: {2, 3}, 2: {4}, 3: {4, 5}, 4: {6}, 5: {6}},
			roots: []heap.ObjID{1},
			expected: map[heap.ObjID]heap.ObjID{
				1: 0,
				2: 1,
				3: 1,
				4: 1,
				5: 3,
				6: 1,
			},
		},
		{
			name:  "unreachable node excluded",
			edges: map[heap.ObjID][]heap.ObjID{1: {2}, 3: {}},
			roots: []heap.ObjID{1},
			expected: map[heap.ObjID]heap.ObjID{
				1: 0,
				2: 1,
			},
		},
		{
			name:  "cycle with back edge",
			edges: map[heap.ObjID][]heap.ObjID{1: {2}, 2: {3}, 3: {4}, 4: {2, 5}},
			roots: []heap.ObjID{1},
			expected: map[heap.ObjID]heap.ObjID{
				1: 0,
				2: 1,
				3: 2,
				4: 3,
				5: 4,
			},
		},
		{
			name:  "multiple roots share a child",
			edges: map[heap.ObjID][]heap.ObjID{1: {3}, 2: {3}},
			roots: []heap.ObjID{1, 2},
			expected: map[heap.ObjID]heap.ObjID{
				1: 0,
				2: 0,
				3: 0, // only the super-root dominates the shared child
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := buildHeap(t, nil, tt.edges, tt.roots)
			got := Dominators(h)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDominatorTree(t *testing.T) {
	idom := map[heap.ObjID]heap.ObjID{1: 0, 2: 1, 3: 1, 4: 1}
	tree := DominatorTree(idom)

	children := append([]heap.ObjID{}, tree[1]...)
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	if !reflect.DeepEqual(children, []heap.ObjID{2, 3, 4}) {
		t.Errorf("expected node 1 to dominate {2,3,4}, got %v", children)
	}
	if !reflect.DeepEqual(tree[0], []heap.ObjID{1}) {
		t.Errorf("expected super-root child [1], got %v", tree[0])
	}
}

func TestDominatorDepth(t *testing.T) {
	h := buildHeap(t, nil, map[heap.ObjID][]heap.ObjID{1: {2}, 2: {3}}, []heap.ObjID{1})
	tree := DominatorTree(Dominators(h))
	depth := DominatorDepth(tree)

	want := map[heap.ObjID]int{0: 0, 1: 1, 2: 2, 3: 3}
	if !reflect.DeepEqual(depth, want) {
		t.Errorf("expected %v, got %v", want, depth)
	}
}

func TestDominatorPath(t *testing.T) {
	idom := map[heap.ObjID]heap.ObjID{1: 0, 2: 1, 3: 2}
	path := DominatorPath(idom, 3)
	want := []heap.ObjID{3, 2, 1, 0}
	if !reflect.DeepEqual(path, want) {
		t.Errorf("expected %v, got %v", want, path)
	}
}

func TestIsDominated(t *testing.T) {
	idom := map[heap.ObjID]heap.ObjID{1: 0, 2: 1, 3: 2}

	if !IsDominated(idom, 3, 1) {
		t.Error("3 should be dominated by 1")
	}
	if !IsDominated(idom, 3, 3) {
		t.Error("a node dominates itself")
	}
	if IsDominated(idom, 1, 3) {
		t.Error("1 should not be dominated by 3")
	}
	if !IsDominated(idom, 2, 0) {
		t.Error("super-root dominates everything reachable")
	}
}
