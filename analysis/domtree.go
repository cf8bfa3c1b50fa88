// ABOUTME: Utility queries over dominator trees
// ABOUTME: Depth, path-to-root, and dominance checks

package analysis

import "github.com/prateek/sweeper/heap"

// DominatorDepth computes the depth of each node in the dominator tree.
// The super-root has depth 0.
func DominatorDepth(tree map[heap.ObjID][]heap.ObjID) map[heap.ObjID]int {
	depth := make(map[heap.ObjID]int, len(tree))

	var walk func(node heap.ObjID, d int)
	walk = func(node heap.ObjID, d int) {
		depth[node] = d
		for _, child := range tree[node] {
			walk(child, d+1)
		}
	}
	walk(0, 0)

	return depth
}

// DominatorPath returns the chain of immediate dominators from a node
// up to and including the super-root.
func DominatorPath(idom map[heap.ObjID]heap.ObjID, node heap.ObjID) []heap.ObjID {
	var path []heap.ObjID
	current := node
	for {
		path = append(path, current)
		dom, exists := idom[current]
		if !exists || dom == 0 {
			if current != 0 {
				path = append(path, 0)
			}
			break
		}
		current = dom
	}
	return path
}

// IsDominated reports whether node is dominated by dominator.
// Every node dominates itself.
func IsDominated(idom map[heap.ObjID]heap.ObjID, node, dominator heap.ObjID) bool {
	if node == dominator {
		return true
	}
	current := node
	for {
		dom, exists := idom[current]
		if !exists {
			return false
		}
		if dom == dominator {
			return true
		}
		if dom == 0 {
			return dominator == 0
		}
		current = dom
	}
}
