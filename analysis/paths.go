// ABOUTME: BFS search for paths from an object back to the root set
// ABOUTME: K-shortest paths with per-path cycle suppression

package analysis

import "github.com/prateek/sweeper/heap"

// Path is a chain of object IDs from a target object to a root.
type Path struct {
	IDs []heap.ObjID // Sequence from target to root
}

// PathsToRoots finds up to maxPaths paths from an object to the root
// set by BFS over reverse edges. Shorter paths are found first. An
// object already in the root set yields the single-element path.
func PathsToRoots(src Source, from heap.ObjID, maxPaths int) []Path {
	if maxPaths <= 0 {
		return nil
	}

	reverse := BuildReverseEdges(src)

	rootSet := make(map[heap.ObjID]bool)
	for _, id := range src.Roots() {
		rootSet[id] = true
	}
	if rootSet[from] {
		return []Path{{IDs: []heap.ObjID{from}}}
	}

	type searchNode struct {
		id   heap.ObjID
		path []heap.ObjID
	}

	var result []Path
	queue := []searchNode{{id: from, path: []heap.ObjID{from}}}

	for len(queue) > 0 && len(result) < maxPaths {
		node := queue[0]
		queue = queue[1:]

		for _, referrer := range reverse[node.id] {
			// A referrer already on this path would loop forever.
			inPath := false
			for _, id := range node.path {
				if id == referrer {
					inPath = true
					break
				}
			}
			if inPath {
				continue
			}

			next := make([]heap.ObjID, len(node.path)+1)
			copy(next, node.path)
			next[len(node.path)] = referrer

			if rootSet[referrer] {
				result = append(result, Path{IDs: next})
				if len(result) >= maxPaths {
					break
				}
			} else {
				queue = append(queue, searchNode{id: referrer, path: next})
			}
		}
	}

	return result
}
