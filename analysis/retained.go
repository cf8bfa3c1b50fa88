// ABOUTME: Retained size computation via the dominator tree
// ABOUTME: Reports how many bytes each object keeps alive

package analysis

import "github.com/prateek/sweeper/heap"

// RetainedSize computes, for every reachable object, the total bytes
// that a collection cycle would reclaim if that object were removed:
// its own size plus the sizes of everything it dominates.
func RetainedSize(src Source) map[heap.ObjID]uint64 {
	idom := Dominators(src)
	tree := DominatorTree(idom)
	sizes := objSizes(src)

	retained := make(map[heap.ObjID]uint64, len(tree))
	var compute func(heap.ObjID) uint64
	compute = func(node heap.ObjID) uint64 {
		if size, done := retained[node]; done {
			return size
		}
		size := sizes[node]
		for _, child := range tree[node] {
			size += compute(child)
		}
		retained[node] = size
		return size
	}
	for node := range tree {
		compute(node)
	}

	delete(retained, 0)
	return retained
}

// RetainedSizeSubset computes retained sizes only for the requested
// objects, sharing the dominator computation across targets.
func RetainedSizeSubset(src Source, targets []heap.ObjID) map[heap.ObjID]uint64 {
	if len(targets) == 0 {
		return map[heap.ObjID]uint64{}
	}

	idom := Dominators(src)
	tree := DominatorTree(idom)
	sizes := objSizes(src)

	cache := make(map[heap.ObjID]uint64)
	var compute func(heap.ObjID) uint64
	compute = func(node heap.ObjID) uint64 {
		if size, done := cache[node]; done {
			return size
		}
		size := sizes[node]
		for _, child := range tree[node] {
			size += compute(child)
		}
		cache[node] = size
		return size
	}

	result := make(map[heap.ObjID]uint64, len(targets))
	for _, target := range targets {
		if _, exists := sizes[target]; exists && target != 0 {
			// Unreachable targets have no tree entry and retain only themselves.
			result[target] = compute(target)
		}
	}
	return result
}

func objSizes(src Source) map[heap.ObjID]uint64 {
	sizes := make(map[heap.ObjID]uint64, src.NumObjects()+1)
	src.ForEachObject(func(o heap.Object) {
		sizes[o.ID] = o.Size
	})
	sizes[0] = 0
	return sizes
}
