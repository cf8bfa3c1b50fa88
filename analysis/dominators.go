// ABOUTME: Lengauer-Tarjan immediate dominators over the heap graph
// ABOUTME: Super-root 0 fronts the root set so multi-root heaps work

package analysis

import "github.com/prateek/sweeper/heap"

// Dominators computes the immediate dominator of every object reachable
// from the root set. A synthetic super-root with ID 0 points at every
// root; it dominates everything and has no dominator itself, and is
// removed from the result. Unreachable objects do not appear.
func Dominators(src Source) map[heap.ObjID]heap.ObjID {
	objs := objects(src)

	// Forward adjacency, fronted by the super-root.
	adj := make(map[heap.ObjID][]heap.ObjID, len(objs)+1)
	if roots := src.Roots(); len(roots) > 0 {
		adj[0] = roots
	}
	for _, obj := range objs {
		adj[obj.ID] = slotTargets(obj)
	}

	// Predecessors, computed once instead of rescanning per vertex.
	preds := make(map[heap.ObjID][]heap.ObjID, len(objs))
	for from, targets := range adj {
		for _, to := range targets {
			preds[to] = append(preds[to], from)
		}
	}

	var dfsNum int
	vertex := make([]heap.ObjID, 0, len(objs)+1) // DFS number -> vertex
	parent := make(map[heap.ObjID]int)           // vertex -> DFS number of spanning-tree parent
	dfnum := make(map[heap.ObjID]int)            // vertex -> DFS number
	semi := make(map[heap.ObjID]int)             // vertex -> DFS number of semidominator
	ancestor := make(map[heap.ObjID]int)         // link-eval forest
	idom := make(map[heap.ObjID]heap.ObjID)      // vertex -> immediate dominator
	samedom := make(map[heap.ObjID]heap.ObjID)   // link-eval forest
	best := make(map[heap.ObjID]heap.ObjID)      // link-eval forest
	bucket := make(map[int][]heap.ObjID)         // semidominator -> deferred vertices

	var dfs func(v heap.ObjID, p int)
	dfs = func(v heap.ObjID, p int) {
		if _, visited := dfnum[v]; visited {
			return
		}
		dfnum[v] = dfsNum
		vertex = append(vertex, v)
		parent[v] = p
		semi[v] = dfsNum
		ancestor[v] = -1
		best[v] = v
		samedom[v] = v
		dfsNum++

		for _, w := range adj[v] {
			dfs(w, dfnum[v])
		}
	}
	dfs(0, -1)

	var compress func(v heap.ObjID)
	compress = func(v heap.ObjID) {
		anc := ancestor[v]
		if anc == -1 {
			return
		}
		ancID := vertex[anc]
		if ancestor[ancID] != -1 {
			compress(ancID)
			if semi[best[ancID]] < semi[best[v]] {
				best[v] = best[ancID]
			}
			ancestor[v] = ancestor[ancID]
		}
	}

	eval := func(v heap.ObjID) heap.ObjID {
		if ancestor[v] == -1 {
			return v
		}
		compress(v)
		return best[v]
	}

	// Vertices in reverse DFS order.
	for i := dfsNum - 1; i > 0; i-- {
		w := vertex[i]

		// Semidominator of w over all reachable predecessors.
		for _, v := range preds[w] {
			vNum, reachable := dfnum[v]
			if !reachable {
				continue
			}
			var u heap.ObjID
			if vNum <= dfnum[w] {
				u = v
			} else {
				u = eval(v)
			}
			if semi[u] < semi[w] {
				semi[w] = semi[u]
			}
		}

		bucket[semi[w]] = append(bucket[semi[w]], w)
		if parent[w] != -1 {
			ancestor[w] = parent[w]
		}

		// Deferred immediate-dominator decisions for the parent's bucket.
		for _, v := range bucket[parent[w]] {
			u := eval(v)
			if semi[u] == semi[v] {
				idom[v] = vertex[parent[w]]
			} else {
				samedom[v] = u
			}
		}
		bucket[parent[w]] = nil
	}

	// Resolve the deferred cases in DFS order.
	for i := 1; i < dfsNum; i++ {
		w := vertex[i]
		if samedom[w] != w {
			idom[w] = idom[samedom[w]]
		}
	}

	delete(idom, 0)
	return idom
}

// DominatorTree inverts the idom map into child lists.
func DominatorTree(idom map[heap.ObjID]heap.ObjID) map[heap.ObjID][]heap.ObjID {
	tree := make(map[heap.ObjID][]heap.ObjID, len(idom)+1)
	for node := range idom {
		tree[node] = []heap.ObjID{}
	}
	tree[0] = []heap.ObjID{}
	for node, dom := range idom {
		tree[dom] = append(tree[dom], node)
	}
	return tree
}
