// ABOUTME: Builds reverse edges over a traced heap
// ABOUTME: Maps each object to its referrers for paths-to-roots

package analysis

import "github.com/prateek/sweeper/heap"

// ReverseEdges maps each object to the objects that reference it.
type ReverseEdges map[heap.ObjID][]heap.ObjID

// BuildReverseEdges walks every slot in the source and inverts it.
func BuildReverseEdges(src Source) ReverseEdges {
	reverse := make(ReverseEdges)
	for _, obj := range objects(src) {
		for _, to := range slotTargets(obj) {
			reverse[to] = append(reverse[to], obj.ID)
		}
	}
	return reverse
}
