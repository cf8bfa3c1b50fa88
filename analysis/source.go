// ABOUTME: Source interface over traced heaps for graph analysis
// ABOUTME: Shared edge extraction helpers with deterministic ordering

package analysis

import (
	"sort"

	"github.com/prateek/sweeper/heap"
)

// Source is the read surface the analyses need. *heap.Heap satisfies it.
type Source interface {
	// NumObjects returns the number of live objects.
	NumObjects() int

	// ForEachObject calls fn with a copy of every live object.
	ForEachObject(fn func(heap.Object))

	// Roots returns the root set.
	Roots() []heap.ObjID
}

var _ Source = (*heap.Heap)(nil)

// slotTargets returns an object's outgoing references ordered by slot
// name, so analyses traverse edges deterministically regardless of map
// iteration order.
func slotTargets(o heap.Object) []heap.ObjID {
	if len(o.Slots) == 0 {
		return nil
	}
	names := make([]string, 0, len(o.Slots))
	for name := range o.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]heap.ObjID, 0, len(names))
	for _, name := range names {
		out = append(out, o.Slots[name])
	}
	return out
}

// objects snapshots the source into a slice ordered by ID.
func objects(src Source) []heap.Object {
	objs := make([]heap.Object, 0, src.NumObjects())
	src.ForEachObject(func(o heap.Object) {
		objs = append(objs, o)
	})
	sort.Slice(objs, func(i, j int) bool { return objs[i].ID < objs[j].ID })
	return objs
}
