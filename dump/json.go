// ABOUTME: JSON snapshot format for traced heaps
// ABOUTME: Encodes with encoding/json, sniffs and decodes with gjson

package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/prateek/sweeper/heap"
)

// JSONParser parses JSON heap snapshots.
type JSONParser struct{}

var _ Parser = (*JSONParser)(nil)

type jsonSnapshot struct {
	Objects []jsonObject `json:"objects"`
	Roots   []heap.ObjID `json:"roots"`
}

type jsonObject struct {
	ID    heap.ObjID            `json:"id"`
	Size  uint64                `json:"size,omitempty"`
	Slots map[string]heap.ObjID `json:"slots,omitempty"`
}

// Write encodes the heap as a JSON snapshot. Objects are ordered by ID
// so identical heaps produce identical bytes.
func Write(h *heap.Heap, w io.Writer) error {
	snap := jsonSnapshot{
		Objects: make([]jsonObject, 0, h.NumObjects()),
		Roots:   h.Roots(),
	}
	h.ForEachObject(func(o heap.Object) {
		snap.Objects = append(snap.Objects, jsonObject{ID: o.ID, Size: o.Size, Slots: o.Slots})
	})
	sort.Slice(snap.Objects, func(i, j int) bool { return snap.Objects[i].ID < snap.Objects[j].ID })

	enc := json.NewEncoder(w)
	return enc.Encode(snap)
}

// CanParse checks whether the preview looks like a JSON snapshot with
// an objects field.
func (p *JSONParser) CanParse(r io.Reader) bool {
	buf := make([]byte, 1024)
	n, err := r.Read(buf)
	if (err != nil && err != io.EOF) || n == 0 {
		return false
	}
	// A truncated preview of a large snapshot is not valid JSON, so
	// only require the objects key to appear in the prefix. gjson
	// tolerates the truncation.
	head := bytes.TrimSpace(buf[:n])
	return len(head) > 0 && head[0] == '{' && gjson.GetBytes(head, "objects").Exists()
}

// Parse decodes a JSON snapshot into a fresh unbounded heap.
func (p *JSONParser) Parse(r io.Reader) (*heap.Heap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json snapshot")
	}
	doc := gjson.ParseBytes(data)
	if !doc.Get("objects").Exists() {
		return nil, fmt.Errorf("json snapshot missing objects")
	}

	var objs []heap.Object
	var badObject error
	doc.Get("objects").ForEach(func(_, value gjson.Result) bool {
		id := heap.ObjID(value.Get("id").Uint())
		if id == 0 {
			badObject = fmt.Errorf("json snapshot object missing id: %s", value.Raw)
			return false
		}
		obj := heap.Object{
			ID:    id,
			Size:  value.Get("size").Uint(),
			Slots: make(map[string]heap.ObjID),
		}
		value.Get("slots").ForEach(func(name, to gjson.Result) bool {
			obj.Slots[name.String()] = heap.ObjID(to.Uint())
			return true
		})
		objs = append(objs, obj)
		return true
	})
	if badObject != nil {
		return nil, badObject
	}

	var roots []heap.ObjID
	doc.Get("roots").ForEach(func(_, value gjson.Result) bool {
		roots = append(roots, heap.ObjID(value.Uint()))
		return true
	})

	h, err := heap.FromObjects(heap.Config{}, objs, roots)
	if err != nil {
		return nil, fmt.Errorf("json snapshot: %w", err)
	}
	return h, nil
}

func init() {
	Register(&JSONParser{})
}
