// ABOUTME: Binary snapshot format with CRC-framed records
// ABOUTME: Magic header, tagged object/roots frames, explicit EOF frame

package dump

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"sort"

	"github.com/prateek/sweeper/heap"
)

const binaryMagic = "sweeperdump1"

// Frame tags.
const (
	tagEOF    = 0
	tagObject = 1
	tagRoots  = 2
)

const maxFramePayload = 1 << 26 // 64 MiB guards against corrupt length fields

// BinaryParser parses binary heap snapshots.
type BinaryParser struct{}

var _ Parser = (*BinaryParser)(nil)

// WriteBinary encodes the heap in the binary snapshot format:
// the magic string, one frame per object ordered by ID, a roots frame,
// and an EOF frame. Every frame carries a CRC-32 of its payload.
func WriteBinary(h *heap.Heap, w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(binaryMagic); err != nil {
		return err
	}

	var objs []heap.Object
	h.ForEachObject(func(o heap.Object) { objs = append(objs, o) })
	sort.Slice(objs, func(i, j int) bool { return objs[i].ID < objs[j].ID })

	for _, o := range objs {
		if err := writeFrame(bw, encodeObject(o)); err != nil {
			return err
		}
	}
	if err := writeFrame(bw, encodeRoots(h.Roots())); err != nil {
		return err
	}
	if err := writeFrame(bw, []byte{tagEOF}); err != nil {
		return err
	}
	return bw.Flush()
}

// CanParse checks for the binary magic header.
func (p *BinaryParser) CanParse(r io.Reader) bool {
	header := make([]byte, len(binaryMagic))
	if _, err := io.ReadFull(r, header); err != nil {
		return false
	}
	return string(header) == binaryMagic
}

// Parse reads binary snapshot frames until the EOF frame and
// reconstructs a fresh unbounded heap.
func (p *BinaryParser) Parse(r io.Reader) (*heap.Heap, error) {
	br := bufio.NewReader(r)

	header := make([]byte, len(binaryMagic))
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(header) != binaryMagic {
		return nil, fmt.Errorf("bad magic %q", header)
	}

	var objs []heap.Object
	var roots []heap.ObjID
	for {
		payload, err := readFrame(br)
		if err != nil {
			return nil, err
		}
		switch payload[0] {
		case tagEOF:
			h, err := heap.FromObjects(heap.Config{}, objs, roots)
			if err != nil {
				return nil, fmt.Errorf("binary snapshot: %w", err)
			}
			return h, nil
		case tagObject:
			obj, err := decodeObject(payload[1:])
			if err != nil {
				return nil, err
			}
			objs = append(objs, obj)
		case tagRoots:
			roots, err = decodeRoots(payload[1:])
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown frame tag %d", payload[0])
		}
	}
}

func writeFrame(w io.Writer, payload []byte) error {
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:8], crc32.ChecksumIEEE(payload))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading frame header: %w", err)
	}
	length := binary.LittleEndian.Uint32(header[0:4])
	sum := binary.LittleEndian.Uint32(header[4:8])
	if length == 0 || length > maxFramePayload {
		return nil, fmt.Errorf("implausible frame length %d", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading frame payload: %w", err)
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return nil, fmt.Errorf("frame checksum mismatch")
	}
	return payload, nil
}

func encodeObject(o heap.Object) []byte {
	names := make([]string, 0, len(o.Slots))
	for name := range o.Slots {
		names = append(names, name)
	}
	sort.Strings(names)

	size := 1 + 8 + 8 + 4
	for _, name := range names {
		size += 2 + len(name) + 8
	}
	buf := make([]byte, 0, size)
	buf = append(buf, tagObject)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(o.ID))
	buf = binary.LittleEndian.AppendUint64(buf, o.Size)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(names)))
	for _, name := range names {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(name)))
		buf = append(buf, name...)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(o.Slots[name]))
	}
	return buf
}

func decodeObject(b []byte) (heap.Object, error) {
	if len(b) < 20 {
		return heap.Object{}, fmt.Errorf("short object frame: %d bytes", len(b))
	}
	obj := heap.Object{
		ID:    heap.ObjID(binary.LittleEndian.Uint64(b[0:8])),
		Size:  binary.LittleEndian.Uint64(b[8:16]),
		Slots: make(map[string]heap.ObjID),
	}
	n := binary.LittleEndian.Uint32(b[16:20])
	off := 20
	for i := uint32(0); i < n; i++ {
		if off+2 > len(b) {
			return heap.Object{}, fmt.Errorf("truncated slot header in object %d", obj.ID)
		}
		nameLen := int(binary.LittleEndian.Uint16(b[off : off+2]))
		off += 2
		if off+nameLen+8 > len(b) {
			return heap.Object{}, fmt.Errorf("truncated slot in object %d", obj.ID)
		}
		name := string(b[off : off+nameLen])
		off += nameLen
		obj.Slots[name] = heap.ObjID(binary.LittleEndian.Uint64(b[off : off+8]))
		off += 8
	}
	if off != len(b) {
		return heap.Object{}, fmt.Errorf("trailing bytes in object %d", obj.ID)
	}
	return obj, nil
}

func encodeRoots(roots []heap.ObjID) []byte {
	buf := make([]byte, 0, 1+4+8*len(roots))
	buf = append(buf, tagRoots)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(roots)))
	for _, id := range roots {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id))
	}
	return buf
}

func decodeRoots(b []byte) ([]heap.ObjID, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("short roots frame")
	}
	n := binary.LittleEndian.Uint32(b[0:4])
	if uint64(len(b)) != 4+8*uint64(n) {
		return nil, fmt.Errorf("roots frame length mismatch")
	}
	roots := make([]heap.ObjID, 0, n)
	for i := uint32(0); i < n; i++ {
		off := 4 + 8*int(i)
		roots = append(roots, heap.ObjID(binary.LittleEndian.Uint64(b[off:off+8])))
	}
	return roots, nil
}

func init() {
	Register(&BinaryParser{})
}
