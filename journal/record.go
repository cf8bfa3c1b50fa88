// ABOUTME: Journal record encoding with CRC-framed binary layout
// ABOUTME: One record per heap mutation, self-delimiting on disk

package journal

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/prateek/sweeper/heap"
)

// Op identifies the heap mutation a record captures.
type Op uint8

const (
	OpAlloc      Op = iota + 1 // ID, Size
	OpSetRef                   // ID (from), Slot, To (0 clears)
	OpAddRoot                  // ID
	OpRemoveRoot               // ID
	OpCollect                  // no fields
)

func (op Op) String() string {
	switch op {
	case OpAlloc:
		return "alloc"
	case OpSetRef:
		return "setref"
	case OpAddRoot:
		return "addroot"
	case OpRemoveRoot:
		return "removeroot"
	case OpCollect:
		return "collect"
	default:
		return "unknown"
	}
}

// Record is one journaled heap mutation.
type Record struct {
	Op   Op
	Time int64 // UnixNano at append time
	ID   heap.ObjID
	To   heap.ObjID
	Size uint64
	Slot string
}

const maxSlotLen = 1<<16 - 1

// encodeRecord lays the record out as
// [op:1][time:8][id:8][to:8][size:8][slotLen:2][slot].
func encodeRecord(rec *Record) ([]byte, error) {
	if len(rec.Slot) > maxSlotLen {
		return nil, fmt.Errorf("slot name too long: %d bytes", len(rec.Slot))
	}
	buf := make([]byte, 0, 35+len(rec.Slot))
	buf = append(buf, byte(rec.Op))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(rec.Time))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(rec.ID))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(rec.To))
	buf = binary.LittleEndian.AppendUint64(buf, rec.Size)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(rec.Slot)))
	buf = append(buf, rec.Slot...)
	return buf, nil
}

func decodeRecord(b []byte) (*Record, error) {
	if len(b) < 35 {
		return nil, fmt.Errorf("short journal record: %d bytes", len(b))
	}
	rec := &Record{
		Op:   Op(b[0]),
		Time: int64(binary.LittleEndian.Uint64(b[1:9])),
		ID:   heap.ObjID(binary.LittleEndian.Uint64(b[9:17])),
		To:   heap.ObjID(binary.LittleEndian.Uint64(b[17:25])),
		Size: binary.LittleEndian.Uint64(b[25:33]),
	}
	slotLen := int(binary.LittleEndian.Uint16(b[33:35]))
	if len(b) != 35+slotLen {
		return nil, fmt.Errorf("journal record length mismatch")
	}
	rec.Slot = string(b[35:])
	return rec, nil
}

// writeFrame prefixes the payload with its length and CRC-32.
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

// readFrame reads one length- and CRC-prefixed payload.
func readFrame(r io.Reader) ([]byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err // io.EOF here is a clean end of journal
	}
	length := binary.LittleEndian.Uint32(header[0:4])
	sum := binary.LittleEndian.Uint32(header[4:8])
	if length == 0 || length > 1<<20 {
		return nil, fmt.Errorf("implausible journal frame length %d", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("truncated journal frame: %w", err)
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return nil, fmt.Errorf("journal frame checksum mismatch")
	}
	return payload, nil
}
