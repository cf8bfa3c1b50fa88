// ABOUTME: Persistent snapshot store backed by pebble
// ABOUTME: Keys snapshots by sequence number, values carry a timestamp header

package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/prateek/sweeper/dump"
	"github.com/prateek/sweeper/heap"
)

// ErrNotFound is returned when no snapshot exists for a sequence number.
var ErrNotFound = errors.New("snapshot not found")

const keyPrefix = "snap/"

// Store persists encoded heap snapshots in a pebble database.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) a snapshot store in dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores an encoded snapshot under seq, stamped with the current time.
func (s *Store) Put(seq uint64, payload []byte) error {
	value := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint64(value[:8], uint64(time.Now().UnixNano()))
	copy(value[8:], payload)
	return s.db.Set(keyFor(seq), value, pebble.Sync)
}

// Get returns the snapshot payload and capture time for seq.
func (s *Store) Get(seq uint64) ([]byte, time.Time, error) {
	value, closer, err := s.db.Get(keyFor(seq))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, time.Time{}, fmt.Errorf("%w: seq %d", ErrNotFound, seq)
		}
		return nil, time.Time{}, err
	}
	defer closer.Close()

	takenAt, payload, err := splitValue(value)
	if err != nil {
		return nil, time.Time{}, err
	}
	out := append([]byte(nil), payload...)
	return out, takenAt, nil
}

// Delete removes the snapshot for seq. Deleting a missing snapshot is
// a no-op.
func (s *Store) Delete(seq uint64) error {
	return s.db.Delete(keyFor(seq), pebble.Sync)
}

// Latest returns the snapshot with the highest sequence number.
func (s *Store) Latest() (uint64, []byte, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "~"),
	})
	if err != nil {
		return 0, nil, err
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, nil, ErrNotFound
	}
	seq, err := parseKey(iter.Key())
	if err != nil {
		return 0, nil, err
	}
	_, payload, err := splitValue(iter.Value())
	if err != nil {
		return 0, nil, err
	}
	out := append([]byte(nil), payload...)
	return seq, out, iter.Error()
}

// Scan iterates all snapshots in ascending sequence order.
func (s *Store) Scan(fn func(seq uint64, takenAt time.Time, payload []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			return err
		}
		takenAt, payload, err := splitValue(iter.Value())
		if err != nil {
			return err
		}
		if err := fn(seq, takenAt, payload); err != nil {
			return err
		}
	}
	return iter.Error()
}

// SaveHeap encodes h in the binary snapshot format and stores it.
func (s *Store) SaveHeap(seq uint64, h *heap.Heap) error {
	var buf bytes.Buffer
	if err := dump.WriteBinary(h, &buf); err != nil {
		return err
	}
	return s.Put(seq, buf.Bytes())
}

// LoadHeap reconstructs the heap stored under seq.
func (s *Store) LoadHeap(seq uint64) (*heap.Heap, error) {
	payload, _, err := s.Get(seq)
	if err != nil {
		return nil, err
	}
	return dump.Open(bytes.NewReader(payload))
}

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefix, seq))
}

func parseKey(key []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(bytes.TrimPrefix(key, []byte(keyPrefix))), "%d", &seq)
	return seq, err
}

func splitValue(value []byte) (time.Time, []byte, error) {
	if len(value) < 8 {
		return time.Time{}, nil, fmt.Errorf("short snapshot value: %d bytes", len(value))
	}
	takenAt := time.Unix(0, int64(binary.BigEndian.Uint64(value[:8])))
	return takenAt, value[8:], nil
}
