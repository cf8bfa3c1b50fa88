// ABOUTME: Sequential reader over a mutation journal
// ABOUTME: Cursor-style Next/Record/Err API

package journal

import (
	"bufio"
	"io"
	"os"
)

// Reader iterates over the records of a journal file.
type Reader struct {
	file   *os.File
	reader *bufio.Reader
	rec    *Record
	err    error
}

// OpenReader opens a journal file for sequential reading.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:   f,
		reader: bufio.NewReader(f),
	}, nil
}

// Next advances to the next record. It returns false at the end of the
// journal or on a corrupt frame; check Err to distinguish.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	payload, err := readFrame(r.reader)
	if err == io.EOF {
		return false
	}
	if err != nil {
		r.err = err
		return false
	}
	rec, err := decodeRecord(payload)
	if err != nil {
		r.err = err
		return false
	}
	r.rec = rec
	return true
}

// Record returns the record read by the last successful Next.
func (r *Reader) Record() *Record {
	return r.rec
}

// Err returns the first error encountered; nil after a clean end.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
