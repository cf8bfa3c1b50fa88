// ABOUTME: Append-only journal of heap mutations
// ABOUTME: Buffered writer with explicit sync, one CRC frame per record

package journal

import (
	"bufio"
	"os"
	"time"
)

// Journal is an append-only log of heap mutations. Appends are
// buffered; call Sync to force them to stable storage.
type Journal struct {
	file   *os.File
	writer *bufio.Writer
}

// Open opens (or creates) a journal file for appending.
func Open(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Journal{
		file:   f,
		writer: bufio.NewWriterSize(f, 1<<16),
	}, nil
}

// Append writes one record. The record's Time is stamped here if unset.
func (j *Journal) Append(rec *Record) error {
	if rec.Time == 0 {
		rec.Time = time.Now().UnixNano()
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return writeFrame(j.writer, data)
}

// Sync flushes buffered records and fsyncs the file.
func (j *Journal) Sync() error {
	if err := j.writer.Flush(); err != nil {
		return err
	}
	return j.file.Sync()
}

// Close flushes and closes the journal.
func (j *Journal) Close() error {
	if err := j.writer.Flush(); err != nil {
		j.file.Close()
		return err
	}
	return j.file.Close()
}
