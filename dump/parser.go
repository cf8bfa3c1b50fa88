// ABOUTME: Parser interface for heap snapshot formats
// ABOUTME: Defines the contract for pluggable snapshot parsers

package dump

import (
	"io"

	"github.com/prateek/sweeper/heap"
)

// Parser is the interface for heap snapshot parsers.
type Parser interface {
	// CanParse checks if this parser can handle the given format.
	// The reader is a preview; implementations should read a small
	// amount to detect the format and not consume the entire stream.
	CanParse(r io.Reader) bool

	// Parse reads the snapshot and reconstructs a heap.
	// The reader is positioned at the start of the stream.
	Parse(r io.Reader) (*heap.Heap, error)
}
