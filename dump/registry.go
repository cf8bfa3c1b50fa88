// ABOUTME: Registry of heap snapshot parsers with format sniffing
// ABOUTME: Open tries each registered parser against a buffered preview

package dump

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/prateek/sweeper/heap"
)

// ErrUnknownFormat is returned when no registered parser recognizes
// the snapshot format.
var ErrUnknownFormat = errors.New("unknown snapshot format")

type parserRegistry struct {
	mu      sync.RWMutex
	parsers []Parser
}

var registry = &parserRegistry{}

// Register adds a parser to the registry.
func Register(p Parser) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.parsers = append(registry.parsers, p)
}

// Open reads a heap snapshot, trying each registered parser until one
// recognizes the format.
func Open(r io.Reader) (*heap.Heap, error) {
	// Buffer a preview so several parsers can sniff the same bytes.
	preview := make([]byte, 4096)
	n, err := io.ReadFull(r, preview)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	preview = preview[:n]

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, parser := range registry.parsers {
		if parser.CanParse(bytes.NewReader(preview)) {
			full := io.MultiReader(bytes.NewReader(preview), r)
			return parser.Parse(full)
		}
	}
	return nil, ErrUnknownFormat
}
