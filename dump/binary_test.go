// ABOUTME: Tests for the binary snapshot codec
// ABOUTME: Round-trips heaps and detects corruption via CRC frames

package dump

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateek/sweeper/heap"
)

func TestBinaryRoundTrip(t *testing.T) {
	h := testHeap(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(h, &buf))

	parser := &BinaryParser{}
	assert.True(t, parser.CanParse(bytes.NewReader(buf.Bytes())))

	got, err := parser.Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assertSameHeap(t, h, got)
}

func TestBinaryCanParseRejects(t *testing.T) {
	parser := &BinaryParser{}

	assert.False(t, parser.CanParse(bytes.NewReader(nil)))
	assert.False(t, parser.CanParse(bytes.NewReader([]byte("short"))))
	assert.False(t, parser.CanParse(bytes.NewReader([]byte(`{"objects": []}`))))
}

func TestBinaryDetectsCorruption(t *testing.T) {
	h := testHeap(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(h, &buf))
	data := buf.Bytes()

	// Flip a payload byte past the magic and the first frame header.
	corrupt := append([]byte(nil), data...)
	corrupt[len(binaryMagic)+9] ^= 0xff

	parser := &BinaryParser{}
	_, err := parser.Parse(bytes.NewReader(corrupt))
	assert.Error(t, err)
}

func TestBinaryTruncated(t *testing.T) {
	h := testHeap(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(h, &buf))
	data := buf.Bytes()

	parser := &BinaryParser{}
	_, err := parser.Parse(bytes.NewReader(data[:len(data)-5]))
	assert.Error(t, err)
}

// FuzzBinaryParse checks the parser never panics on arbitrary input.
func FuzzBinaryParse(f *testing.F) {
	h := heap.New(heap.Config{})
	a, _ := h.AllocateSize(16)
	b, _ := h.AllocateSize(32)
	_ = h.SetReference(a, "next", b)
	_ = h.AddRoot(a)
	var buf bytes.Buffer
	_ = WriteBinary(h, &buf)
	f.Add(buf.Bytes())
	f.Add([]byte(binaryMagic))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		parser := &BinaryParser{}
		g, err := parser.Parse(bytes.NewReader(data))
		if err == nil && g == nil {
			t.Error("nil heap with nil error")
		}
	})
}
