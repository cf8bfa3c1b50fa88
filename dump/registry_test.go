// ABOUTME: Tests for the snapshot parser registry
// ABOUTME: Verifies format auto-detection across JSON and binary codecs

package dump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDetectsJSON(t *testing.T) {
	h := testHeap(t)

	var buf bytes.Buffer
	require.NoError(t, Write(h, &buf))

	got, err := Open(&buf)
	require.NoError(t, err)
	assertSameHeap(t, h, got)
}

func TestOpenDetectsBinary(t *testing.T) {
	h := testHeap(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(h, &buf))

	got, err := Open(&buf)
	require.NoError(t, err)
	assertSameHeap(t, h, got)
}

func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open(strings.NewReader("definitely not a snapshot"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestOpenLargeSnapshotPastPreview(t *testing.T) {
	// Enough objects that the JSON body outgrows the 4 KiB preview.
	h := testBigHeap(t, 600)

	var buf bytes.Buffer
	require.NoError(t, Write(h, &buf))
	require.Greater(t, buf.Len(), 4096)

	got, err := Open(&buf)
	require.NoError(t, err)
	assert.Equal(t, h.NumObjects(), got.NumObjects())
	assert.Equal(t, h.Roots(), got.Roots())
}
