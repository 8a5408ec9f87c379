package chunker

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitJoin_RoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for _, n := range []int{0, 1, 99, 100, 101, 1024, 4096, 1<<20 + 17} {
		payload := make([]byte, n)
		_, _ = rnd.Read(payload)

		for _, size := range []int{1, 7, 100, 1 << 20} {
			chunks := Split(payload, size)
			require.True(t, bytes.Equal(payload, Join(chunks)), "n=%d size=%d", n, size)
		}
	}
}

func TestSplit_ChunkBounds(t *testing.T) {
	payload := make([]byte, 250)
	chunks := Split(payload, 100)

	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 100)
	require.Len(t, chunks[1], 100)
	require.Len(t, chunks[2], 50)
}

func TestSplit_ThreeAndAHalfMiB(t *testing.T) {
	payload := make([]byte, 3*1024*1024+512*1024)
	chunks := Split(payload, DefaultChunkSize)

	require.Len(t, chunks, 4)
	for i := 0; i < 3; i++ {
		require.Len(t, chunks[i], DefaultChunkSize)
	}
	require.Len(t, chunks[3], 512*1024)
}

func TestSplit_Empty(t *testing.T) {
	require.Empty(t, Split(nil, DefaultChunkSize))
	require.Empty(t, Split([]byte{}, DefaultChunkSize))
}

func TestCount(t *testing.T) {
	require.Equal(t, 0, Count(0, 10))
	require.Equal(t, 1, Count(1, 10))
	require.Equal(t, 1, Count(10, 10))
	require.Equal(t, 2, Count(11, 10))
}

func TestSplit_PanicsOnBadSize(t *testing.T) {
	require.Panics(t, func() { Split([]byte{1}, 0) })
}
