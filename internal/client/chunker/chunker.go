// Package chunker splits binary payloads into bounded-size chunks for
// upload and reassembles ordered chunks into the original payload after
// download. It is pure byte arithmetic with no I/O.
package chunker

// DefaultChunkSize is the chunk size used for proof-file transfers.
const DefaultChunkSize = 1024 * 1024 // 1 MiB

// Count returns the number of chunks a payload of length n occupies.
// An empty payload occupies zero chunks.
func Count(n, chunkSize int) int {
	if n <= 0 {
		return 0
	}
	return (n + chunkSize - 1) / chunkSize
}

// Split slices payload into chunks of at most chunkSize bytes. Chunks are
// subslices of payload (no copying); the last chunk may be shorter. The
// chunk at position i covers payload[i*chunkSize : min((i+1)*chunkSize, len)].
func Split(payload []byte, chunkSize int) [][]byte {
	if chunkSize <= 0 {
		panic("chunker: chunk size must be positive")
	}

	total := Count(len(payload), chunkSize)
	chunks := make([][]byte, 0, total)
	for i := 0; i < total; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, payload[start:end])
	}
	return chunks
}

// Join concatenates chunks in order, reconstructing the exact original
// payload byte for byte.
func Join(chunks [][]byte) []byte {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
