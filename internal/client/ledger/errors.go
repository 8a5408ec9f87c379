package ledger

import "errors"

var (
	// ErrUnavailable is returned when the service cannot be reached at all.
	ErrUnavailable = errors.New("ledger service unavailable")

	// ErrChunkNotFound is returned when an individual proof chunk index is
	// missing on the service side.
	ErrChunkNotFound = errors.New("proof chunk not found")
)
