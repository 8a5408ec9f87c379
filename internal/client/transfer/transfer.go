// Package transfer orchestrates whole proof-file uploads and downloads as
// sequences of chunk calls with an all-or-nothing observable outcome.
//
// Chunk calls within one session are strictly sequential: the next index is
// sent only after the previous call returned success. A failed call aborts
// the session; nothing partial is ever surfaced as a complete file. Retries
// restart from chunk 0, there is no resume-from-middle.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avdeevd/fundkeeper/internal/client/chunker"
	"github.com/avdeevd/fundkeeper/internal/client/ledger"
	"github.com/avdeevd/fundkeeper/internal/client/session"
	"github.com/avdeevd/fundkeeper/internal/common"
	"github.com/avdeevd/fundkeeper/internal/logging"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	downloadCacheSize = 16
	downloadCacheTTL  = 5 * time.Minute
)

// File is a fully reconstructed proof file.
type File struct {
	ContentType string
	Data        []byte
}

// TransferError reports which chunk of which direction failed. The wrapped
// error keeps the original classification (errors.Is still matches).
type TransferError struct {
	Direction string // "upload" or "download"
	Index     int
	Err       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s failed at chunk %d: %v", e.Direction, e.Index, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Service runs transfer sessions. At most one session may be active per
// campaign at a time; a concurrent attempt fails with ErrTransferInProgress
// instead of interleaving chunk calls. Sessions for different campaigns may
// run concurrently.
type Service struct {
	ledger    ledger.Ledger
	chunkSize int
	logger    logging.Logger

	mu       sync.Mutex
	inflight map[string]struct{}

	// downloaded proofs, keyed by campaign id; invalidated on re-upload
	// and delete
	cache *expirable.LRU[string, *File]
}

// NewService returns a transfer service using the default 1 MiB chunk size.
func NewService(l ledger.Ledger, log logging.Logger) *Service {
	return &Service{
		ledger:    l,
		chunkSize: chunker.DefaultChunkSize,
		logger:    log.With("module", "transfer"),
		inflight:  make(map[string]struct{}),
		cache:     expirable.NewLRU[string, *File](downloadCacheSize, nil, downloadCacheTTL),
	}
}

func (s *Service) begin(campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[campaignID]; busy {
		return common.ErrTransferInProgress
	}
	s.inflight[campaignID] = struct{}{}
	return nil
}

func (s *Service) end(campaignID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, campaignID)
}

// Upload sends payload as ordered chunks. On any chunk failure the session
// aborts and the error names the failing index; chunks already on the
// service side are left as-is (the service will not mark the file complete
// until every index has arrived).
func (s *Service) Upload(ctx context.Context, sess *session.Session, campaignID, name, contentType string, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty proof file", common.ErrValidation)
	}
	if err := s.begin(campaignID); err != nil {
		return err
	}
	defer s.end(campaignID)

	chunks := chunker.Split(payload, s.chunkSize)
	total := len(chunks)

	s.logger.Info(ctx, "starting proof upload", "campaign", campaignID, "chunks", total)

	for i, chunk := range chunks {
		if err := s.ledger.UploadProofChunk(ctx, sess, campaignID, name, chunk, i, total, contentType); err != nil {
			s.logger.Error(ctx, "proof upload aborted", "campaign", campaignID, "chunk", i, "error", err)
			return &TransferError{Direction: "upload", Index: i, Err: err}
		}
	}

	s.cache.Remove(campaignID)
	s.logger.Info(ctx, "proof upload complete", "campaign", campaignID, "chunks", total)
	return nil
}

// Download fetches all chunks of a campaign's proof in index order and
// reconstructs the original payload. A missing or empty chunk aborts with
// an error matching common.ErrIncompleteTransfer; no partial file is
// returned. Absence of any proof at all surfaces as common.ErrNotFound.
func (s *Service) Download(ctx context.Context, campaignID string) (*File, error) {
	if f, ok := s.cache.Get(campaignID); ok {
		return f, nil
	}

	if err := s.begin(campaignID); err != nil {
		return nil, err
	}
	defer s.end(campaignID)

	total, err := s.ledger.ProofTotalChunks(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no proof submitted", common.ErrNotFound)
	}

	contentType, err := s.ledger.ProofContentType(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	chunks := make([][]byte, 0, total)
	for i := 0; i < total; i++ {
		chunk, err := s.ledger.ProofChunk(ctx, campaignID, i)
		if err != nil {
			if errors.Is(err, ledger.ErrChunkNotFound) {
				err = common.ErrIncompleteTransfer
			}
			return nil, &TransferError{Direction: "download", Index: i, Err: err}
		}
		if len(chunk) == 0 {
			return nil, &TransferError{Direction: "download", Index: i, Err: common.ErrIncompleteTransfer}
		}
		chunks = append(chunks, chunk)
	}

	f := &File{ContentType: contentType, Data: chunker.Join(chunks)}
	s.cache.Add(campaignID, f)
	return f, nil
}

// Delete removes the proof file in a single remote call. The service drops
// all chunks and the descriptor together; the client never deletes per chunk.
func (s *Service) Delete(ctx context.Context, sess *session.Session, campaignID, name string) error {
	if err := s.begin(campaignID); err != nil {
		return err
	}
	defer s.end(campaignID)

	if err := s.ledger.DeleteProof(ctx, sess, campaignID, name); err != nil {
		return err
	}
	s.cache.Remove(campaignID)
	return nil
}

// Invalidate drops any cached download for the campaign.
func (s *Service) Invalidate(campaignID string) {
	s.cache.Remove(campaignID)
}
