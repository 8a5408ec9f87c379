package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/avdeevd/fundkeeper/internal/common"
	"github.com/avdeevd/fundkeeper/internal/logging"
	"github.com/avdeevd/fundkeeper/internal/server/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(repository.NewMemoryRepository(), logging.NewJSON(), []byte("test-secret"), time.Minute)
}

func register(t *testing.T, s *Service, handle string) {
	t.Helper()
	require.NoError(t, s.Register(context.Background(), handle, []byte("pw")))
}

func createCampaign(t *testing.T, s *Service, owner string) string {
	t.Helper()
	c, err := s.CreateCampaign(context.Background(), owner, "wells", "clean water", 1000, time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)
	return c.ID
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	require.NoError(t, s.Register(ctx, "alice", []byte("pw")))

	err := s.Register(ctx, "alice", []byte("other"))
	assert.ErrorIs(t, err, common.ErrValidation)

	token, err := s.Login(ctx, "alice", []byte("pw"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = s.Login(ctx, "alice", []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = s.Login(ctx, "nobody", []byte("pw"))
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestService()
	assert.ErrorIs(t, s.Register(context.Background(), "", []byte("pw")), common.ErrValidation)
	assert.ErrorIs(t, s.Register(context.Background(), "x", nil), common.ErrValidation)
}

func TestDonateOnlyWhileActive(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "alice")
	register(t, s, "bob")
	id := createCampaign(t, s, "alice")

	assert.ErrorIs(t, s.Donate(ctx, "bob", id, 0), common.ErrInvalidAmount)
	require.NoError(t, s.Donate(ctx, "bob", id, 400))

	require.NoError(t, s.UploadChunk(ctx, "alice", id, "p.pdf", "application/pdf", 0, 1, []byte("x")))
	assert.ErrorIs(t, s.Donate(ctx, "bob", id, 100), common.ErrWrongState)

	c, err := s.repo.Campaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(400), c.Collected)
	assert.Equal(t, StatusPendingReview, c.Status)
}

func TestDecideGuards(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "alice")
	register(t, s, "bob")
	id := createCampaign(t, s, "alice")
	require.NoError(t, s.UploadChunk(ctx, "alice", id, "p", "text/plain", 0, 1, []byte("x")))

	// no stake
	assert.ErrorIs(t, s.Decide(ctx, "bob", id, true), common.ErrStakeRequired)

	require.NoError(t, s.AddStake(ctx, "bob", 500))
	require.NoError(t, s.AddStake(ctx, "alice", 500))

	// self-review
	assert.ErrorIs(t, s.Decide(ctx, "alice", id, true), common.ErrUnauthorized)

	require.NoError(t, s.Decide(ctx, "bob", id, true))
	c, err := s.repo.Campaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusReleased, c.Status)

	// already decided
	assert.ErrorIs(t, s.Decide(ctx, "bob", id, true), common.ErrWrongState)
}

func TestRejectReturnsToActive(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "alice")
	register(t, s, "bob")
	id := createCampaign(t, s, "alice")
	require.NoError(t, s.Donate(ctx, "bob", id, 300))
	require.NoError(t, s.UploadChunk(ctx, "alice", id, "p", "text/plain", 0, 1, []byte("x")))
	require.NoError(t, s.AddStake(ctx, "bob", 500))

	require.NoError(t, s.Decide(ctx, "bob", id, false))

	c, err := s.repo.Campaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, int64(300), c.Collected)

	// funding continues
	require.NoError(t, s.Donate(ctx, "bob", id, 100))
}

func TestCollect(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "alice")
	register(t, s, "bob")
	id := createCampaign(t, s, "alice")
	require.NoError(t, s.UploadChunk(ctx, "alice", id, "p", "text/plain", 0, 1, []byte("x")))
	require.NoError(t, s.AddStake(ctx, "bob", 500))
	require.NoError(t, s.Decide(ctx, "bob", id, true))

	// only the owner collects
	assert.ErrorIs(t, s.Collect(ctx, "bob", id), common.ErrUnauthorized)

	ids, err := s.ReleasedIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	require.NoError(t, s.Collect(ctx, "alice", id))
	assert.ErrorIs(t, s.Collect(ctx, "alice", id), common.ErrWrongState)

	ids, err = s.ReleasedIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUploadCommitsOnlyWhenComplete(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "alice")
	id := createCampaign(t, s, "alice")

	require.NoError(t, s.UploadChunk(ctx, "alice", id, "p.pdf", "application/pdf", 0, 3, []byte("a")))
	require.NoError(t, s.UploadChunk(ctx, "alice", id, "p.pdf", "application/pdf", 1, 3, []byte("b")))

	// incomplete: no descriptor, still active
	_, found, err := s.ProofInfo(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
	c, err := s.repo.Campaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, c.Status)

	require.NoError(t, s.UploadChunk(ctx, "alice", id, "p.pdf", "application/pdf", 2, 3, []byte("c")))

	p, found, err := s.ProofInfo(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "p.pdf", p.Name)
	assert.Len(t, p.Chunks, 3)

	chunk, err := s.ProofChunk(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), chunk)

	c, err = s.repo.Campaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, c.Status)
}

func TestReuploadReplacesOnlyOnCompletion(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "alice")
	id := createCampaign(t, s, "alice")
	require.NoError(t, s.UploadChunk(ctx, "alice", id, "old.pdf", "application/pdf", 0, 1, []byte("old")))

	// new upload in flight: old proof still served
	require.NoError(t, s.UploadChunk(ctx, "alice", id, "new.pdf", "application/pdf", 0, 2, []byte("n1")))
	p, found, err := s.ProofInfo(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "old.pdf", p.Name)

	require.NoError(t, s.UploadChunk(ctx, "alice", id, "new.pdf", "application/pdf", 1, 2, []byte("n2")))
	p, found, err = s.ProofInfo(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new.pdf", p.Name)
	assert.Len(t, p.Chunks, 2)
}

func TestUploadGuards(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "alice")
	register(t, s, "bob")
	id := createCampaign(t, s, "alice")

	assert.ErrorIs(t, s.UploadChunk(ctx, "bob", id, "p", "t", 0, 1, []byte("x")), common.ErrUnauthorized)
	assert.ErrorIs(t, s.UploadChunk(ctx, "alice", id, "p", "t", 1, 1, []byte("x")), common.ErrValidation)
	assert.ErrorIs(t, s.UploadChunk(ctx, "alice", id, "p", "t", 0, 1, nil), common.ErrValidation)
	assert.ErrorIs(t, s.UploadChunk(ctx, "alice", "missing", "p", "t", 0, 1, []byte("x")), common.ErrNotFound)
}

func TestDeleteProofKeepsStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "alice")
	register(t, s, "bob")
	id := createCampaign(t, s, "alice")
	require.NoError(t, s.UploadChunk(ctx, "alice", id, "p.pdf", "application/pdf", 0, 1, []byte("x")))

	assert.ErrorIs(t, s.DeleteProof(ctx, "bob", id, "p.pdf"), common.ErrUnauthorized)
	assert.ErrorIs(t, s.DeleteProof(ctx, "alice", id, "other.pdf"), common.ErrNotFound)

	require.NoError(t, s.DeleteProof(ctx, "alice", id, "p.pdf"))

	_, found, err := s.ProofInfo(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)

	// the campaign stays pending even without its file
	c, err := s.repo.Campaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, c.Status)
}
