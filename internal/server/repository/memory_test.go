package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCampaign(t *testing.T, r *MemoryRepository, id, owner, status string) {
	t.Helper()
	err := r.CreateCampaign(context.Background(), &Campaign{
		ID: id, Title: "t", Description: "d", Target: 100,
		TargetDate: time.Now(), Status: status, Owner: owner,
	})
	require.NoError(t, err)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	require.NoError(t, r.CreateUser(ctx, &User{ID: "u1", Handle: "alice", PasswordHash: "h"}))
	require.ErrorIs(t, r.CreateUser(ctx, &User{ID: "u2", Handle: "alice"}), ErrDuplicate)

	u, err := r.UserByHandle(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", u.PasswordHash)

	_, err = r.UserByHandle(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.AddStake(ctx, "alice", 500))
	require.NoError(t, r.AddStake(ctx, "alice", 500))
	u, err = r.UserByHandle(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), u.Stake)
}

func TestTransitionStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	seedCampaign(t, r, "c1", "alice", "active")

	require.NoError(t, r.TransitionStatus(ctx, "c1", "active", "pending_review"))
	assert.ErrorIs(t, r.TransitionStatus(ctx, "c1", "active", "pending_review"), ErrWrongState)
	assert.ErrorIs(t, r.TransitionStatus(ctx, "missing", "active", "x"), ErrNotFound)

	c, err := r.Campaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "pending_review", c.Status)
}

func TestDonationsUpdateCollected(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	seedCampaign(t, r, "c1", "alice", "active")

	require.NoError(t, r.AddDonation(ctx, &Donation{CampaignID: "c1", Donor: "bob", Amount: 70, CreatedAt: time.Now()}))
	require.NoError(t, r.AddDonation(ctx, &Donation{CampaignID: "c1", Donor: "carol", Amount: 30, CreatedAt: time.Now()}))

	c, err := r.Campaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), c.Collected)

	byCampaign, err := r.DonationsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, byCampaign, 2)

	byDonor, err := r.DonationsByDonor(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, byDonor, 1)
	assert.Equal(t, int64(70), byDonor[0].Amount)
}

func TestCampaignListsPreserveInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	seedCampaign(t, r, "c1", "alice", "active")
	seedCampaign(t, r, "c2", "bob", "pending_review")
	seedCampaign(t, r, "c3", "alice", "active")

	all, err := r.Campaigns(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c1", all[0].ID)
	assert.Equal(t, "c3", all[2].ID)

	mine, err := r.CampaignsByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pending, err := r.CampaignsByStatus(ctx, "pending_review")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c2", pending[0].ID)
}

func TestProofLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	seedCampaign(t, r, "c1", "alice", "active")

	p := &Proof{Name: "r.pdf", ContentType: "application/pdf", Chunks: [][]byte{{1, 2}, {3}}}
	require.NoError(t, r.SetProof(ctx, "c1", p))

	got, err := r.Proof(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "r.pdf", got.Name)
	assert.Len(t, got.Chunks, 2)

	chunk, err := r.ProofChunk(ctx, "c1", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, chunk)

	_, err = r.ProofChunk(ctx, "c1", 5)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.DeleteProof(ctx, "c1"))
	_, err = r.Proof(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.DeleteProof(ctx, "c1"), ErrNotFound)
}
