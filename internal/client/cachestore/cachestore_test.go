package cachestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/avdeevd/fundkeeper/internal/client/models"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCampaignSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	campaigns := []models.Campaign{
		{
			ID: "c1", Title: "wells", Description: "clean water",
			Target: 1000, Collected: 250,
			TargetDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			Status:     models.StatusPendingReview, Owner: "alice",
			Proof: &models.ProofInfo{Name: "receipts.pdf", ContentType: "application/pdf", TotalChunks: 4},
		},
		{
			ID: "c2", Title: "books", Description: "library",
			Target: 500, Collected: 0,
			TargetDate: time.Date(2026, 12, 24, 12, 30, 0, 0, time.UTC),
			Status:     models.StatusActive, Owner: "bob",
		},
	}

	require.NoError(t, s.SaveCampaigns(ctx, campaigns))

	loaded, err := s.LoadCampaigns(ctx)
	require.NoError(t, err)
	require.Equal(t, campaigns, loaded)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	old := []models.Campaign{{ID: "c1", Title: "t", Description: "d", Target: 1,
		TargetDate: time.Unix(0, 0).UTC(), Status: models.StatusActive, Owner: "a"}}
	require.NoError(t, s.SaveCampaigns(ctx, old))

	fresh := []models.Campaign{{ID: "c2", Title: "t2", Description: "d2", Target: 2,
		TargetDate: time.Unix(0, 0).UTC(), Status: models.StatusCollected, Owner: "b"}}
	require.NoError(t, s.SaveCampaigns(ctx, fresh))

	loaded, err := s.LoadCampaigns(ctx)
	require.NoError(t, err)
	require.Equal(t, fresh, loaded)
}

func TestDonationSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	donations := []models.Donation{
		{CampaignID: "c1", Donor: "bob", Amount: 100, Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
		{CampaignID: "c1", Donor: "carol", Amount: 50, Timestamp: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, s.SaveDonations(ctx, donations))

	loaded, err := s.LoadDonations(ctx)
	require.NoError(t, err)
	require.Equal(t, donations, loaded)
}

func TestEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	campaigns, err := s.LoadCampaigns(ctx)
	require.NoError(t, err)
	require.Empty(t, campaigns)

	donations, err := s.LoadDonations(ctx)
	require.NoError(t, err)
	require.Empty(t, donations)
}
