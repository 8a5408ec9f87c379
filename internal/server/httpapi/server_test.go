package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	clientledger "github.com/avdeevd/fundkeeper/internal/client/ledger"
	"github.com/avdeevd/fundkeeper/internal/client/models"
	"github.com/avdeevd/fundkeeper/internal/client/session"
	"github.com/avdeevd/fundkeeper/internal/common"
	"github.com/avdeevd/fundkeeper/internal/logging"
	"github.com/avdeevd/fundkeeper/internal/server/ledger"
	"github.com/avdeevd/fundkeeper/internal/server/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full stack (chi router, ledger service, memory
// repository) behind httptest and returns the real HTTP client for it, so
// these tests pin down the wire contract from both sides.
func newTestServer(t *testing.T) *clientledger.HTTPLedger {
	t.Helper()
	log := logging.NewJSON()
	secret := []byte("test-secret")
	svc := ledger.NewService(repository.NewMemoryRepository(), log, secret, time.Minute)
	ts := httptest.NewServer(NewServer(svc, log, secret).Router())
	t.Cleanup(ts.Close)
	return clientledger.NewHTTPLedger(ts.URL, 5*time.Second)
}

func login(t *testing.T, l *clientledger.HTTPLedger, handle string) *session.Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, l.Register(ctx, handle, []byte("pw")))
	s, err := l.Login(ctx, handle, []byte("pw"))
	require.NoError(t, err)
	require.Equal(t, handle, s.Handle())
	return s
}

func TestFullLifecycleOverHTTP(t *testing.T) {
	ctx := context.Background()
	l := newTestServer(t)

	alice := login(t, l, "alice")
	bob := login(t, l, "bob")

	require.NoError(t, l.CreateCampaign(ctx, alice, "wells", "clean water", 1000, time.Now().AddDate(0, 1, 0)))

	campaigns, err := l.Campaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	id := campaigns[0].ID
	assert.Equal(t, models.StatusActive, campaigns[0].Status)
	assert.Equal(t, "alice", campaigns[0].Owner)

	require.NoError(t, l.Donate(ctx, bob, id, 700))

	campaigns, err = l.Campaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(700), campaigns[0].Collected)

	donations, err := l.DonationsByDonor(ctx, bob)
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, id, donations[0].CampaignID)

	// proof upload in two chunks
	require.NoError(t, l.UploadProofChunk(ctx, alice, id, "receipts.pdf", []byte("part-one-"), 0, 2, "application/pdf"))
	require.NoError(t, l.UploadProofChunk(ctx, alice, id, "receipts.pdf", []byte("part-two"), 1, 2, "application/pdf"))

	total, err := l.ProofTotalChunks(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	ct, err := l.ProofContentType(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)

	chunk, err := l.ProofChunk(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("part-two"), chunk)

	pending, err := l.PendingReviewCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].Proof)
	assert.Equal(t, "receipts.pdf", pending[0].Proof.Name)

	// bob stakes and approves
	require.NoError(t, l.StakeAsAuditor(ctx, bob, 500))
	stake, err := l.MyStake(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(500), stake)

	require.NoError(t, l.ReleaseDecision(ctx, bob, id, true))

	released, err := l.ReleasedCampaigns(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, released)

	require.NoError(t, l.CollectFund(ctx, alice, id))

	campaigns, err = l.Campaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCollected, campaigns[0].Status)
}

func TestAuthRequired(t *testing.T) {
	ctx := context.Background()
	l := newTestServer(t)

	err := l.CreateCampaign(ctx, nil, "t", "d", 100, time.Now())
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = l.CampaignsByOwner(ctx, session.New("x", "bogus-token"))
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestErrorMapping(t *testing.T) {
	ctx := context.Background()
	l := newTestServer(t)

	alice := login(t, l, "alice")
	bob := login(t, l, "bob")

	require.NoError(t, l.CreateCampaign(ctx, alice, "t", "d", 100, time.Now()))
	campaigns, err := l.Campaigns(ctx)
	require.NoError(t, err)
	id := campaigns[0].ID

	// validation
	assert.ErrorIs(t, l.Donate(ctx, bob, id, -1), common.ErrInvalidAmount)
	assert.ErrorIs(t, l.CreateCampaign(ctx, alice, "", "", 10, time.Now()), common.ErrValidation)

	// wrong state: campaign is not pending
	require.NoError(t, l.StakeAsAuditor(ctx, bob, 500))
	assert.ErrorIs(t, l.ReleaseDecision(ctx, bob, id, true), common.ErrWrongState)

	// stake required
	require.NoError(t, l.UploadProofChunk(ctx, alice, id, "p", []byte("x"), 0, 1, "text/plain"))
	carol := login(t, l, "carol")
	assert.ErrorIs(t, l.ReleaseDecision(ctx, carol, id, true), common.ErrStakeRequired)

	// self-review forbidden
	require.NoError(t, l.StakeAsAuditor(ctx, alice, 500))
	assert.ErrorIs(t, l.ReleaseDecision(ctx, alice, id, true), common.ErrUnauthorized)

	// unknown campaign
	assert.ErrorIs(t, l.Donate(ctx, bob, "00000000-0000-0000-0000-000000000000", 5), common.ErrNotFound)
}

func TestProofAbsence(t *testing.T) {
	ctx := context.Background()
	l := newTestServer(t)

	alice := login(t, l, "alice")
	require.NoError(t, l.CreateCampaign(ctx, alice, "t", "d", 100, time.Now()))
	campaigns, err := l.Campaigns(ctx)
	require.NoError(t, err)
	id := campaigns[0].ID

	total, err := l.ProofTotalChunks(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = l.ProofChunk(ctx, id, 0)
	assert.ErrorIs(t, err, clientledger.ErrChunkNotFound)
}

func TestDeleteProofByName(t *testing.T) {
	ctx := context.Background()
	l := newTestServer(t)

	alice := login(t, l, "alice")
	require.NoError(t, l.CreateCampaign(ctx, alice, "t", "d", 100, time.Now()))
	campaigns, err := l.Campaigns(ctx)
	require.NoError(t, err)
	id := campaigns[0].ID

	require.NoError(t, l.UploadProofChunk(ctx, alice, id, "a b.pdf", []byte("x"), 0, 1, "application/pdf"))

	// wrong name rejected, right name (with a space) accepted
	assert.ErrorIs(t, l.DeleteProof(ctx, alice, id, "other.pdf"), common.ErrNotFound)
	require.NoError(t, l.DeleteProof(ctx, alice, id, "a b.pdf"))

	total, err := l.ProofTotalChunks(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestHealthz(t *testing.T) {
	log := logging.NewJSON()
	svc := ledger.NewService(repository.NewMemoryRepository(), log, []byte("s"), time.Minute)
	ts := httptest.NewServer(NewServer(svc, log, []byte("s")).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
