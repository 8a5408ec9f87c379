// Package ledger implements the server-side campaign ledger: accounts,
// the campaign status state machine, donations, auditor stakes and proof
// file storage. The service is the single authority on state transitions;
// clients only mirror them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avdeevd/fundkeeper/internal/common"
	"github.com/avdeevd/fundkeeper/internal/logging"
	"github.com/avdeevd/fundkeeper/internal/server/auth"
	"github.com/avdeevd/fundkeeper/internal/server/repository"
	"github.com/google/uuid"
)

// Campaign statuses. Kept as strings in storage; the transition table below
// is the only place that changes them.
const (
	StatusActive        = "active"
	StatusPendingReview = "pending_review"
	StatusReleased      = "released"
	StatusCollected     = "collected"
)

// upload is a proof file mid-transfer. Chunks are staged here and committed
// to the repository only when every index has arrived, so a crashed or
// abandoned upload never replaces the previous proof.
type upload struct {
	name        string
	contentType string
	chunks      [][]byte
	received    int
}

type Service struct {
	repo     repository.Repository
	logger   logging.Logger
	secret   []byte
	tokenTTL time.Duration

	mu      sync.Mutex
	staging map[string]*upload
}

func NewService(repo repository.Repository, log logging.Logger, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		logger:   log.With("module", "ledger"),
		secret:   secret,
		tokenTTL: tokenTTL,
		staging:  make(map[string]*upload),
	}
}

// translate maps repository errors onto the shared error taxonomy.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return common.ErrNotFound
	case errors.Is(err, repository.ErrWrongState):
		return common.ErrWrongState
	default:
		return err
	}
}

func (s *Service) Register(ctx context.Context, handle string, password []byte) error {
	if handle == "" || len(password) == 0 {
		return fmt.Errorf("%w: handle and password are required", common.ErrValidation)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := &repository.User{
		ID:           uuid.NewString(),
		Handle:       handle,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: handle already taken", common.ErrValidation)
		}
		return err
	}
	s.logger.Info(ctx, "account registered", "handle", handle)
	return nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, handle string, password []byte) (string, error) {
	u, err := s.repo.UserByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", common.ErrNotAuthenticated
		}
		return "", err
	}
	ok, err := auth.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrNotAuthenticated
	}
	return auth.GenerateToken(handle, s.secret, s.tokenTTL)
}

func (s *Service) CreateCampaign(ctx context.Context, owner, title, description string, target int64, targetDate time.Time) (*repository.Campaign, error) {
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", common.ErrValidation)
	}
	if target <= 0 {
		return nil, common.ErrInvalidAmount
	}
	c := &repository.Campaign{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Target:      target,
		TargetDate:  targetDate,
		Status:      StatusActive,
		Owner:       owner,
	}
	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		return nil, translate(err)
	}
	s.logger.Info(ctx, "campaign created", "id", c.ID, "owner", owner)
	return c, nil
}

func (s *Service) Donate(ctx context.Context, donor, campaignID string, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	c, err := s.repo.Campaign(ctx, campaignID)
	if err != nil {
		return translate(err)
	}
	if c.Status != StatusActive {
		return common.ErrWrongState
	}
	return translate(s.repo.AddDonation(ctx, &repository.Donation{
		CampaignID: campaignID,
		Donor:      donor,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}))
}

// Decide records an auditor verdict on a pending campaign. Approval
// releases the funds, rejection returns the campaign to active for further
// funding; donations are never touched.
func (s *Service) Decide(ctx context.Context, auditor, campaignID string, approve bool) error {
	u, err := s.repo.UserByHandle(ctx, auditor)
	if err != nil {
		return translate(err)
	}
	if u.Stake == 0 {
		return common.ErrStakeRequired
	}
	c, err := s.repo.Campaign(ctx, campaignID)
	if err != nil {
		return translate(err)
	}
	if c.Owner == auditor {
		return fmt.Errorf("%w: cannot review own campaign", common.ErrUnauthorized)
	}
	to := StatusReleased
	if !approve {
		to = StatusActive
	}
	if err := s.repo.TransitionStatus(ctx, campaignID, StatusPendingReview, to); err != nil {
		return translate(err)
	}
	s.logger.Info(ctx, "decision recorded", "campaign", campaignID, "auditor", auditor, "approved", approve)
	return nil
}

func (s *Service) Collect(ctx context.Context, owner, campaignID string) error {
	c, err := s.repo.Campaign(ctx, campaignID)
	if err != nil {
		return translate(err)
	}
	if c.Owner != owner {
		return common.ErrUnauthorized
	}
	if err := s.repo.TransitionStatus(ctx, campaignID, StatusReleased, StatusCollected); err != nil {
		return translate(err)
	}
	s.logger.Info(ctx, "funds collected", "campaign", campaignID, "owner", owner, "amount", c.Collected)
	return nil
}

func (s *Service) Campaigns(ctx context.Context) ([]repository.Campaign, error) {
	return s.repo.Campaigns(ctx)
}

func (s *Service) CampaignsByOwner(ctx context.Context, owner string) ([]repository.Campaign, error) {
	return s.repo.CampaignsByOwner(ctx, owner)
}

func (s *Service) PendingCampaigns(ctx context.Context) ([]repository.Campaign, error) {
	return s.repo.CampaignsByStatus(ctx, StatusPendingReview)
}

// ReleasedIDs lists the owner's campaigns whose funds await collection.
func (s *Service) ReleasedIDs(ctx context.Context, owner string) ([]string, error) {
	campaigns, err := s.repo.CampaignsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, c := range campaigns {
		if c.Status == StatusReleased {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (s *Service) DonationsByCampaign(ctx context.Context, campaignID string) ([]repository.Donation, error) {
	return s.repo.DonationsByCampaign(ctx, campaignID)
}

func (s *Service) DonationsByDonor(ctx context.Context, donor string) ([]repository.Donation, error) {
	return s.repo.DonationsByDonor(ctx, donor)
}

func (s *Service) Stake(ctx context.Context, handle string) (int64, error) {
	u, err := s.repo.UserByHandle(ctx, handle)
	if err != nil {
		return 0, translate(err)
	}
	return u.Stake, nil
}

func (s *Service) AddStake(ctx context.Context, handle string, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return translate(s.repo.AddStake(ctx, handle, amount))
}

// UploadChunk stages one chunk of a proof file. When the last missing index
// arrives the whole file is committed and the campaign moves to
// pending_review. Until then the previously stored proof (if any) stays
// untouched.
func (s *Service) UploadChunk(ctx context.Context, owner, campaignID, name, contentType string, index, total int, data []byte) error {
	if name == "" || total < 1 || index < 0 || index >= total || len(data) == 0 {
		return fmt.Errorf("%w: bad chunk parameters", common.ErrValidation)
	}
	c, err := s.repo.Campaign(ctx, campaignID)
	if err != nil {
		return translate(err)
	}
	if c.Owner != owner {
		return common.ErrUnauthorized
	}
	if c.Status != StatusActive && c.Status != StatusPendingReview {
		return common.ErrWrongState
	}

	s.mu.Lock()
	up := s.staging[campaignID]
	if up == nil || up.name != name || len(up.chunks) != total {
		up = &upload{name: name, contentType: contentType, chunks: make([][]byte, total)}
		s.staging[campaignID] = up
	}
	if up.chunks[index] == nil {
		up.received++
	}
	up.chunks[index] = append([]byte(nil), data...)
	complete := up.received == total
	if complete {
		delete(s.staging, campaignID)
	}
	s.mu.Unlock()

	if !complete {
		return nil
	}

	if err := s.repo.SetProof(ctx, campaignID, &repository.Proof{
		Name:        up.name,
		ContentType: up.contentType,
		Chunks:      up.chunks,
	}); err != nil {
		return translate(err)
	}
	// no-op when a re-upload happens while already pending
	if err := s.repo.TransitionStatus(ctx, campaignID, StatusActive, StatusPendingReview); err != nil &&
		!errors.Is(err, repository.ErrWrongState) {
		return translate(err)
	}
	s.logger.Info(ctx, "proof committed", "campaign", campaignID, "chunks", total)
	return nil
}

// ProofInfo returns the committed proof descriptor, or found=false when the
// campaign has no proof.
func (s *Service) ProofInfo(ctx context.Context, campaignID string) (*repository.Proof, bool, error) {
	if _, err := s.repo.Campaign(ctx, campaignID); err != nil {
		return nil, false, translate(err)
	}
	p, err := s.repo.Proof(ctx, campaignID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Service) ProofChunk(ctx context.Context, campaignID string, index int) ([]byte, error) {
	data, err := s.repo.ProofChunk(ctx, campaignID, index)
	return data, translate(err)
}

// DeleteProof removes a committed proof. The campaign status is left as-is:
// a pending campaign stays pending even without its file.
func (s *Service) DeleteProof(ctx context.Context, owner, campaignID, name string) error {
	c, err := s.repo.Campaign(ctx, campaignID)
	if err != nil {
		return translate(err)
	}
	if c.Owner != owner {
		return common.ErrUnauthorized
	}
	p, err := s.repo.Proof(ctx, campaignID)
	if err != nil {
		return translate(err)
	}
	if name != "" && p.Name != name {
		return common.ErrNotFound
	}
	return translate(s.repo.DeleteProof(ctx, campaignID))
}
