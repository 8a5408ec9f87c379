// Package ledger defines the contract with the remote ledger/settlement
// service and its HTTP implementation. All identity arguments are opaque
// handles carried by a session.Session; the client never generates or
// validates them.
package ledger

import (
	"context"
	"time"

	"github.com/avdeevd/fundkeeper/internal/client/models"
	"github.com/avdeevd/fundkeeper/internal/client/session"
)

// Ledger is the remote operation surface consumed by the coordinator and
// the transfer session. Implementations must honor context cancellation and
// must not retry failed calls.
type Ledger interface {
	// identity provider surface
	Register(ctx context.Context, handle string, password []byte) error
	Login(ctx context.Context, handle string, password []byte) (*session.Session, error)

	// campaign lifecycle
	CreateCampaign(ctx context.Context, s *session.Session, title, description string, target int64, targetDate time.Time) error
	Donate(ctx context.Context, s *session.Session, campaignID string, amount int64) error
	CollectFund(ctx context.Context, s *session.Session, campaignID string) error
	ReleaseDecision(ctx context.Context, s *session.Session, campaignID string, approve bool) error

	// collections
	Campaigns(ctx context.Context) ([]models.Campaign, error)
	CampaignsByOwner(ctx context.Context, s *session.Session) ([]models.Campaign, error)
	PendingReviewCampaigns(ctx context.Context) ([]models.Campaign, error)
	DonationsByCampaign(ctx context.Context, campaignID string) ([]models.Donation, error)
	DonationsByDonor(ctx context.Context, s *session.Session) ([]models.Donation, error)
	ReleasedCampaigns(ctx context.Context, s *session.Session) ([]string, error)

	// auditor stake
	MyStake(ctx context.Context, s *session.Session) (int64, error)
	StakeAsAuditor(ctx context.Context, s *session.Session, amount int64) error

	// proof file chunks
	UploadProofChunk(ctx context.Context, s *session.Session, campaignID, name string, chunk []byte, index, total int, contentType string) error
	ProofTotalChunks(ctx context.Context, campaignID string) (int, error)
	ProofContentType(ctx context.Context, campaignID string) (string, error)
	ProofChunk(ctx context.Context, campaignID string, index int) ([]byte, error)
	DeleteProof(ctx context.Context, s *session.Session, campaignID, name string) error
}
