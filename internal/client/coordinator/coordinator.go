// Package coordinator drives a campaign's lifecycle against the remote
// ledger service: creation, funding, proof submission, auditor review and
// fund collection. It enforces which operations are legal in which campaign
// status before any remote call is made, and keeps locally cached
// collections fresh through an explicit invalidation contract.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevd/fundkeeper/internal/client/ledger"
	"github.com/avdeevd/fundkeeper/internal/client/models"
	"github.com/avdeevd/fundkeeper/internal/client/session"
	"github.com/avdeevd/fundkeeper/internal/client/transfer"
	"github.com/avdeevd/fundkeeper/internal/common"
	"github.com/avdeevd/fundkeeper/internal/logging"
)

// StakeIncrement is the fixed amount added per stake call.
const StakeIncrement = 500

// SnapshotStore persists the last successfully fetched collections so the
// client has something to show before its first refresh completes. A nil
// store disables persistence.
type SnapshotStore interface {
	SaveCampaigns(ctx context.Context, campaigns []models.Campaign) error
	SaveDonations(ctx context.Context, donations []models.Donation) error
	LoadCampaigns(ctx context.Context) ([]models.Campaign, error)
	LoadDonations(ctx context.Context) ([]models.Donation, error)
}

// Coordinator owns the cached collections and the campaign state machine.
// All exported methods are safe for concurrent use; remote calls are issued
// outside the internal lock so independent operations do not serialize on
// the network.
type Coordinator struct {
	ledger    ledger.Ledger
	transfers *transfer.Service
	store     SnapshotStore
	logger    logging.Logger

	state *state
}

// New returns a coordinator. store may be nil.
func New(l ledger.Ledger, t *transfer.Service, store SnapshotStore, log logging.Logger) *Coordinator {
	return &Coordinator{
		ledger:    l,
		transfers: t,
		store:     store,
		logger:    log.With("module", "coordinator"),
		state:     newState(),
	}
}

// Register creates an account with the identity provider.
func (c *Coordinator) Register(ctx context.Context, handle string, password []byte) error {
	return c.ledger.Register(ctx, handle, password)
}

// SignIn authenticates and installs a fresh session context, then performs
// an initial refresh of every cached collection.
func (c *Coordinator) SignIn(ctx context.Context, handle string, password []byte) error {
	sess, err := c.ledger.Login(ctx, handle, password)
	if err != nil {
		return err
	}
	c.state.setSession(sess)

	if err := c.RefreshAll(ctx); err != nil {
		c.logger.Warn(ctx, "initial refresh failed", "error", err)
	}
	return nil
}

// SignOut replaces the session with the signed-out state. Cached public
// collections are kept; identity-scoped ones are dropped.
func (c *Coordinator) SignOut() {
	c.state.setSession(nil)
	c.state.clearIdentityScoped()
}

// Session returns the current session context (nil when signed out).
func (c *Coordinator) Session() *session.Session {
	return c.state.session()
}

// WarmFromStore loads the persisted snapshot of campaigns and donations so
// lists render before the first remote refresh.
func (c *Coordinator) WarmFromStore(ctx context.Context) {
	if c.store == nil {
		return
	}
	if campaigns, err := c.store.LoadCampaigns(ctx); err == nil && len(campaigns) > 0 {
		c.state.seedCampaigns(campaigns)
	}
	if donations, err := c.store.LoadDonations(ctx); err == nil && len(donations) > 0 {
		c.state.seedMyDonations(donations)
	}
}

// CreateCampaign registers a new campaign owned by the caller.
// Invalidates: campaigns, my campaigns.
func (c *Coordinator) CreateCampaign(ctx context.Context, title, description string, target int64, targetDate time.Time) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return common.ErrNotAuthenticated
	}
	if title == "" || description == "" {
		return fmt.Errorf("%w: title and description are required", common.ErrValidation)
	}
	if target <= 0 {
		return common.ErrInvalidAmount
	}

	if err := c.ledger.CreateCampaign(ctx, sess, title, description, target, targetDate); err != nil {
		return err
	}
	c.refresh(ctx, colCampaigns, colMine)
	return nil
}

// Donate adds amount to an active campaign.
// Invalidates: campaigns, my campaigns, my donations.
func (c *Coordinator) Donate(ctx context.Context, campaignID string, amount int64) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return common.ErrNotAuthenticated
	}
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if err := c.ensureStatus(ctx, campaignID, models.CampaignStatus.CanDonate); err != nil {
		return err
	}

	if err := c.ledger.Donate(ctx, sess, campaignID, amount); err != nil {
		return err
	}
	c.refresh(ctx, colCampaigns, colMine, colMyDonations)
	return nil
}

// SubmitProof uploads a proof-of-usage file for a campaign the caller owns.
// The status transition to pending_review is a side effect of the service
// observing the completed upload, not asserted here.
// Invalidates: campaigns, my campaigns, pending reviews.
func (c *Coordinator) SubmitProof(ctx context.Context, campaignID, name, contentType string, payload []byte) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return common.ErrNotAuthenticated
	}
	if err := c.ensureOwner(campaignID, sess.Handle()); err != nil {
		return err
	}
	// re-upload is allowed while the previous proof awaits review
	submitable := func(s models.CampaignStatus) bool {
		return s == models.StatusActive || s == models.StatusPendingReview
	}
	if err := c.ensureStatus(ctx, campaignID, submitable); err != nil {
		return err
	}

	if err := c.transfers.Upload(ctx, sess, campaignID, name, contentType, payload); err != nil {
		return err
	}
	c.refresh(ctx, colCampaigns, colMine, colPending)
	return nil
}

// DownloadProof fetches and reconstructs a campaign's proof file.
func (c *Coordinator) DownloadProof(ctx context.Context, campaignID string) (*transfer.File, error) {
	return c.transfers.Download(ctx, campaignID)
}

// DeleteProof removes the caller's proof file from a campaign.
// Invalidates: campaigns, my campaigns, pending reviews.
func (c *Coordinator) DeleteProof(ctx context.Context, campaignID string) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return common.ErrNotAuthenticated
	}
	if err := c.ensureOwner(campaignID, sess.Handle()); err != nil {
		return err
	}

	campaign, ok := c.state.findCampaign(campaignID)
	if !ok || campaign.Proof == nil {
		return fmt.Errorf("%w: no proof submitted", common.ErrNotFound)
	}

	if err := c.transfers.Delete(ctx, sess, campaignID, campaign.Proof.Name); err != nil {
		return err
	}
	c.refresh(ctx, colCampaigns, colMine, colPending)
	return nil
}

// Stake increases the caller's auditor stake by the fixed increment.
// Staking is a side channel: it changes no campaign's status.
// Invalidates: stake.
func (c *Coordinator) Stake(ctx context.Context) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return common.ErrNotAuthenticated
	}

	if err := c.ledger.StakeAsAuditor(ctx, sess, StakeIncrement); err != nil {
		return err
	}
	c.refresh(ctx, colStake)
	return nil
}

// Decide records an auditor decision on a pending campaign. A zero-stake
// caller is rejected locally; the call is never sent to the service.
// Approval releases the campaign, rejection returns it to active.
// Invalidates: campaigns, pending reviews, released.
func (c *Coordinator) Decide(ctx context.Context, campaignID string, approve bool) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return common.ErrNotAuthenticated
	}

	if c.state.stake() == 0 {
		// the cached stake may predate a stake call from another client
		if err := c.refreshStake(ctx); err != nil {
			return err
		}
		if c.state.stake() == 0 {
			return common.ErrStakeRequired
		}
	}

	if campaign, ok := c.state.findCampaign(campaignID); ok && campaign.Owner == sess.Handle() {
		return fmt.Errorf("%w: cannot review own campaign", common.ErrUnauthorized)
	}
	if err := c.ensureStatus(ctx, campaignID, models.CampaignStatus.CanDecide); err != nil {
		return err
	}

	if err := c.ledger.ReleaseDecision(ctx, sess, campaignID, approve); err != nil {
		return err
	}
	c.refresh(ctx, colCampaigns, colPending, colReleased)
	return nil
}

// Collect transfers a released campaign's funds to its owner.
// Invalidates: campaigns, my campaigns, released.
func (c *Coordinator) Collect(ctx context.Context, campaignID string) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return common.ErrNotAuthenticated
	}
	if err := c.ensureOwner(campaignID, sess.Handle()); err != nil {
		return err
	}
	if err := c.ensureStatus(ctx, campaignID, models.CampaignStatus.CanCollect); err != nil {
		return err
	}

	if err := c.ledger.CollectFund(ctx, sess, campaignID); err != nil {
		return err
	}
	c.refresh(ctx, colCampaigns, colMine, colReleased)
	return nil
}

// CampaignDonations returns a campaign's donations, fetching them from the
// service and caching the result for subsequent page renders.
func (c *Coordinator) CampaignDonations(ctx context.Context, campaignID string) ([]models.Donation, error) {
	token := c.state.issueToken(colDonationsFor(campaignID))
	donations, err := c.ledger.DonationsByCampaign(ctx, campaignID)
	if err != nil {
		return c.state.campaignDonations(campaignID), err
	}
	c.state.applyCampaignDonations(campaignID, donations, token)
	return c.state.campaignDonations(campaignID), nil
}

// Campaigns returns the cached full campaign list.
func (c *Coordinator) Campaigns() []models.Campaign { return c.state.campaigns() }

// MyCampaigns returns the cached campaigns owned by the caller.
func (c *Coordinator) MyCampaigns() []models.Campaign { return c.state.mine() }

// ReviewableCampaigns returns pending-review campaigns the caller may
// legally decide on: the caller's own campaigns are filtered out before
// display so a self-review can never be attempted.
func (c *Coordinator) ReviewableCampaigns() []models.Campaign {
	handle := c.state.session().Handle()
	var out []models.Campaign
	for _, campaign := range c.state.pending() {
		if campaign.Owner != handle {
			out = append(out, campaign)
		}
	}
	return out
}

// MyDonations returns the cached donations made by the caller.
func (c *Coordinator) MyDonations() []models.Donation { return c.state.myDonations() }

// StakeAmount returns the caller's cached auditor stake.
func (c *Coordinator) StakeAmount() int64 { return c.state.stake() }

// ReleasedCampaignIDs returns ids of the caller's campaigns whose funds are
// ready to collect.
func (c *Coordinator) ReleasedCampaignIDs() []string { return c.state.released() }

// ensureOwner rejects an operation early when the locally known campaign is
// owned by someone else. An unknown campaign passes; the service is the
// final authority.
func (c *Coordinator) ensureOwner(campaignID, handle string) error {
	if campaign, ok := c.state.findCampaign(campaignID); ok && campaign.Owner != handle {
		return common.ErrUnauthorized
	}
	return nil
}

// ensureStatus verifies the operation is legal in the campaign's current
// status. When the locally cached status says it is not, the coordinator
// re-fetches once to rule out staleness before reporting a state error.
func (c *Coordinator) ensureStatus(ctx context.Context, campaignID string, legal func(models.CampaignStatus) bool) error {
	campaign, ok := c.state.findCampaign(campaignID)
	if !ok || legal(campaign.Status) {
		return nil
	}

	if err := c.refreshCampaigns(ctx); err != nil {
		return err
	}
	campaign, ok = c.state.findCampaign(campaignID)
	if ok && !legal(campaign.Status) {
		return fmt.Errorf("%w: campaign is %s", common.ErrWrongState, campaign.Status)
	}
	return nil
}

// refresh re-fetches the named collections. Failures are logged, not
// returned: the mutation that triggered the refresh already succeeded and
// the caches self-heal on the next successful refresh.
func (c *Coordinator) refresh(ctx context.Context, cols ...collection) {
	for _, col := range cols {
		if err := c.refreshOne(ctx, col); err != nil {
			c.logger.Warn(ctx, "refresh failed", "collection", string(col), "error", err)
		}
	}
}

// RefreshAll re-fetches every cached collection once.
func (c *Coordinator) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, col := range allCollections {
		if err := c.refreshOne(ctx, col); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", string(col), err))
		}
	}
	return errors.Join(errs...)
}

func (c *Coordinator) refreshOne(ctx context.Context, col collection) error {
	switch col {
	case colCampaigns:
		return c.refreshCampaigns(ctx)
	case colMine:
		return c.refreshMine(ctx)
	case colPending:
		return c.refreshPending(ctx)
	case colMyDonations:
		return c.refreshMyDonations(ctx)
	case colStake:
		return c.refreshStake(ctx)
	case colReleased:
		return c.refreshReleased(ctx)
	}
	return nil
}

func (c *Coordinator) refreshCampaigns(ctx context.Context) error {
	token := c.state.issueToken(colCampaigns)
	campaigns, err := c.ledger.Campaigns(ctx)
	if err != nil {
		return err
	}
	if c.state.applyCampaigns(campaigns, token) && c.store != nil {
		if err := c.store.SaveCampaigns(ctx, campaigns); err != nil {
			c.logger.Warn(ctx, "snapshot save failed", "error", err)
		}
	}
	return nil
}

func (c *Coordinator) refreshMine(ctx context.Context) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return nil
	}
	token := c.state.issueToken(colMine)
	campaigns, err := c.ledger.CampaignsByOwner(ctx, sess)
	if err != nil {
		return err
	}
	c.state.applyMine(campaigns, token)
	return nil
}

func (c *Coordinator) refreshPending(ctx context.Context) error {
	token := c.state.issueToken(colPending)
	campaigns, err := c.ledger.PendingReviewCampaigns(ctx)
	if err != nil {
		return err
	}
	c.state.applyPending(campaigns, token)
	return nil
}

func (c *Coordinator) refreshMyDonations(ctx context.Context) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return nil
	}
	token := c.state.issueToken(colMyDonations)
	donations, err := c.ledger.DonationsByDonor(ctx, sess)
	if err != nil {
		return err
	}
	if c.state.applyMyDonations(donations, token) && c.store != nil {
		if err := c.store.SaveDonations(ctx, donations); err != nil {
			c.logger.Warn(ctx, "snapshot save failed", "error", err)
		}
	}
	return nil
}

func (c *Coordinator) refreshStake(ctx context.Context) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return nil
	}
	token := c.state.issueToken(colStake)
	amount, err := c.ledger.MyStake(ctx, sess)
	if err != nil {
		return err
	}
	c.state.applyStake(amount, token)
	return nil
}

func (c *Coordinator) refreshReleased(ctx context.Context) error {
	sess := c.state.session()
	if !sess.Authenticated() {
		return nil
	}
	token := c.state.issueToken(colReleased)
	ids, err := c.ledger.ReleasedCampaigns(ctx, sess)
	if err != nil {
		return err
	}
	c.state.applyReleased(ids, token)
	return nil
}
