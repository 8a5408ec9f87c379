package coordinator

import (
	"sync"

	"github.com/avdeevd/fundkeeper/internal/client/models"
	"github.com/avdeevd/fundkeeper/internal/client/session"
)

// collection names a cached collection for the invalidation contract.
type collection string

const (
	colCampaigns   collection = "campaigns"
	colMine        collection = "my_campaigns"
	colPending     collection = "pending_reviews"
	colMyDonations collection = "my_donations"
	colStake       collection = "stake"
	colReleased    collection = "released"
)

var allCollections = []collection{
	colCampaigns, colMine, colPending, colMyDonations, colStake, colReleased,
}

// colDonationsFor names the per-campaign donation list collection.
func colDonationsFor(campaignID string) collection {
	return collection("donations:" + campaignID)
}

// state holds the cached collections behind one mutex. Every refresh draws
// a token before the remote call and presents it when applying the result;
// a result whose token is older than the last applied one is discarded, so
// a slow fetch can never overwrite a newer snapshot.
type state struct {
	mu sync.Mutex

	sess *session.Session

	campaignList   []models.Campaign
	mineList       []models.Campaign
	pendingList    []models.Campaign
	myDonationList []models.Donation
	donations      map[string][]models.Donation
	stakeAmount    int64
	releasedIDs    []string

	issued  map[collection]uint64
	applied map[collection]uint64
}

func newState() *state {
	return &state{
		donations: make(map[string][]models.Donation),
		issued:    make(map[collection]uint64),
		applied:   make(map[collection]uint64),
	}
}

func (s *state) setSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
}

func (s *state) session() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// clearIdentityScoped drops collections tied to the signed-out identity.
func (s *state) clearIdentityScoped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mineList = nil
	s.myDonationList = nil
	s.stakeAmount = 0
	s.releasedIDs = nil
}

func (s *state) issueToken(col collection) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[col]++
	return s.issued[col]
}

// admit reports whether a result fetched under token may be applied and, if
// so, records it as the newest applied snapshot. Callers hold s.mu.
func (s *state) admit(col collection, token uint64) bool {
	if token <= s.applied[col] {
		return false
	}
	s.applied[col] = token
	return true
}

func (s *state) applyCampaigns(campaigns []models.Campaign, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(colCampaigns, token) {
		return false
	}
	s.campaignList = campaigns
	return true
}

func (s *state) applyMine(campaigns []models.Campaign, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(colMine, token) {
		return false
	}
	s.mineList = campaigns
	return true
}

func (s *state) applyPending(campaigns []models.Campaign, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(colPending, token) {
		return false
	}
	s.pendingList = campaigns
	return true
}

func (s *state) applyMyDonations(donations []models.Donation, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(colMyDonations, token) {
		return false
	}
	s.myDonationList = donations
	return true
}

func (s *state) applyCampaignDonations(campaignID string, donations []models.Donation, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(colDonationsFor(campaignID), token) {
		return false
	}
	s.donations[campaignID] = donations
	return true
}

func (s *state) applyStake(amount int64, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(colStake, token) {
		return false
	}
	s.stakeAmount = amount
	return true
}

func (s *state) applyReleased(ids []string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admit(colReleased, token) {
		return false
	}
	s.releasedIDs = ids
	return true
}

// seedCampaigns installs a persisted snapshot without consuming a token, so
// the first remote refresh always wins over it.
func (s *state) seedCampaigns(campaigns []models.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied[colCampaigns] == 0 {
		s.campaignList = campaigns
	}
}

func (s *state) seedMyDonations(donations []models.Donation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied[colMyDonations] == 0 {
		s.myDonationList = donations
	}
}

func (s *state) campaigns() []models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.campaignList
}

func (s *state) mine() []models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mineList
}

func (s *state) pending() []models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingList
}

func (s *state) myDonations() []models.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.myDonationList
}

func (s *state) campaignDonations(campaignID string) []models.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.donations[campaignID]
}

func (s *state) stake() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stakeAmount
}

func (s *state) released() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releasedIDs
}

// findCampaign looks a campaign up across every cached list, preferring the
// full list since it is refreshed most often.
func (s *state) findCampaign(id string) (models.Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range [][]models.Campaign{s.campaignList, s.mineList, s.pendingList} {
		for _, campaign := range list {
			if campaign.ID == id {
				return campaign, true
			}
		}
	}
	return models.Campaign{}, false
}
