// Package models defines the client-side view of campaigns, donations and
// proof files as returned by the ledger service.
package models

import (
	"fmt"
	"time"
)

// CampaignStatus is the closed set of campaign states. The ledger returns
// statuses as strings; ParseStatus rejects anything outside this set so an
// unknown tag can never flow through the state machine.
type CampaignStatus string

const (
	StatusActive        CampaignStatus = "active"
	StatusPendingReview CampaignStatus = "pending_review"
	StatusReleased      CampaignStatus = "released"
	StatusCollected     CampaignStatus = "collected"
)

// ParseStatus validates a raw status tag from the wire.
func ParseStatus(s string) (CampaignStatus, error) {
	switch st := CampaignStatus(s); st {
	case StatusActive, StatusPendingReview, StatusReleased, StatusCollected:
		return st, nil
	}
	return "", fmt.Errorf("unknown campaign status %q", s)
}

// CanDonate reports whether donations are legal in this status.
func (s CampaignStatus) CanDonate() bool { return s == StatusActive }

// CanSubmitProof reports whether a proof upload is legal in this status.
func (s CampaignStatus) CanSubmitProof() bool { return s == StatusActive }

// CanDecide reports whether an auditor decision is legal in this status.
func (s CampaignStatus) CanDecide() bool { return s == StatusPendingReview }

// CanCollect reports whether the owner may collect funds in this status.
func (s CampaignStatus) CanCollect() bool { return s == StatusReleased }

// Terminal reports whether no further transition can leave this status.
func (s CampaignStatus) Terminal() bool { return s == StatusCollected }

// ProofInfo describes the proof file attached to a campaign. TotalChunks
// covers indices 0..TotalChunks-1; the ledger only exposes a descriptor once
// every chunk of the file is present.
type ProofInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	TotalChunks int    `json:"total_chunks"`
}

// Campaign is a remote campaign record. Collected is maintained entirely by
// the ledger; the client displays it and never computes it.
type Campaign struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Target      int64          `json:"target"`
	Collected   int64          `json:"collected"`
	TargetDate  time.Time      `json:"target_date"`
	Status      CampaignStatus `json:"status"`
	Owner       string         `json:"owner"`
	Proof       *ProofInfo     `json:"proof,omitempty"`
}

// HasProof reports whether a complete proof file is attached.
func (c *Campaign) HasProof() bool { return c.Proof != nil }

// Donation is an immutable donation record, ordered by timestamp within its
// campaign.
type Donation struct {
	CampaignID string    `json:"campaign_id"`
	Donor      string    `json:"donor"`
	Amount     int64     `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}
