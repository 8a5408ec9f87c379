// Package repository defines persistent storage for the ledger server and
// its in-memory and PostgreSQL implementations.
package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("already exists")
	// ErrWrongState is returned by TransitionStatus when the campaign is
	// not in the expected source status.
	ErrWrongState = errors.New("wrong campaign state")
)

// User is an account record. Stake is the cumulative auditor stake.
type User struct {
	ID           string
	Handle       string
	PasswordHash string
	Stake        int64
	CreatedAt    time.Time
}

// Campaign is a campaign record. Collected is maintained by AddDonation.
type Campaign struct {
	ID          string
	Title       string
	Description string
	Target      int64
	Collected   int64
	TargetDate  time.Time
	Status      string
	Owner       string
}

// Donation is an immutable donation record.
type Donation struct {
	CampaignID string
	Donor      string
	Amount     int64
	CreatedAt  time.Time
}

// Proof is a committed proof file stored as its original chunk sequence.
type Proof struct {
	Name        string
	ContentType string
	Chunks      [][]byte
}

// Repository is the storage surface of the ledger service. Implementations
// must make TransitionStatus atomic: the update happens only if the campaign
// is currently in the `from` status.
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	UserByHandle(ctx context.Context, handle string) (*User, error)
	AddStake(ctx context.Context, handle string, amount int64) error

	CreateCampaign(ctx context.Context, c *Campaign) error
	Campaign(ctx context.Context, id string) (*Campaign, error)
	Campaigns(ctx context.Context) ([]Campaign, error)
	CampaignsByOwner(ctx context.Context, owner string) ([]Campaign, error)
	CampaignsByStatus(ctx context.Context, status string) ([]Campaign, error)
	TransitionStatus(ctx context.Context, id, from, to string) error

	AddDonation(ctx context.Context, d *Donation) error
	DonationsByCampaign(ctx context.Context, campaignID string) ([]Donation, error)
	DonationsByDonor(ctx context.Context, donor string) ([]Donation, error)

	SetProof(ctx context.Context, campaignID string, p *Proof) error
	Proof(ctx context.Context, campaignID string) (*Proof, error)
	ProofChunk(ctx context.Context, campaignID string, index int) ([]byte, error)
	DeleteProof(ctx context.Context, campaignID string) error

	Close() error
}
