package repository

import (
	"context"
	"sync"
)

// MemoryRepository is a mutex-guarded in-memory Repository used for
// development and tests. Data does not survive a restart.
type MemoryRepository struct {
	mu        sync.RWMutex
	users     map[string]*User
	campaigns map[string]*Campaign
	order     []string
	donations []Donation
	proofs    map[string]*Proof
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:     make(map[string]*User),
		campaigns: make(map[string]*Campaign),
		proofs:    make(map[string]*Proof),
	}
}

func (r *MemoryRepository) CreateUser(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Handle]; ok {
		return ErrDuplicate
	}
	cp := *u
	r.users[u.Handle] = &cp
	return nil
}

func (r *MemoryRepository) UserByHandle(ctx context.Context, handle string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[handle]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) AddStake(ctx context.Context, handle string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[handle]
	if !ok {
		return ErrNotFound
	}
	u.Stake += amount
	return nil
}

func (r *MemoryRepository) CreateCampaign(ctx context.Context, c *Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[c.ID]; ok {
		return ErrDuplicate
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	r.order = append(r.order, c.ID)
	return nil
}

func (r *MemoryRepository) Campaign(ctx context.Context, id string) (*Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) list(filter func(*Campaign) bool) []Campaign {
	var out []Campaign
	for _, id := range r.order {
		if c := r.campaigns[id]; filter(c) {
			out = append(out, *c)
		}
	}
	return out
}

func (r *MemoryRepository) Campaigns(ctx context.Context) ([]Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(*Campaign) bool { return true }), nil
}

func (r *MemoryRepository) CampaignsByOwner(ctx context.Context, owner string) ([]Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(c *Campaign) bool { return c.Owner == owner }), nil
}

func (r *MemoryRepository) CampaignsByStatus(ctx context.Context, status string) ([]Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(c *Campaign) bool { return c.Status == status }), nil
}

func (r *MemoryRepository) TransitionStatus(ctx context.Context, id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return ErrNotFound
	}
	if c.Status != from {
		return ErrWrongState
	}
	c.Status = to
	return nil
}

func (r *MemoryRepository) AddDonation(ctx context.Context, d *Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[d.CampaignID]
	if !ok {
		return ErrNotFound
	}
	c.Collected += d.Amount
	r.donations = append(r.donations, *d)
	return nil
}

func (r *MemoryRepository) DonationsByCampaign(ctx context.Context, campaignID string) ([]Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Donation
	for _, d := range r.donations {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *MemoryRepository) DonationsByDonor(ctx context.Context, donor string) ([]Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Donation
	for _, d := range r.donations {
		if d.Donor == donor {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *MemoryRepository) SetProof(ctx context.Context, campaignID string, p *Proof) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[campaignID]; !ok {
		return ErrNotFound
	}
	chunks := make([][]byte, len(p.Chunks))
	for i, chunk := range p.Chunks {
		chunks[i] = append([]byte(nil), chunk...)
	}
	r.proofs[campaignID] = &Proof{Name: p.Name, ContentType: p.ContentType, Chunks: chunks}
	return nil
}

func (r *MemoryRepository) Proof(ctx context.Context, campaignID string) (*Proof, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.proofs[campaignID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepository) ProofChunk(ctx context.Context, campaignID string, index int) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.proofs[campaignID]
	if !ok || index < 0 || index >= len(p.Chunks) {
		return nil, ErrNotFound
	}
	return p.Chunks[index], nil
}

func (r *MemoryRepository) DeleteProof(ctx context.Context, campaignID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.proofs[campaignID]; !ok {
		return ErrNotFound
	}
	delete(r.proofs, campaignID)
	return nil
}

func (r *MemoryRepository) Close() error { return nil }
