package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avdeevd/fundkeeper/internal/server/repository"
	"github.com/go-chi/chi/v5"
)

type credentialsRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type proofJSON struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	TotalChunks int    `json:"total_chunks"`
}

type campaignJSON struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Target      int64      `json:"target"`
	Collected   int64      `json:"collected"`
	TargetDate  time.Time  `json:"target_date"`
	Status      string     `json:"status"`
	Owner       string     `json:"owner"`
	Proof       *proofJSON `json:"proof,omitempty"`
}

type donationJSON struct {
	CampaignID string    `json:"campaign_id"`
	Donor      string    `json:"donor"`
	Amount     int64     `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *Server) toCampaignJSON(r *http.Request, c repository.Campaign) campaignJSON {
	out := campaignJSON{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Target:      c.Target,
		Collected:   c.Collected,
		TargetDate:  c.TargetDate,
		Status:      c.Status,
		Owner:       c.Owner,
	}
	if p, found, err := s.ledger.ProofInfo(r.Context(), c.ID); err == nil && found {
		out.Proof = &proofJSON{Name: p.Name, ContentType: p.ContentType, TotalChunks: len(p.Chunks)}
	}
	return out
}

func (s *Server) writeCampaignList(w http.ResponseWriter, r *http.Request, campaigns []repository.Campaign, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]campaignJSON, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, s.toCampaignJSON(r, c))
	}
	writeJSON(w, http.StatusOK, out)
}

func writeDonationList(w http.ResponseWriter, donations []repository.Donation, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]donationJSON, 0, len(donations))
	for _, d := range donations {
		out = append(out, donationJSON{
			CampaignID: d.CampaignID, Donor: d.Donor, Amount: d.Amount, Timestamp: d.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.ledger.Register(r.Context(), req.Handle, []byte(req.Password)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, err := s.ledger.Login(r.Context(), req.Handle, []byte(req.Password))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "handle": req.Handle})
}

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.ledger.Campaigns(r.Context())
	s.writeCampaignList(w, r, campaigns, err)
}

func (s *Server) handleMyCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.ledger.CampaignsByOwner(r.Context(), handleFrom(r.Context()))
	s.writeCampaignList(w, r, campaigns, err)
}

func (s *Server) handlePendingCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.ledger.PendingCampaigns(r.Context())
	s.writeCampaignList(w, r, campaigns, err)
}

func (s *Server) handleReleased(w http.ResponseWriter, r *http.Request) {
	ids, err := s.ledger.ReleasedIDs(r.Context(), handleFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Target      int64     `json:"target"`
		TargetDate  time.Time `json:"target_date"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := s.ledger.CreateCampaign(r.Context(), handleFrom(r.Context()),
		req.Title, req.Description, req.Target, req.TargetDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toCampaignJSON(r, *c))
}

func (s *Server) handleDonate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.ledger.Donate(r.Context(), handleFrom(r.Context()), chi.URLParam(r, "id"), req.Amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCampaignDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := s.ledger.DonationsByCampaign(r.Context(), chi.URLParam(r, "id"))
	writeDonationList(w, donations, err)
}

func (s *Server) handleMyDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := s.ledger.DonationsByDonor(r.Context(), handleFrom(r.Context()))
	writeDonationList(w, donations, err)
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Approve bool `json:"approve"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.ledger.Decide(r.Context(), handleFrom(r.Context()), chi.URLParam(r, "id"), req.Approve); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Collect(r.Context(), handleFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	amount, err := s.ledger.Stake(r.Context(), handleFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"amount": amount})
}

func (s *Server) handleAddStake(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.ledger.AddStake(r.Context(), handleFrom(r.Context()), req.Amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUploadChunk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		ContentType string `json:"content_type"`
		Index       int    `json:"index"`
		Total       int    `json:"total"`
		Data        []byte `json:"data"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := s.ledger.UploadChunk(r.Context(), handleFrom(r.Context()), chi.URLParam(r, "id"),
		req.Name, req.ContentType, req.Index, req.Total, req.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleProofInfo(w http.ResponseWriter, r *http.Request) {
	p, found, err := s.ledger.ProofInfo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeErrorStatus(w, http.StatusNotFound, "no proof submitted")
		return
	}
	writeJSON(w, http.StatusOK, proofJSON{Name: p.Name, ContentType: p.ContentType, TotalChunks: len(p.Chunks)})
}

func (s *Server) handleProofChunk(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "bad chunk index")
		return
	}
	data, err := s.ledger.ProofChunk(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteProof(w http.ResponseWriter, r *http.Request) {
	err := s.ledger.DeleteProof(r.Context(), handleFrom(r.Context()),
		chi.URLParam(r, "id"), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
