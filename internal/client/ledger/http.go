package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avdeevd/fundkeeper/internal/client/models"
	"github.com/avdeevd/fundkeeper/internal/client/session"
	"github.com/avdeevd/fundkeeper/internal/common"
)

const apiPrefix = "/api/v1"

// HTTPLedger talks JSON over HTTP to the ledger service. One instance is
// safe for concurrent use; per-call authentication comes from the session
// passed to each method, never from client state.
type HTTPLedger struct {
	baseURL string
	http    *http.Client
}

// NewHTTPLedger returns a ledger client for the given base URL. The timeout
// bounds every remote call; the core adds no extra retry or timeout on top.
func NewHTTPLedger(baseURL string, timeout time.Duration) *HTTPLedger {
	return &HTTPLedger{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{MaxIdleConnsPerHost: 10},
		},
	}
}

func (l *HTTPLedger) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, l.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return common.Remote(fmt.Errorf("decoding response: %w", err))
		}
	}
	return nil
}

// statusError maps an HTTP error response onto the domain error taxonomy.
// Unrecognized statuses surface as remote failures, unclassified.
func statusError(resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	msg := envelope.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if msg == common.ErrInvalidAmount.Error() {
			return common.ErrInvalidAmount
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case http.StatusUnauthorized:
		return common.ErrNotAuthenticated
	case http.StatusForbidden:
		if msg == common.ErrStakeRequired.Error() {
			return common.ErrStakeRequired
		}
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrWrongState
	default:
		return common.Remote(fmt.Errorf("%s: %s", resp.Status, msg))
	}
}

type credentialsRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

func (l *HTTPLedger) Register(ctx context.Context, handle string, password []byte) error {
	return l.do(ctx, http.MethodPost, "/auth/register", "", credentialsRequest{Handle: handle, Password: string(password)}, nil)
}

func (l *HTTPLedger) Login(ctx context.Context, handle string, password []byte) (*session.Session, error) {
	var resp struct {
		Token  string `json:"token"`
		Handle string `json:"handle"`
	}
	if err := l.do(ctx, http.MethodPost, "/auth/login", "", credentialsRequest{Handle: handle, Password: string(password)}, &resp); err != nil {
		return nil, err
	}
	return session.New(resp.Handle, resp.Token), nil
}

type createCampaignRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Target      int64     `json:"target"`
	TargetDate  time.Time `json:"target_date"`
}

func (l *HTTPLedger) CreateCampaign(ctx context.Context, s *session.Session, title, description string, target int64, targetDate time.Time) error {
	req := createCampaignRequest{Title: title, Description: description, Target: target, TargetDate: targetDate}
	return l.do(ctx, http.MethodPost, "/campaigns", s.Token(), req, nil)
}

func (l *HTTPLedger) Donate(ctx context.Context, s *session.Session, campaignID string, amount int64) error {
	req := struct {
		Amount int64 `json:"amount"`
	}{Amount: amount}
	return l.do(ctx, http.MethodPost, "/campaigns/"+campaignID+"/donations", s.Token(), req, nil)
}

func (l *HTTPLedger) CollectFund(ctx context.Context, s *session.Session, campaignID string) error {
	return l.do(ctx, http.MethodPost, "/campaigns/"+campaignID+"/collect", s.Token(), nil, nil)
}

func (l *HTTPLedger) ReleaseDecision(ctx context.Context, s *session.Session, campaignID string, approve bool) error {
	req := struct {
		Approve bool `json:"approve"`
	}{Approve: approve}
	return l.do(ctx, http.MethodPost, "/campaigns/"+campaignID+"/decision", s.Token(), req, nil)
}

func (l *HTTPLedger) Campaigns(ctx context.Context) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := l.do(ctx, http.MethodGet, "/campaigns", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *HTTPLedger) CampaignsByOwner(ctx context.Context, s *session.Session) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := l.do(ctx, http.MethodGet, "/campaigns/mine", s.Token(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *HTTPLedger) PendingReviewCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := l.do(ctx, http.MethodGet, "/campaigns/pending", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *HTTPLedger) DonationsByCampaign(ctx context.Context, campaignID string) ([]models.Donation, error) {
	var out []models.Donation
	if err := l.do(ctx, http.MethodGet, "/campaigns/"+campaignID+"/donations", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *HTTPLedger) DonationsByDonor(ctx context.Context, s *session.Session) ([]models.Donation, error) {
	var out []models.Donation
	if err := l.do(ctx, http.MethodGet, "/donations/mine", s.Token(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *HTTPLedger) ReleasedCampaigns(ctx context.Context, s *session.Session) ([]string, error) {
	var out []string
	if err := l.do(ctx, http.MethodGet, "/campaigns/released", s.Token(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *HTTPLedger) MyStake(ctx context.Context, s *session.Session) (int64, error) {
	var resp struct {
		Amount int64 `json:"amount"`
	}
	if err := l.do(ctx, http.MethodGet, "/stake", s.Token(), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Amount, nil
}

func (l *HTTPLedger) StakeAsAuditor(ctx context.Context, s *session.Session, amount int64) error {
	req := struct {
		Amount int64 `json:"amount"`
	}{Amount: amount}
	return l.do(ctx, http.MethodPost, "/stake", s.Token(), req, nil)
}

type uploadChunkRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	Data        []byte `json:"data"`
}

func (l *HTTPLedger) UploadProofChunk(ctx context.Context, s *session.Session, campaignID, name string, chunk []byte, index, total int, contentType string) error {
	req := uploadChunkRequest{Name: name, ContentType: contentType, Index: index, Total: total, Data: chunk}
	return l.do(ctx, http.MethodPut, "/campaigns/"+campaignID+"/proof/chunks", s.Token(), req, nil)
}

// proofInfo fetches the proof descriptor. A missing descriptor is not an
// error: it means no proof has been submitted.
func (l *HTTPLedger) proofInfo(ctx context.Context, campaignID string) (*models.ProofInfo, error) {
	var info models.ProofInfo
	err := l.do(ctx, http.MethodGet, "/campaigns/"+campaignID+"/proof", "", nil, &info)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

func (l *HTTPLedger) ProofTotalChunks(ctx context.Context, campaignID string) (int, error) {
	info, err := l.proofInfo(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	if info == nil {
		return 0, nil
	}
	return info.TotalChunks, nil
}

func (l *HTTPLedger) ProofContentType(ctx context.Context, campaignID string) (string, error) {
	info, err := l.proofInfo(ctx, campaignID)
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", nil
	}
	return info.ContentType, nil
}

func (l *HTTPLedger) ProofChunk(ctx context.Context, campaignID string, index int) ([]byte, error) {
	path := l.baseURL + apiPrefix + "/campaigns/" + campaignID + "/proof/chunks/" + strconv.Itoa(index)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrChunkNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.Remote(fmt.Errorf("reading chunk %d: %w", index, err))
	}
	return data, nil
}

func (l *HTTPLedger) DeleteProof(ctx context.Context, s *session.Session, campaignID, name string) error {
	return l.do(ctx, http.MethodDelete, "/campaigns/"+campaignID+"/proof?name="+url.QueryEscape(name), s.Token(), nil, nil)
}
