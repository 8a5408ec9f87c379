// Package httpapi exposes the ledger service over JSON/HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avdeevd/fundkeeper/internal/common"
	"github.com/avdeevd/fundkeeper/internal/logging"
	"github.com/avdeevd/fundkeeper/internal/server/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	ledger *ledger.Service
	logger logging.Logger
	secret []byte
}

func NewServer(l *ledger.Service, log logging.Logger, secret []byte) *Server {
	return &Server{ledger: l, logger: log.With("module", "httpapi"), secret: secret}
}

// Router builds the chi router with the full API surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(loggingMiddleware(s.logger))
	r.Use(metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/campaigns", s.handleCampaigns)
		r.Get("/campaigns/pending", s.handlePendingCampaigns)
		r.Get("/campaigns/{id}/donations", s.handleCampaignDonations)
		r.Get("/campaigns/{id}/proof", s.handleProofInfo)
		r.Get("/campaigns/{id}/proof/chunks/{index}", s.handleProofChunk)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/campaigns", s.handleCreateCampaign)
			r.Get("/campaigns/mine", s.handleMyCampaigns)
			r.Get("/campaigns/released", s.handleReleased)
			r.Post("/campaigns/{id}/donations", s.handleDonate)
			r.Post("/campaigns/{id}/decision", s.handleDecision)
			r.Post("/campaigns/{id}/collect", s.handleCollect)
			r.Put("/campaigns/{id}/proof/chunks", s.handleUploadChunk)
			r.Delete("/campaigns/{id}/proof", s.handleDeleteProof)
			r.Get("/donations/mine", s.handleMyDonations)
			r.Get("/stake", s.handleStake)
			r.Post("/stake", s.handleAddStake)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps the shared error taxonomy onto HTTP status codes; the
// error message rides in the body so clients can tell apart errors sharing
// a status.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, common.ErrInvalidAmount), errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrStakeRequired):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrWrongState):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	writeErrorStatus(w, status, err.Error())
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}
