package enquiries

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alexmurray/portfolio-backend/internal/httpx"
	"github.com/alexmurray/portfolio-backend/internal/observability/metrics"
	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

// Notifier dispatches a best-effort notification for a stored enquiry.
// Implementations must not block the caller.
type Notifier interface {
	EnquiryReceived(e *Enquiry)
}

// Handler handles HTTP requests for enquiries
type Handler struct {
	repo     Repository
	stats    StatsSource
	notifier Notifier
	metrics  *metrics.APIMetrics
	logger   *logging.Logger
}

// NewHandler creates a new enquiries handler. stats may differ from
// repo when a cache sits in front; notifier and metrics may be nil.
func NewHandler(repo Repository, stats StatsSource, notifier Notifier, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if stats == nil {
		stats = repo
	}
	return &Handler{
		repo:     repo,
		stats:    stats,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// SubmitResponse is the success payload for POST /api/contact.
type SubmitResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	EnquiryID   string    `json:"enquiryId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// StatsResponse is the payload for GET /api/contact/stats.
type StatsResponse struct {
	Success bool   `json:"success"`
	Data    *Stats `json:"data"`
}

// Submit handles POST /api/contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) error {
	start := time.Now()
	defer func() {
		h.metrics.ObserveLatency("/api/contact", time.Since(start).Seconds())
	}()

	var req SubmitEnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveSubmission("rejected")
		return httpx.Malformed(err)
	}

	e, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			h.metrics.ObserveSubmission("rejected")
		} else {
			h.metrics.ObserveSubmission("failed")
		}
		return err
	}

	h.logger.Info("enquiry received",
		"id", e.ID,
		"name", e.Name,
		"has_email", e.Email != "",
		"has_phone", e.Phone != "",
	)
	h.metrics.ObserveSubmission("accepted")

	// The record is durable; the notification must not affect the response.
	if h.notifier != nil {
		h.notifier.EnquiryReceived(e)
	}

	return httpx.WriteJSON(w, http.StatusCreated, SubmitResponse{
		Success:     true,
		Message:     "Thank you for your enquiry, we will get back to you shortly",
		EnquiryID:   e.ID,
		SubmittedAt: e.SubmittedAt,
	})
}

// GetStats handles GET /api/contact/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) error {
	start := time.Now()
	defer func() {
		h.metrics.ObserveLatency("/api/contact/stats", time.Since(start).Seconds())
	}()

	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		return err
	}

	return httpx.WriteJSON(w, http.StatusOK, StatsResponse{
		Success: true,
		Data:    stats,
	})
}
