// Package httphandler is the HTTP driving adapter: the Travis webhook
// endpoint plus a small read-only API over the delivery log.
package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/w3c/prbuildbot/internal/domain/model"
	"github.com/w3c/prbuildbot/internal/domain/port/driven"
)

// BuildSyncer is the slice of the application layer the handler needs.
type BuildSyncer interface {
	HandleBuild(ctx context.Context, payload *model.BuildPayload) error
}

// Handler serves the webhook endpoint and the read-only API.
type Handler struct {
	verifier   driven.PayloadVerifier
	sync       BuildSyncer
	deliveries driven.DeliveryStore
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	verifier driven.PayloadVerifier,
	sync BuildSyncer,
	deliveries driven.DeliveryStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		verifier:   verifier,
		sync:       sync,
		deliveries: deliveries,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /prbuildbot/travis", h.TravisWebhook)
	mux.HandleFunc("GET /api/v1/deliveries", h.ListDeliveries)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// TravisWebhook verifies and processes one Travis build notification. The
// payload travels in the "payload" form field; its signature arrives
// base64-encoded in the Signature header. Verification failures are relayed
// with the status the verifier chose; synchronization failures surface the
// collaborator's error text with a 500.
func (h *Handler) TravisWebhook(w http.ResponseWriter, r *http.Request) {
	rawPayload := r.FormValue("payload")
	if rawPayload == "" {
		writeError(w, http.StatusBadRequest, "missing payload form field")
		return
	}

	payload, err := h.verifier.VerifyPayload(r.Context(), rawPayload, r.Header.Get("Signature"))
	if err != nil {
		var verr *driven.VerificationError
		if errors.As(err, &verr) {
			h.logger.Warn("webhook verification failed", "status", verr.Status, "error", err)
			writeError(w, verr.Status, verr.Message)
			return
		}
		h.logger.Error("webhook verification failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.sync.HandleBuild(r.Context(), payload); err != nil {
		h.logger.Error("comment synchronization failed",
			"build_id", payload.ID,
			"pr", payload.PullRequestNumber,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeText(w, http.StatusOK, "OK")
}

// ListDeliveries returns the most recent webhook deliveries, newest first.
// An optional limit query parameter caps the result (default 50, max 500).
func (h *Handler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(parsed, 500)
	}

	deliveries, err := h.deliveries.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list deliveries", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		resp = append(resp, toDeliveryResponse(d))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
