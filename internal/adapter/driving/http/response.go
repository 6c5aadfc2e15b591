package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeText writes a plain text response. The webhook endpoint answers
// Travis in plain text, matching what its delivery log displays.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// DeliveryResponse is the JSON representation of a processed webhook delivery.
type DeliveryResponse struct {
	ID         int64  `json:"id"`
	BuildID    int64  `json:"build_id"`
	PRNumber   int    `json:"pr_number"`
	Status     string `json:"status"`
	Detail     string `json:"detail"`
	ReceivedAt string `json:"received_at"`
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status string `json:"status"`
}

// toDeliveryResponse converts a domain Delivery to its JSON representation.
func toDeliveryResponse(d model.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:         d.ID,
		BuildID:    d.BuildID,
		PRNumber:   d.PRNumber,
		Status:     string(d.Status),
		Detail:     d.Detail,
		ReceivedAt: d.ReceivedAt.UTC().Format(time.RFC3339),
	}
}
