package driven

import (
	"context"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

// DeliveryStore is the driven port for the webhook delivery audit log.
type DeliveryStore interface {
	// Record persists one delivery outcome.
	Record(ctx context.Context, d model.Delivery) error

	// ListRecent returns the most recent deliveries, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Delivery, error)
}
