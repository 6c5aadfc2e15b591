package sqlite

import (
	"context"
	"fmt"

	"github.com/w3c/prbuildbot/internal/domain/model"
	"github.com/w3c/prbuildbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DeliveryStore = (*DeliveryRepo)(nil)

// DeliveryRepo is the SQLite implementation of the DeliveryStore port.
type DeliveryRepo struct {
	db *DB
}

// NewDeliveryRepo creates a new DeliveryRepo backed by the given DB.
func NewDeliveryRepo(db *DB) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// Record persists one delivery outcome.
func (r *DeliveryRepo) Record(ctx context.Context, d model.Delivery) error {
	const query = `
		INSERT INTO deliveries (build_id, pr_number, status, detail, received_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.Writer.ExecContext(ctx, query,
		d.BuildID, d.PRNumber, string(d.Status), d.Detail, d.ReceivedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert delivery for build %d: %w", d.BuildID, err)
	}

	return nil
}

// ListRecent returns the most recent deliveries, newest first.
func (r *DeliveryRepo) ListRecent(ctx context.Context, limit int) ([]model.Delivery, error) {
	const query = `
		SELECT id, build_id, pr_number, status, detail, received_at
		FROM deliveries
		ORDER BY received_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent deliveries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	deliveries := []model.Delivery{}
	for rows.Next() {
		var d model.Delivery
		var status string
		if err := rows.Scan(&d.ID, &d.BuildID, &d.PRNumber, &status, &d.Detail, &d.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan delivery row: %w", err)
		}
		d.Status = model.DeliveryStatus(status)
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delivery rows: %w", err)
	}

	return deliveries, nil
}
