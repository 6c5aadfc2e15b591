package model

import "time"

// DeliveryStatus is the outcome of one processed webhook delivery.
type DeliveryStatus string

const (
	// DeliveryCommented means the PR comment was created or updated.
	DeliveryCommented DeliveryStatus = "commented"
	// DeliverySkipped means the delivery required no comment (e.g. not a
	// pull request build, or no jobs with a product).
	DeliverySkipped DeliveryStatus = "skipped"
	// DeliveryFailed means a collaborator call failed and the run aborted.
	DeliveryFailed DeliveryStatus = "failed"
)

// Delivery is the audit record of one processed webhook delivery.
type Delivery struct {
	ID         int64
	BuildID    int64
	PRNumber   int
	Status     DeliveryStatus
	Detail     string
	ReceivedAt time.Time
}
