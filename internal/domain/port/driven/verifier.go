package driven

import (
	"context"
	"fmt"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

// VerificationError reports a webhook payload that could not be verified.
// Status is the HTTP status the driving adapter should relay; Message is
// safe to return to the caller.
type VerificationError struct {
	Status  int
	Message string
	Err     error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *VerificationError) Unwrap() error { return e.Err }

// PayloadVerifier is the driven port for CI webhook signature verification.
type PayloadVerifier interface {
	// VerifyPayload checks signature against rawPayload and returns the
	// parsed payload on success. Failures are reported as
	// *VerificationError.
	VerifyPayload(ctx context.Context, rawPayload, signature string) (*model.BuildPayload, error)
}
