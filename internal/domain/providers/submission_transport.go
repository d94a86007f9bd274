package providers

import (
	"context"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

// SubmissionTransport delivers a validated form to whoever follows up with
// the visitor. A nil error means the submission was accepted.
type SubmissionTransport interface {
	Submit(ctx context.Context, submission *entities.Submission) error

	// Name identifies the transport in logs and metrics
	Name() string
}
