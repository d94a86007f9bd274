package submission

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
)

// SimulatedTransport waits a fixed delay, logs which fields arrived and
// accepts the submission. Values are never logged.
// It stands in for a real back office during development and demos.
type SimulatedTransport struct {
	delay time.Duration
}

// NewSimulatedTransport creates a simulated transport
func NewSimulatedTransport(delay time.Duration) *SimulatedTransport {
	return &SimulatedTransport{delay: delay}
}

// Name implements providers.SubmissionTransport
func (t *SimulatedTransport) Name() string {
	return "simulated"
}

// Submit implements providers.SubmissionTransport
func (t *SimulatedTransport) Submit(ctx context.Context, submission *entities.Submission) error {
	if t.delay > 0 {
		timer := time.NewTimer(t.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	observability.LoggerFromContext(ctx).Info().
		Str("submission_id", submission.ID).
		Str("type", string(submission.Type)).
		Strs("fields", slices.Sorted(maps.Keys(submission.Data))).
		Int("field_count", len(submission.Data)).
		Msg("form submitted")
	return nil
}
