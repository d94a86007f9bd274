package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	"github.com/zatekoja/premier-landing/backend/pkg/retry"
)

const maxErrorBody = 512

// WebhookTransport POSTs each submission as JSON to a fixed URL
type WebhookTransport struct {
	url        string
	httpClient *http.Client
	retry      retry.Config
}

// NewWebhookTransport creates a webhook transport. attempts below 1 means a
// single try.
func NewWebhookTransport(url string, attempts int, timeout time.Duration) *WebhookTransport {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = attempts
	if timeout > 0 {
		cfg.MaxTotalTimeout = timeout
	}
	return &WebhookTransport{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: cfg,
	}
}

// Name implements providers.SubmissionTransport
func (t *WebhookTransport) Name() string {
	return "webhook"
}

// Submit implements providers.SubmissionTransport. Any non-2xx answer is a
// failure; 4xx answers other than 408 and 429 are not retried.
func (t *WebhookTransport) Submit(ctx context.Context, submission *entities.Submission) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	logger := observability.LoggerFromContext(ctx)
	return retry.Do(ctx, t.retry, func(ctx context.Context) error {
		return t.post(ctx, submission.ID, payload)
	}, func(attempt int, err error, next time.Duration) {
		logger.Warn().
			Err(err).
			Str("submission_id", submission.ID).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Msg("webhook delivery failed, retrying")
	})
}

func (t *WebhookTransport) post(ctx context.Context, submissionID string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return &retry.Permanent{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", submissionID)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests {
		return &retry.Permanent{Err: statusErr}
	}
	return statusErr
}
