package submission

import (
	"fmt"

	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/premier-landing/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/premier-landing/backend/pkg/config"
)

// NewTransport builds the transport named by cfg.Transport. redis may be nil
// unless the redis transport is selected.
func NewTransport(cfg config.SubmissionConfig, redis *redisclient.Client) (providers.SubmissionTransport, error) {
	switch cfg.Transport {
	case "", config.TransportSimulated:
		return NewSimulatedTransport(cfg.SimulatedDelay), nil
	case config.TransportWebhook:
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("webhook transport requires a URL")
		}
		return NewWebhookTransport(cfg.WebhookURL, cfg.WebhookRetries, cfg.Timeout), nil
	case config.TransportRedis:
		if redis == nil {
			return nil, fmt.Errorf("redis transport requires a Redis client")
		}
		return NewRedisPublisher(redis, cfg.Channel), nil
	}
	return nil, fmt.Errorf("unknown submission transport %q", cfg.Transport)
}
