package submission

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	redisclient "github.com/zatekoja/premier-landing/backend/internal/infrastructure/clients/redis"
)

// RedisPublisher hands submissions to downstream workers over Redis pub/sub
type RedisPublisher struct {
	client  *redisclient.Client
	channel string
}

// NewRedisPublisher creates a transport publishing on channel
func NewRedisPublisher(client *redisclient.Client, channel string) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
	}
}

// Name implements providers.SubmissionTransport
func (p *RedisPublisher) Name() string {
	return "redis"
}

// Submit implements providers.SubmissionTransport
func (p *RedisPublisher) Submit(ctx context.Context, submission *entities.Submission) error {
	data, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	receivers, err := p.client.Client().Publish(ctx, p.channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish submission: %w", err)
	}

	logger := observability.LoggerFromContext(ctx)
	if receivers == 0 {
		logger.Warn().
			Str("submission_id", submission.ID).
			Str("channel", p.channel).
			Msg("submission published with no subscribers")
	} else {
		logger.Debug().
			Str("submission_id", submission.ID).
			Int64("receivers", receivers).
			Msg("submission published")
	}
	return nil
}
