package pubsub

import (
	"context"

	"prediction_webapp/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// Channel is the single cross-service notification channel.
const Channel = "message"

// Publisher pushes notification envelopes onto the transport. Every
// service mutation that must reach live connections goes through here.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb, channel: Channel}
}

func (p *Publisher) Publish(ctx context.Context, env *domain.NotificationEnvelope) error {
	data, err := domain.EncodeEnvelope(env)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, data).Err()
}
