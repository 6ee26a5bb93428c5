package services

import (
	"context"
	"encoding/json"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/internal/infrastructure/outbox"
	"github.com/fastygo/teamups/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// Broker is the subset of the Redis client used for pushes.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) *redislib.IntCmd
}

// RedisPublisher fans committed notifications out on a per-user Redis channel.
// Pushes that fail, or that happen while Redis is down, go to the outbox.
type RedisPublisher struct {
	broker  Broker
	outbox  *outbox.Store
	monitor ConnectionHealth
	prefix  string
	logger  *zap.Logger
}

func NewRedisPublisher(broker Broker, box *outbox.Store, monitor ConnectionHealth, prefix string, logger *zap.Logger) *RedisPublisher {
	if prefix == "" {
		prefix = "notifications:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{
		broker:  broker,
		outbox:  box,
		monitor: monitor,
		prefix:  prefix,
		logger:  logger,
	}
}

// Channel names the channel userID's client subscribes to.
func (p *RedisPublisher) Channel(userID string) string {
	return p.prefix + userID
}

func (p *RedisPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	if n == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	msg := outbox.Message{ID: n.ID, Channel: p.Channel(n.UserID), Payload: payload}

	if p.monitor == nil || p.monitor.IsOnline() {
		err := p.send(ctx, msg)
		if err == nil || p.outbox == nil {
			return err
		}
		p.logger.Warn("notification push failed, parking in outbox", zap.String("notification_id", n.ID), zap.Error(err))
	}
	if p.outbox == nil {
		return nil
	}
	return p.outbox.Enqueue(msg)
}

func (p *RedisPublisher) send(ctx context.Context, msg outbox.Message) error {
	return p.broker.Publish(ctx, msg.Channel, []byte(msg.Payload)).Err()
}

var _ usecase.Publisher = (*RedisPublisher)(nil)
