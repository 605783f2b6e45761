package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clearcue-backend/internal/models"
	"clearcue-backend/pkg/logger"
)

// EventPublisher delivers WebSocket messages to an owner's listeners.
type EventPublisher interface {
	Publish(ctx context.Context, owner models.Owner, msg models.WSMessage)
}

// UpdatesChannel is the Redis pub/sub channel carrying an owner's events.
func UpdatesChannel(owner models.Owner) string {
	return "owner_updates:" + owner.Key()
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish is best effort; delivery failures are logged only.
func (p *RedisPublisher) Publish(ctx context.Context, owner models.Owner, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("failed to encode event", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	if err := p.rdb.Publish(ctx, UpdatesChannel(owner), data).Err(); err != nil {
		logger.Log.Warn("failed to publish event",
			zap.String("owner", owner.Key()),
			zap.String("type", msg.Type),
			zap.Error(err))
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.Owner, models.WSMessage) {}
