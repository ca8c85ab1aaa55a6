package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus publishes events on a redis channel and delivers what it
// receives to a local sink, so every instance sees every event.
type RedisBus struct {
	rdb        redis.UniversalClient
	channel    string
	sink       Sink
	instanceID string
	logger     *zap.Logger
}

func NewRedisBus(rdb redis.UniversalClient, sink Sink, logger *zap.Logger) *RedisBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBus{
		rdb:        rdb,
		channel:    Channel,
		sink:       sink,
		instanceID: uuid.New().String()[:8],
		logger:     logger,
	}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	ev.InstanceID = b.instanceID
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.rdb.Publish(ctx, b.channel, data).Err()
}

// Subscribe delivers events until ctx is done. ready, if not nil, is
// closed once the subscription is active.
func (b *RedisBus) Subscribe(ctx context.Context, ready chan<- struct{}) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	if ready != nil {
		close(ready)
	}
	ch := sub.Channel()
	b.logger.Info("subscribed to events", zap.String("channel", b.channel), zap.String("instance", b.instanceID))

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("failed to unmarshal event", zap.Error(err))
				continue
			}
			b.sink.Deliver(ev)
		}
	}
}
