package common

import (
	"context"
	"fmt"

	"tacticalops/clanhub/internal/logging"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const InvalidationChannel = "clanhub:cache:invalidate"

// InvalidationBus fans a local cache flush out to the other instances sharing
// the same Redis. Each instance ignores its own messages.
type InvalidationBus struct {
	client   redis.UniversalClient
	channel  string
	instance string
}

func NewInvalidationBus(client redis.UniversalClient) *InvalidationBus {
	return &InvalidationBus{
		client:   client,
		channel:  InvalidationChannel,
		instance: uuid.NewString(),
	}
}

func (b *InvalidationBus) Publish(ctx context.Context) error {
	if err := b.client.Publish(ctx, b.channel, b.instance).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Listen calls onFlush for every invalidation published by another instance
// until ctx is cancelled.
func (b *InvalidationBus) Listen(ctx context.Context, onFlush func()) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload == b.instance {
				continue
			}
			logging.Debug("Remote cache invalidation received", "from", msg.Payload)
			onFlush()
		}
	}
}
