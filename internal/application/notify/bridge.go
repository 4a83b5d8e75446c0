package notify

import (
	"context"
	"sync"

	"clientdir-backend/internal/application/directory"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Bridge subscribes to the change channel for client accounts and fans each
// message out as a coarse invalidation callback. Delivery is at-least-once;
// any change drops the whole cache, so duplicates are harmless.
type Bridge struct {
	Rdb     *redis.Client
	Channel string
}

// NewBridge wires a bridge onto the directory change channel.
func NewBridge(rdb *redis.Client) *Bridge {
	return &Bridge{Rdb: rdb, Channel: directory.ChangeChannel}
}

// Subscribe invokes onInvalidate for every message on the channel until the
// returned unsubscribe func is called. Unsubscribe is idempotent; the consuming
// view must call it exactly once on teardown or the subscription leaks.
func (b *Bridge) Subscribe(onInvalidate func()) func() {
	sub := b.Rdb.Subscribe(context.Background(), b.Channel)
	ch := sub.Channel()

	go func() {
		for range ch {
			onInvalidate()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := sub.Close(); err != nil {
				log.Warn().Err(err).Str("channel", b.Channel).Msg("change-feed unsubscribe failed")
			}
		})
	}
}
