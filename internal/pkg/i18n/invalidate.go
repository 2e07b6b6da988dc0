package i18n

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// InvalidationChannel carries cache-clear broadcasts between processes.
const InvalidationChannel = "watchers:locale:invalidate"

// PublishInvalidation asks every subscribed process to drop its tables.
func PublishInvalidation(ctx context.Context, rdb *redis.Client, slug string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Publish(ctx, InvalidationChannel, slug).Err()
}

// Subscribe drops the cache when a broadcast names this store's slug or "*".
// It blocks until ctx is done.
func (s *Store) Subscribe(ctx context.Context, rdb *redis.Client) error {
	sub := rdb.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handleInvalidation(msg.Payload)
		}
	}
}

func (s *Store) handleInvalidation(payload string) {
	if payload != "*" && payload != s.opts.Slug {
		return
	}
	s.Invalidate()
	log.Info().Str("slug", s.opts.Slug).Msg("language cache invalidated by broadcast")
}
