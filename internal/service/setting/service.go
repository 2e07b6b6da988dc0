package setting

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/repository"
)

// Service is a read-through view of the host settings table. Keys follow the
// host's namespacing: usersettings.<userId>.<name>, companysettings.<name>.
type Service interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetOr(ctx context.Context, fallback string, keys ...string) string
	Set(ctx context.Context, key, value string) error
}

type service struct {
	repo  repository.SettingRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewService(repo repository.SettingRepository, redis *redis.Client, ttl time.Duration) Service {
	return &service{repo: repo, redis: redis, ttl: ttl}
}

func UserKey(userID int64, name string) string {
	return fmt.Sprintf("usersettings.%d.%s", userID, name)
}

func CompanyKey(name string) string {
	return "companysettings." + name
}

func cacheKey(key string) string { return "settings:" + key }

func (s *service) Get(ctx context.Context, key string) (string, bool, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey(key)).Result(); err == nil {
			return cached, cached != "", nil
		}
	}

	value, found, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", false, err
	}

	if s.redis != nil {
		// Unset keys are cached as "" so fallbacks do not hit the database.
		if err := s.redis.Set(ctx, cacheKey(key), value, s.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache setting")
		}
	}
	return value, found && value != "", nil
}

// GetOr returns the first non-empty value among keys, else fallback. Lookup
// errors count as "unset".
func (s *service) GetOr(ctx context.Context, fallback string, keys ...string) string {
	for _, key := range keys {
		value, found, err := s.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("setting lookup failed")
			continue
		}
		if found {
			return value
		}
	}
	return fallback
}

func (s *service) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Del(ctx, cacheKey(key)).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to invalidate cached setting")
		}
	}
	return nil
}
