package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"didclient/internal/domain"
	"didclient/internal/logging"
)

// DefaultRedisKey is the well-known key the token is kept under.
const DefaultRedisKey = "didclient:token"

// RedisStore keeps the token under a single Redis key so several client
// processes can share one profile.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
	log *slog.Logger
}

// NewRedisStore returns a store on rdb. An empty key selects DefaultRedisKey;
// ttl <= 0 keeps the token until Clear.
func NewRedisStore(rdb redis.UniversalClient, key string, ttl time.Duration, log *slog.Logger) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		rdb: rdb,
		key: key,
		ttl: ttl,
		log: logging.OrDiscard(log).With("store", "redis", "key", key),
	}
}

// Load reads the token. A missing key or an unreachable server reads as absent.
func (s *RedisStore) Load(ctx context.Context) (domain.Token, bool) {
	v, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "credential load failed; treating session as absent",
				"err", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err))
		}
		return "", false
	}
	if v == "" {
		return "", false
	}
	return domain.Token(v), true
}

// Save overwrites the key, last write wins.
func (s *RedisStore) Save(ctx context.Context, token domain.Token) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, s.key, token.String(), ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	s.log.DebugContext(ctx, "credential saved", "token", token)
	return nil
}

// Clear deletes the key; deleting a missing key is not an error.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	s.log.DebugContext(ctx, "credential cleared")
	return nil
}

// Compile-time assertion that RedisStore implements domain.CredentialStore.
var _ domain.CredentialStore = (*RedisStore)(nil)
