package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store consumes client-supplied idempotency keys with SetNX: the first
// caller of a key within the TTL wins, later callers see it as spent.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf("idem:%s", key), "1", s.ttl).Result()
	if err != nil {
		return false, err
	}

	return !ok, nil
}
