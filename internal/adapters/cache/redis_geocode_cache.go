package cache

import (
	"context"
	"errors"
	"fmt"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisGeocodeCache stores query -> coordinate mappings in Redis with an optional TTL.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

func (r *RedisGeocodeCache) Get(ctx context.Context, query string) (_ domain.Coordinate, _ bool, err error) {
	defer obs.Time(ctx, "geocode.redis.Get")(&err)

	if r.Client == nil {
		return domain.Coordinate{}, false, errors.New("geocode cache: redis client is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Coordinate{}, false, nil
	}

	raw, err := r.Client.Get(ctx, redisKeyPrefix+query).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: redis get: %w", err)
	}

	var c domain.Coordinate
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: decode %q: %w", query, err)
	}

	return c, true, nil
}

func (r *RedisGeocodeCache) Put(ctx context.Context, query string, c domain.Coordinate) error {
	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query key")
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode: %w", err)
	}

	if err := r.Client.Set(ctx, redisKeyPrefix+query, payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}

	return nil
}
