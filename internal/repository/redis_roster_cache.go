package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/pkg/redis"
)

const (
	rosterKeyPrefix = "roster:"
	rosterTTL       = 5 * time.Minute
)

// RedisRosterCache caches company rosters in Redis as JSON.
type RedisRosterCache struct {
	client *redis.Client
}

// NewRedisRosterCache creates a new RedisRosterCache.
func NewRedisRosterCache(client *redis.Client) *RedisRosterCache {
	return &RedisRosterCache{client: client}
}

func rosterKey(companyID string) string {
	return rosterKeyPrefix + companyID
}

// Get returns the cached roster for a company. The second return value
// reports whether the roster was present in the cache.
func (c *RedisRosterCache) Get(ctx context.Context, companyID string) ([]*domain.Person, bool, error) {
	data, err := c.client.Get(ctx, rosterKey(companyID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read roster cache: %w", err)
	}

	var people []*domain.Person
	if err := json.Unmarshal(data, &people); err != nil {
		// Treat a corrupt entry as a miss so the caller refills it.
		return nil, false, nil
	}
	return people, true, nil
}

// Set stores the roster for a company.
func (c *RedisRosterCache) Set(ctx context.Context, companyID string, people []*domain.Person) error {
	data, err := json.Marshal(people)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := c.client.Set(ctx, rosterKey(companyID), data, rosterTTL).Err(); err != nil {
		return fmt.Errorf("failed to write roster cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached roster for a company.
func (c *RedisRosterCache) Invalidate(ctx context.Context, companyID string) error {
	if err := c.client.Del(ctx, rosterKey(companyID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate roster cache: %w", err)
	}
	return nil
}

// NoopRosterCache is used when Redis is unavailable. Every lookup is a
// miss and writes are discarded.
type NoopRosterCache struct{}

func (NoopRosterCache) Get(ctx context.Context, companyID string) ([]*domain.Person, bool, error) {
	return nil, false, nil
}

func (NoopRosterCache) Set(ctx context.Context, companyID string, people []*domain.Person) error {
	return nil
}

func (NoopRosterCache) Invalidate(ctx context.Context, companyID string) error {
	return nil
}
