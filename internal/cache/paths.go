package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hetulpatel/urbantransit/internal/hashutil"
)

const defaultPrefix = "transit_path"

// PathRecord is a cached shortest path between two stops.
type PathRecord struct {
	StopIDs    []int     `json:"stops"`
	DistanceKm float64   `json:"distance_km"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PathCache stores planned paths so repeated queries skip the graph build.
type PathCache interface {
	Get(ctx context.Context, from, to int) (*PathRecord, bool, error)
	Set(ctx context.Context, from, to int, record PathRecord) error
	Purge(ctx context.Context) (int, error)
	Close() error
}

type redisPathCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// PrefixFor scopes cached paths to one database file, so two databases
// sharing a Redis never answer for each other.
func PrefixFor(dbPath string) string {
	return defaultPrefix + ":" + hashutil.HashStrings(dbPath)[:12]
}

// NewRedisPathCache builds a cache keyed by "<prefix>:<from>:<to>".
func NewRedisPathCache(addr, password string, db int, ttl time.Duration, prefix string) (PathCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return newRedisPathCache(client, ttl, prefix), nil
}

func newRedisPathCache(client *redis.Client, ttl time.Duration, prefix string) *redisPathCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &redisPathCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *redisPathCache) key(from, to int) string {
	return fmt.Sprintf("%s:%d:%d", c.prefix, from, to)
}

func (c *redisPathCache) Get(ctx context.Context, from, to int) (*PathRecord, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(from, to)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var record PathRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

func (c *redisPathCache) Set(ctx context.Context, from, to int, record PathRecord) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(from, to), payload, c.ttl).Err()
}

// Purge deletes every cached path and reports how many keys went away.
func (c *redisPathCache) Purge(ctx context.Context) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+":*", 100).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (c *redisPathCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
