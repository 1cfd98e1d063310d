package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	trendingKey  = "notes:trending"
	viewsKey     = "notes:views"
	denylistKey  = "auth:denylist:"
	trendingSize = 100
)

// Cache wraps the Redis client with the few operations the service needs:
// the trending ranking, batched view counting, and the logout token denylist.
// All callers treat the cache as optional; a nil *Cache is a no-op.
type Cache struct {
	client *redis.Client
}

func New(addr, password string, db int) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Cache{client: rdb}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// BumpTrending adds engagement weight to a note in the trending zset and
// trims the set so it never grows past trendingSize.
func (c *Cache) BumpTrending(ctx context.Context, noteID int, weight float64) error {
	if c == nil {
		return nil
	}
	pipe := c.client.Pipeline()
	pipe.ZIncrBy(ctx, trendingKey, weight, strconv.Itoa(noteID))
	pipe.ZRemRangeByRank(ctx, trendingKey, 0, -(trendingSize + 1))
	_, err := pipe.Exec(ctx)
	return err
}

// TopNoteIDs returns the highest-scored note ids, best first. An empty result
// tells the caller to fall back to the SQL ranking.
func (c *Cache) TopNoteIDs(ctx context.Context, n int) ([]int, error) {
	if c == nil {
		return nil, nil
	}
	members, err := c.client.ZRevRange(ctx, trendingKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RemoveTrending drops a deleted note from the ranking.
func (c *Cache) RemoveTrending(ctx context.Context, noteID int) error {
	if c == nil {
		return nil
	}
	return c.client.ZRem(ctx, trendingKey, strconv.Itoa(noteID)).Err()
}

// IncrView batches a view into the shared hash; FlushViews drains it.
func (c *Cache) IncrView(ctx context.Context, noteID int) error {
	if c == nil {
		return nil
	}
	return c.client.HIncrBy(ctx, viewsKey, strconv.Itoa(noteID), 1).Err()
}

// FlushViews atomically takes the batched view counts, returning noteID ->
// delta. The hash is deleted in the same pipeline so counts are not double
// flushed.
func (c *Cache) FlushViews(ctx context.Context) (map[int]int, error) {
	if c == nil {
		return nil, nil
	}
	pipe := c.client.TxPipeline()
	getAll := pipe.HGetAll(ctx, viewsKey)
	pipe.Del(ctx, viewsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw := getAll.Val()
	out := make(map[int]int, len(raw))
	for field, val := range raw {
		id, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		delta, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		out[id] = delta
	}
	return out, nil
}

// DenyToken blocks a JWT id until its natural expiry (logout).
func (c *Cache) DenyToken(ctx context.Context, jti string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, denylistKey+jti, "1", ttl).Err()
}

// IsTokenDenied reports whether the token id was revoked by logout. Cache
// errors fail open: a Redis outage must not lock every user out.
func (c *Cache) IsTokenDenied(ctx context.Context, jti string) bool {
	if c == nil {
		return false
	}
	n, err := c.client.Exists(ctx, denylistKey+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}
