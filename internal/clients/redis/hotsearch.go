package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

// HotSearchCache is a small read-through cache in front of the hot-search
// ranking. It is strictly optional: a nil *HotSearchCache is a valid
// receiver and every call degrades to a miss, so the search service never
// needs to know whether redis is configured.
type HotSearchCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewHotSearchCache(log *logger.Logger) (*HotSearchCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &HotSearchCache{
		log: log.With("service", "HotSearchCache"),
		rdb: rdb,
	}, nil
}

// Get returns the cached payload for key, with ok=false on miss or any
// redis error (errors are logged, never surfaced).
func (c *HotSearchCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *HotSearchCache) Set(ctx context.Context, key string, raw []byte, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *HotSearchCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
