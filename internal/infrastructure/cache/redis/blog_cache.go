package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/curamai/sitesearch/internal/core/domain"
)

const keyPrefix = "sitesearch:blog:"

// kv is the part of the redis client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
}

// BlogCache stores blog search results as JSON, keyed by a hash of the query.
type BlogCache struct {
	client kv
}

func NewBlogCache(client kv) *BlogCache {
	return &BlogCache{client: client}
}

// Connect opens a client and checks it answers PING.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (c *BlogCache) Get(ctx context.Context, query string) ([]domain.BlogPost, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(query)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get blog cache: %w", err)
	}

	var posts []domain.BlogPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false, fmt.Errorf("decode blog cache entry: %w", err)
	}
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	return posts, true, nil
}

func (c *BlogCache) Set(ctx context.Context, query string, posts []domain.BlogPost, ttl time.Duration) error {
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	payload, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode blog cache entry: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(query), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set blog cache: %w", err)
	}
	return nil
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return keyPrefix + hex.EncodeToString(sum[:])
}
