package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DocumentCache keeps rendered portal documents in Redis. A nil client disables it.
type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDocumentCache(redisURL string, ttl time.Duration) *DocumentCache {
	if redisURL == "" {
		log.Println("⚠️ REDIS_URL not set, portal cache disabled")
		return &DocumentCache{ttl: ttl}
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("⚠️ invalid REDIS_URL, portal cache disabled: %v", err)
		return &DocumentCache{ttl: ttl}
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis connection failed, portal cache disabled: %v", err)
		_ = client.Close()
		return &DocumentCache{ttl: ttl}
	}
	log.Println("✅ Connected to Redis")
	return &DocumentCache{client: client, ttl: ttl}
}

func (c *DocumentCache) Enabled() bool { return c != nil && c.client != nil }

func portalKey(token string) string { return "portal:" + token }

func (c *DocumentCache) Get(ctx context.Context, token string) (*Document, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, portalKey(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ cache get %s: %v", token, err)
		}
		return nil, false
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	return &doc, true
}

func (c *DocumentCache) Set(ctx context.Context, token string, doc *Document) {
	if !c.Enabled() || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, portalKey(token), data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ cache set %s: %v", token, err)
	}
}

func (c *DocumentCache) Delete(ctx context.Context, tokens ...string) {
	if !c.Enabled() || len(tokens) == 0 {
		return
	}
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = portalKey(t)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ cache delete: %v", err)
	}
}

func (c *DocumentCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
