package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AppToken is the catalog service's client-credentials token.
type AppToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

var ErrCacheMiss = errors.New("cache miss")

// Cache holds short-lived lookups shared across requests: the catalog app
// token and the per-song external-video ids that are resolved lazily and
// memoized to avoid repeat upstream lookups.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// StoreAppToken caches the catalog token until it expires.
func (c *Cache) StoreAppToken(ctx context.Context, token *AppToken) error {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}

	if err := c.client.Set(ctx, "catalog:token", tokenJSON, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// GetAppToken retrieves the cached catalog token, or ErrCacheMiss.
func (c *Cache) GetAppToken(ctx context.Context) (*AppToken, error) {
	tokenJSON, err := c.client.Get(ctx, "catalog:token").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	var token AppToken
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return &token, nil
}

// StoreVideoID memoizes a song's resolved external-video id.
func (c *Cache) StoreVideoID(ctx context.Context, songID, videoID string) error {
	key := fmt.Sprintf("video:%s", songID)
	if err := c.client.Set(ctx, key, videoID, 0).Err(); err != nil {
		return fmt.Errorf("failed to store video id: %w", err)
	}
	return nil
}

// GetVideoID returns the memoized video id for a song, or ErrCacheMiss.
func (c *Cache) GetVideoID(ctx context.Context, songID string) (string, error) {
	key := fmt.Sprintf("video:%s", songID)
	videoID, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get video id: %w", err)
	}
	return videoID, nil
}
