package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"basket-service/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func catalogKey(cacheKey string) string {
	return fmt.Sprintf("catalog:%s", cacheKey)
}

func basketKey(sessionID string) string {
	return fmt.Sprintf("basket:%s", sessionID)
}

// GetCatalog fetches a cached catalog. The second return value is false on
// a cache miss.
func (c *Client) GetCatalog(ctx context.Context, cacheKey string) ([]models.Product, bool, error) {
	raw, err := c.rdb.Get(ctx, catalogKey(cacheKey)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached catalog: %w", err)
	}
	return products, true, nil
}

// SetCatalog stores a catalog under a cache key with TTL.
func (c *Client) SetCatalog(ctx context.Context, cacheKey string, products []models.Product, ttl time.Duration) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return c.rdb.Set(ctx, catalogKey(cacheKey), raw, ttl).Err()
}

// GetBasket fetches a session basket. An unknown session yields an empty
// basket, not an error.
func (c *Client) GetBasket(ctx context.Context, sessionID string) ([]models.BasketItem, error) {
	raw, err := c.rdb.Get(ctx, basketKey(sessionID)).Bytes()
	if err == redis.Nil {
		return []models.BasketItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.BasketItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode basket: %w", err)
	}
	return items, nil
}

// SaveBasket stores a session basket with TTL.
func (c *Client) SaveBasket(ctx context.Context, sessionID string, items []models.BasketItem, ttl time.Duration) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode basket: %w", err)
	}
	return c.rdb.Set(ctx, basketKey(sessionID), raw, ttl).Err()
}

// DeleteBasket removes a session basket.
func (c *Client) DeleteBasket(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, basketKey(sessionID)).Err()
}

// ClaimIdempotencyKey atomically claims a checkout idempotency key.
// Returns false if the key was already used.
func (c *Client) ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("idempotency:%s", key), "1", ttl).Result()
}
