package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	dashboardKey    = "dashboard:summary"
	lowStockChannel = "spare_parts:low_stock"
)

type Client struct {
	rdb *redis.Client
}

// LowStockEvent is published on the low-stock channel whenever an
// adjustment leaves a part at or below its minimum level. Advisory only;
// nothing in the engine depends on a subscriber existing.
type LowStockEvent struct {
	SparePartID   uint      `json:"spare_part_id"`
	PartNumber    string    `json:"part_number"`
	Stock         int       `json:"stock"`
	MinStockLevel int       `json:"min_stock_level"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// ErrCacheMiss is returned by getters when no entry exists.
var ErrCacheMiss = fmt.Errorf("cache miss")

func (c *Client) SetDashboardSummary(ctx context.Context, summary interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard summary: %w", err)
	}
	return c.rdb.Set(ctx, dashboardKey, jsonData, ttl).Err()
}

func (c *Client) GetDashboardSummary(ctx context.Context, dest interface{}) error {
	val, err := c.rdb.Get(ctx, dashboardKey).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get dashboard summary: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Client) InvalidateDashboardSummary(ctx context.Context) error {
	return c.rdb.Del(ctx, dashboardKey).Err()
}

func (c *Client) PublishLowStock(ctx context.Context, event *LowStockEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal low stock event: %w", err)
	}
	return c.rdb.Publish(ctx, lowStockChannel, jsonData).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
