package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisAvailabilityCache 每航班可售座位數的快取。
// worker 消費訂單事件後刷新；搜尋端讀不到時回退資料庫計數。
type RedisAvailabilityCache interface {
	Set(ctx context.Context, flightID int, available int) error
	Get(ctx context.Context, flightID int) (int, bool, error)
	Invalidate(ctx context.Context, flightID int) error
}

type RedisAvailabilityCacheImpl struct {
	client *redis.Client
}

func NewRedisAvailabilityCache(client *redis.Client) RedisAvailabilityCache {
	return &RedisAvailabilityCacheImpl{
		client: client,
	}
}

func (c *RedisAvailabilityCacheImpl) availabilityKey(flightID int) string {
	return fmt.Sprintf("flight:%d:available", flightID)
}

func (c *RedisAvailabilityCacheImpl) Set(ctx context.Context, flightID int, available int) error {
	return c.client.Set(ctx, c.availabilityKey(flightID), available, 0).Err()
}

// Get 回傳 (數量, 是否命中, error)
func (c *RedisAvailabilityCacheImpl) Get(ctx context.Context, flightID int) (int, bool, error) {
	val, err := c.client.Get(ctx, c.availabilityKey(flightID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (c *RedisAvailabilityCacheImpl) Invalidate(ctx context.Context, flightID int) error {
	return c.client.Del(ctx, c.availabilityKey(flightID)).Err()
}
