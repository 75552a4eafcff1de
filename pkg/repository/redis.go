package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/storage"
	"github.com/go-redis/redis/v8"
)

// orderCacheTTL bounds how long a placed order stays readable from the cache.
const orderCacheTTL = 30 * time.Minute

// RedisRepository is a storage.KV backed by redis. It also caches recently
// placed orders for quick lookups by id.
type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func orderCacheKey(orderID string) string {
	return fmt.Sprintf("order:%s", orderID)
}

// OrderCache is an orders.Sink keeping the latest state of each order in
// redis.
type OrderCache struct {
	repo *RedisRepository
}

func NewOrderCache(repo *RedisRepository) *OrderCache {
	return &OrderCache{repo: repo}
}

func (c *OrderCache) OrderPlaced(ctx context.Context, _ string, order models.Order) error {
	return c.repo.SetJSON(ctx, orderCacheKey(order.ID), order, orderCacheTTL)
}

func (c *OrderCache) OrderStatusChanged(ctx context.Context, _ string, order models.Order, _ models.OrderStatus) error {
	return c.repo.SetJSON(ctx, orderCacheKey(order.ID), order, orderCacheTTL)
}

func (c *OrderCache) Get(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.repo.GetJSON(ctx, orderCacheKey(orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}
