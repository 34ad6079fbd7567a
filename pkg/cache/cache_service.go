package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"penned/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// CacheService 缓存服务接口
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	InvalidatePattern(ctx context.Context, pattern string) error
}

// RedisCache Redis 缓存实现
type RedisCache struct {
	client    *redis.Client
	prefix    string
	collector *metrics.Collector
}

// NewRedisCache 创建 Redis 缓存服务
func NewRedisCache(client *redis.Client) CacheService {
	return &RedisCache{
		client:    client,
		prefix:    "penned:",
		collector: metrics.GetGlobalCollector(),
	}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

// keyPrefix 取 key 的第一段作为指标标签，避免高基数
func keyPrefix(k string) string {
	if i := strings.IndexByte(k, ':'); i > 0 {
		return k[:i]
	}
	return k
}

// Get 读取并反序列化缓存
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.collector.RecordCacheAccess(keyPrefix(key), false)
			return ErrCacheMiss
		}
		return err
	}

	c.collector.RecordCacheAccess(keyPrefix(key), true)
	return json.Unmarshal(data, dest)
}

// Set 序列化并写入缓存
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, expiration).Err()
}

// Delete 删除缓存
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Exists 判断缓存是否存在
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	return n > 0, err
}

// InvalidatePattern 按模式删除缓存 (写操作后失效相关列表缓存)
func (c *RedisCache) InvalidatePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, c.key(pattern), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
