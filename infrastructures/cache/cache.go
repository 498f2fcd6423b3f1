package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/config"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/log"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound 表示Redis中不存在指定的key
var ErrKeyNotFound = errors.New("key not found")

// ErrNotConfigured 配置中没有对应的redises项
var ErrNotConfigured = errors.New("redis not configured")

// Cache 基于Redis的JSON缓存
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

// New 使用已有的客户端创建缓存
func New(client *redis.Client) *Cache {
	return &Cache{client: client, ctx: context.Background()}
}

// NewFromConfig 按 redises.<name> 配置创建缓存并探活
func NewFromConfig(name string) (*Cache, error) {
	redisConfig, exists := config.GetInstance().Redises[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, name)
	}

	// 设置默认值（只在配置文件未设置时生效）
	if redisConfig.PoolSize == 0 {
		redisConfig.PoolSize = 10
	}
	if redisConfig.MaxRetries == 0 {
		redisConfig.MaxRetries = 3
	}
	if redisConfig.DialTimeout == 0 {
		redisConfig.DialTimeout = 5
	}
	if redisConfig.ReadTimeout == 0 {
		redisConfig.ReadTimeout = 3
	}
	if redisConfig.WriteTimeout == 0 {
		redisConfig.WriteTimeout = 3
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisConfig.Addr,
		Username:     redisConfig.User,
		Password:     redisConfig.Password,
		DB:           redisConfig.DB,
		PoolSize:     redisConfig.PoolSize,
		MinIdleConns: redisConfig.MinIdleConns,
		MaxRetries:   redisConfig.MaxRetries,
		DialTimeout:  time.Duration(redisConfig.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(redisConfig.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(redisConfig.WriteTimeout) * time.Second,
	})

	c := New(client)
	if err := pingWithRetry(c.ctx, client, 3); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", redisConfig.Addr, err)
	}
	log.Infof("Cache initialized: %s", redisConfig.Addr)
	return c, nil
}

func pingWithRetry(ctx context.Context, client *redis.Client, maxRetries int) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := client.Ping(ctx).Err(); err != nil {
			lastErr = err
			if !isRetryableRedisErr(err) || attempt == maxRetries-1 {
				return err
			}
			time.Sleep(50 * time.Millisecond)
			continue
		}
		return nil
	}
	return lastErr
}

func isRetryableRedisErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Close 关闭Redis连接
func (c *Cache) Close() error {
	return c.client.Close()
}

// Store 存储对象（自动JSON序列化）
func (c *Cache) Store(key string, val any, timeout time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal failed for key %s: %w", key, err)
	}
	return c.StoreBytes(key, data, timeout)
}

// StoreBytes 存储原始字节
func (c *Cache) StoreBytes(key string, data []byte, timeout time.Duration) error {
	if err := c.client.Set(c.ctx, key, data, timeout).Err(); err != nil {
		return fmt.Errorf("store failed for key %s: %w", key, err)
	}
	return nil
}

// Fetch 获取对象（自动JSON反序列化）
func (c *Cache) Fetch(key string, dest any) error {
	data, err := c.FetchBytes(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal failed for key %s: %w", key, err)
	}
	return nil
}

// FetchBytes 获取原始字节
func (c *Cache) FetchBytes(key string) ([]byte, error) {
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("fetch failed for key %s: %w", key, err)
	}
	return data, nil
}

// Delete 删除键
func (c *Cache) Delete(key string) error {
	if err := c.client.Del(c.ctx, key).Err(); err != nil {
		return fmt.Errorf("delete failed for key %s: %w", key, err)
	}
	return nil
}

// TTL 获取键的剩余过期时间
func (c *Cache) TTL(key string) (time.Duration, error) {
	ttl, err := c.client.TTL(c.ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("get ttl failed for key %s: %w", key, err)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("key %s has no expiration or does not exist", key)
	}
	return ttl, nil
}
