package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/S3bast1an022/ClassScore-1.8/config"
)

// Client Redis 客户端封装
// 当前用于成绩报表缓存与接口限流；后续可扩展分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 报表缓存 ──

const reportCachePrefix = "report:"

// GetReport 读取缓存的报表 JSON；未命中返回 ("", nil)
func (c *Client) GetReport(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, reportCachePrefix+key).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetReport 缓存报表 JSON，TTL 到期自动失效
func (c *Client) SetReport(ctx context.Context, key, payload string, ttl time.Duration) error {
	return c.rdb.Set(ctx, reportCachePrefix+key, payload, ttl).Err()
}

// InvalidateReport 主动删除缓存的报表
func (c *Client) InvalidateReport(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, reportCachePrefix+key).Err()
}

// ── 接口限流 ──

// CheckRateLimit 固定窗口计数限流：窗口内超过 limit 次返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
