package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"course-planner/backend/config"
	pkgerrors "course-planner/backend/pkg/errors"
)

// Client Redis 客户端封装
// 用途：集合存储驱动（store.Driver）与接口限流
type Client struct {
	rdb    *goredis.Client
	prefix string
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, prefix string, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, prefix: prefix, logger: logger}, nil
}

// ── 集合存储 ──

// Get 读取集合原始 JSON，键不存在时返回 ErrKeyNotFound
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, pkgerrors.ErrKeyNotFound
	}
	return b, err
}

// Set 覆盖写入集合原始 JSON（不过期）
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	return c.rdb.Set(ctx, c.prefix+key, value, 0).Err()
}

// ── 限流 ──

const rateLimitPrefix = "rate_limit:"

// CheckRateLimit 滑动窗口计数：窗口内请求数不超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	fullKey := c.rateLimitKey(key)
	member := strconv.FormatInt(now.UnixNano(), 10)

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
		pipe.ZAdd(ctx, fullKey, goredis.Z{Score: float64(now.UnixNano()), Member: member})
		card = pipe.ZCard(ctx, fullKey)
		pipe.Expire(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return card.Val() <= int64(limit), nil
}

// rateLimitKey <prefix>rate_limit:<key>
func (c *Client) rateLimitKey(key string) string {
	return c.prefix + rateLimitPrefix + key
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
