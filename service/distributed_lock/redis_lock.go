/*
 * @module service/distributed_lock/redis_lock
 * @description Redis分布式锁实现，用于多实例环境下定时质量评估的调度防重
 * @architecture 工具层 - 提供分布式锁能力
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 获取锁 -> 执行评估 -> 释放锁/自动过期
 * @rules 使用 Redis SET NX 实现，锁值带实例标识，只允许持有者释放
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/quality/scheduler.go
 */

package distributed_lock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// DistributedLock 分布式锁接口
type DistributedLock interface {
	// TryLock 尝试获取锁，已被占用时返回 false
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Unlock 释放锁，仅持有者可释放
	Unlock(ctx context.Context, key string) error
}

// unlockScript 只释放自己持有的锁
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLock Redis分布式锁实现
type RedisLock struct {
	client     *redis.Client
	instanceID string
}

// NewRedisLock 创建Redis分布式锁，连接配置来自环境变量
func NewRedisLock() (*RedisLock, error) {
	addr := fmt.Sprintf("%s:%s",
		getEnvWithDefault("REDIS_HOST", "localhost"),
		getEnvWithDefault("REDIS_PORT", "6379"))

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	hostname, _ := os.Hostname()
	instanceID := fmt.Sprintf("%s:%d", hostname, os.Getpid())

	slog.Info("Redis分布式锁初始化成功", "instance_id", instanceID, "redis_addr", addr)
	return &RedisLock{client: client, instanceID: instanceID}, nil
}

// TryLock 尝试获取锁
func (l *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, key, l.instanceID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("获取锁 %s 失败: %w", key, err)
	}
	return acquired, nil
}

// Unlock 释放锁
func (l *RedisLock) Unlock(ctx context.Context, key string) error {
	if err := l.client.Eval(ctx, unlockScript, []string{key}, l.instanceID).Err(); err != nil {
		return fmt.Errorf("释放锁 %s 失败: %w", key, err)
	}
	return nil
}

// Close 关闭Redis连接
func (l *RedisLock) Close() error {
	return l.client.Close()
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
