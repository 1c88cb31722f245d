package rediskeeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// RedisKeeper stores each cart slot as a plain string value.
type RedisKeeper struct {
	client *redis.Client
	log    Log
}

// NewRedisKeeper accepts a redis:// URL or a bare host:port.
func NewRedisKeeper(addr func() string, log Log) *RedisKeeper {
	a := addr()
	if a == "" {
		log.Error("redis address is empty")
		return nil
	}

	opts, err := redis.ParseURL(a)
	if err != nil {
		opts = &redis.Options{
			Addr:         a,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}

	log.Info("Redis client created", zap.String("addr", opts.Addr))
	return &RedisKeeper{
		client: redis.NewClient(opts),
		log:    log,
	}
}

func (kp *RedisKeeper) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := kp.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis GET %q: %w", key, err)
	}
	return val, true, nil
}

func (kp *RedisKeeper) Set(ctx context.Context, key, value string) error {
	if err := kp.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %q: %w", key, err)
	}
	return nil
}

func (kp *RedisKeeper) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := kp.client.Ping(ctx).Err(); err != nil {
		kp.log.Error("Redis ping failed", zap.Error(err))
		return false
	}
	return true
}

func (kp *RedisKeeper) Close() bool {
	if err := kp.client.Close(); err != nil {
		kp.log.Error("Failed to close redis client", zap.Error(err))
		return false
	}
	kp.log.Info("Redis client closed")
	return true
}
