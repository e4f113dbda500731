package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"media_upload_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrRedisNil key does not exist
var ErrRedisNil = errors.New("redis: key not found")

// RedisRepository 定义接口
type RedisRepository[T any] interface {
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
	Get(ctx context.Context, key string) (T, error)
	Del(ctx context.Context, key string) error
	GetTTL(ctx context.Context, key string) (int, error)
	ExtendTTL(ctx context.Context, key string, ttl time.Duration) error
}

// redisRepository 实现 RedisRepository
type redisRepository[T any] struct {
	client redis.UniversalClient
}

// RedisOptions definition a single node (Addr) or sentinel (MasterName + SentinelAddrs) connection
type RedisOptions struct {
	Addr          string
	Password      string
	DB            int
	MasterName    string
	SentinelAddrs []string
}

// NewRedisClient init Redis connection, sentinel when no Addr is given
func NewRedisClient(ctx context.Context, o RedisOptions) (redis.UniversalClient, error) {
	var rdb redis.UniversalClient
	if o.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     o.Addr,
			Password: o.Password,
			DB:       o.DB,
		})
	} else {
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    o.MasterName,
			SentinelAddrs: o.SentinelAddrs,
			Password:      o.Password,
			DB:            o.DB,
		})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

// NewRedisRepository wrap client as a JSON valued repository
func NewRedisRepository[T any](client redis.UniversalClient) RedisRepository[T] {
	return &redisRepository[T]{client: client}
}

func (r *redisRepository[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisRepository[T]) Get(ctx context.Context, key string) (T, error) {
	var zeroValue T
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return zeroValue, ErrRedisNil
	} else if err != nil {
		return zeroValue, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		logger.Log.Error("redis value decode failed", zap.String("key", key), zap.Error(err))
		return zeroValue, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return result, nil
}

func (r *redisRepository[T]) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisRepository[T]) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

func (r *redisRepository[T]) GetTTL(ctx context.Context, key string) (int, error) {
	ttl, err := r.client.TTL(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to get TTL for key %s: %w", key, err)
	}

	if ttl < 0 {
		return 0, nil
	}

	return int(ttl.Seconds()), nil
}
