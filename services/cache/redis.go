package cachesvc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/simtahfidz/backend/core"
)

const pingTimeout = 2 * time.Second

type RedisCache struct {
	client *redis.Client
	prefix string
}

var _ core.Cache = (*RedisCache)(nil) // interface compliance check

// NewRedisCache connects to the configured redis server and pings it.
// Keys are namespaced with the environment so that DEV and TEST can share a server.
func NewRedisCache(conf *core.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", conf.Redis.Addr)
	}
	return &RedisCache{client: client, prefix: conf.Env + ":"}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return core.ErrCacheMiss
		}
		return errors.Wrapf(err, "getting %s", key)
	}
	return errors.Wrapf(json.Unmarshal(data, dest), "decoding %s", key)
}

// Set stores `value` as JSON. A zero `ttl` keeps the key until it is deleted.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return errors.Wrapf(c.client.Set(ctx, c.prefix+key, data, ttl).Err(), "setting %s", key)
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.prefix + k
	}
	return errors.Wrap(c.client.Del(ctx, prefixed...).Err(), "deleting keys")
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
