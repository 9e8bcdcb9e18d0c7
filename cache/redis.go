package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/fgakit/component"
	"github.com/kbukum/fgakit/errors"
	"github.com/kbukum/fgakit/logger"
)

// RedisStore keeps JSON-encoded values in Redis under a key prefix.
type RedisStore[V any] struct {
	rdb       goredis.UniversalClient
	keyPrefix string
	owned     bool
	log       *logger.Logger
}

var (
	_ Store[any]          = (*RedisStore[any])(nil)
	_ component.Component = (*RedisStore[any])(nil)
)

// NewRedisStore connects to the Redis server described by cfg.
// The connection is verified in Start.
func NewRedisStore[V any](cfg Config, log *logger.Logger) (*RedisStore[V], error) {
	cfg.ApplyDefaults()
	if cfg.RedisAddr == "" {
		return nil, errors.MissingField("cache.redis_addr")
	}
	if log == nil {
		log = logger.Get("cache")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.ReadTimeout,
	})
	s := NewRedisStoreFromClient[V](rdb, cfg.KeyPrefix)
	s.owned = true
	s.log = log
	return s, nil
}

// NewRedisStoreFromClient wraps an existing client. The caller keeps
// ownership and Stop does not close it.
func NewRedisStoreFromClient[V any](rdb goredis.UniversalClient, keyPrefix string) *RedisStore[V] {
	return &RedisStore[V]{rdb: rdb, keyPrefix: keyPrefix, log: logger.Get("cache")}
}

func (s *RedisStore[V]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load decodes the JSON value stored under key.
func (s *RedisStore[V]) Load(ctx context.Context, key string) (*V, error) {
	raw, err := s.rdb.Get(ctx, s.fullKey(key)).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Cache("load", err).WithDetail("key", key)
	}
	var val V
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, errors.Cache("decode", err).WithDetail("key", key)
	}
	return &val, nil
}

// Save JSON-encodes val and stores it with ttl.
func (s *RedisStore[V]) Save(ctx context.Context, key string, val *V, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Cache("encode", err).WithDetail("key", key)
	}
	if err := s.rdb.Set(ctx, s.fullKey(key), data, ttl).Err(); err != nil {
		return errors.Cache("save", err).WithDetail("key", key)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore[V]) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return errors.Cache("delete", err).WithDetail("key", key)
	}
	return nil
}

// Name returns the component name.
func (s *RedisStore[V]) Name() string { return "cache-redis" }

// Start verifies the connection.
func (s *RedisStore[V]) Start(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return errors.Cache("ping", err)
	}
	s.log.Debug("Result cache connected", map[string]interface{}{"prefix": s.keyPrefix})
	return nil
}

// Stop closes the client if the store created it.
func (s *RedisStore[V]) Stop(_ context.Context) error {
	if !s.owned {
		return nil
	}
	return s.rdb.Close()
}

// Health pings Redis.
func (s *RedisStore[V]) Health(ctx context.Context) component.Health {
	h := component.Health{Name: s.Name(), Status: component.StatusHealthy}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		h.Status = component.StatusUnhealthy
		h.Message = err.Error()
	}
	return h
}
