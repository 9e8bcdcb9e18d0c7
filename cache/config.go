package cache

import (
	"time"

	"github.com/kbukum/fgakit/errors"
	"github.com/kbukum/fgakit/logger"
)

// Config configures the check result cache.
type Config struct {
	// Enabled turns the cache on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// TTL bounds how long a cached decision is served. Defaults to 10s.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
	// RedisAddr selects the Redis backend; empty means in-process memory.
	RedisAddr     string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int    `yaml:"redis_db" mapstructure:"redis_db"`
	// KeyPrefix namespaces keys in a shared Redis. Defaults to "fga".
	KeyPrefix   string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.TTL <= 0 {
		c.TTL = 10 * time.Second
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "fga"
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.RedisDB < 0 {
		return errors.InvalidInput("cache.redis_db", "redis_db must not be negative")
	}
	return nil
}

// Open returns the Store selected by cfg: nil when disabled, Redis when an
// address is set, memory otherwise.
func Open[V any](cfg Config, log *logger.Logger) (Store[V], error) {
	if !cfg.Enabled {
		return nil, nil
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.RedisAddr == "" {
		return NewMemoryStore[V](), nil
	}
	s, err := NewRedisStore[V](cfg, log)
	if err != nil {
		return nil, err
	}
	return s, nil
}
