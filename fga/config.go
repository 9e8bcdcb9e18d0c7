package fga

import (
	"fmt"
	"time"

	"github.com/kbukum/fgakit/cache"
	"github.com/kbukum/fgakit/config"
	"github.com/kbukum/fgakit/httpclient"
	"github.com/kbukum/fgakit/validation"
)

const (
	defaultTimeout = 10 * time.Second
	transportName  = "openfga"
)

// Config holds the connection settings for the authorization service.
//
//	fga:
//	  base_url: https://fga.example.com
//	  store_id: 01HXYZ...
//	  authorization_model_id: 01HABC...
//	  cache:
//	    enabled: true
//	    redis_addr: localhost:6379
type Config struct {
	BaseURL              string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	StoreID              string `yaml:"store_id" mapstructure:"store_id" validate:"required,excludesall=/?#"`
	AuthorizationModelID string `yaml:"authorization_model_id" mapstructure:"authorization_model_id"`

	// ObjectType prefixes entity names in tuple objects. Defaults to
	// catalog_entity.
	ObjectType string `yaml:"object_type" mapstructure:"object_type" validate:"excludesall=:#@"`

	// APIToken is sent as a bearer token when set.
	APIToken string `yaml:"api_token" mapstructure:"api_token"`

	// Timeout bounds a single request. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// StrictActions rejects actions other than read and delete instead of
	// checking them as read.
	StrictActions bool `yaml:"strict_actions" mapstructure:"strict_actions"`

	// RetryAttempts is the total number of attempts for retryable failures.
	// Zero and one both mean a single attempt.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts" validate:"gte=0,lte=10"`

	// CircuitBreaker enables fail-fast behaviour after repeated failures.
	CircuitBreaker bool `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	TLS   *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`
	Cache cache.Config          `yaml:"cache" mapstructure:"cache"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.ObjectType == "" {
		c.ObjectType = DefaultObjectType
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	c.Cache.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// HTTPConfig returns the transport settings for an httpclient.Adapter.
func (c *Config) HTTPConfig() httpclient.Config {
	hc := httpclient.Config{
		Name:    transportName,
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
		Auth:    httpclient.BearerAuth(c.APIToken),
		TLS:     c.TLS,
	}
	if c.RetryAttempts > 1 {
		hc.Retry = httpclient.DefaultRetryConfig()
		hc.Retry.MaxAttempts = c.RetryAttempts
	}
	if c.CircuitBreaker {
		hc.CircuitBreaker = httpclient.DefaultCircuitBreakerConfig(transportName)
	}
	return hc
}

// File is the layout of a service config file: the service settings at the
// root and the client settings under fga.
//
//	name: catalog
//	logging:
//	  level: debug
//	fga:
//	  base_url: http://openfga:8080
//	  store_id: 01HSTORE
type File struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	FGA                  Config `yaml:"fga" mapstructure:"fga"`
}

// Load reads serviceName's config file and environment, applies defaults
// and validates both sections. FGA_* and LOGGING_* variables override the
// file; the root keys come from the file only.
func Load(serviceName string, opts ...config.LoaderOption) (*File, error) {
	var f File
	opts = append([]config.LoaderOption{config.WithEnvRoots("fga", "logging")}, opts...)
	if err := config.LoadConfig(serviceName, &f, opts...); err != nil {
		return nil, err
	}
	f.ServiceConfig.ApplyDefaults(serviceName)
	if err := f.ServiceConfig.Validate(); err != nil {
		return nil, err
	}
	f.FGA.ApplyDefaults()
	if err := f.FGA.Validate(); err != nil {
		return nil, fmt.Errorf("fga config: %w", err)
	}
	return &f, nil
}

// LoadConfig is Load returning only the fga section.
func LoadConfig(serviceName string, opts ...config.LoaderOption) (*Config, error) {
	f, err := Load(serviceName, opts...)
	if err != nil {
		return nil, err
	}
	return &f.FGA, nil
}
