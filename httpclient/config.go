package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/fgakit/resilience"
)

const (
	defaultName    = "http"
	defaultTimeout = 30 * time.Second
)

// Config describes one upstream service. Name labels the adapter in logs,
// errors and health reports; relative request paths are resolved against
// BaseURL. Timeout bounds each attempt, not the whole call.
//
// Retry and CircuitBreaker are off when nil, so by default every request
// is sent exactly once.
type Config struct {
	Name    string            `yaml:"name" mapstructure:"name"`
	BaseURL string            `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	TLS     *TLSConfig        `yaml:"tls" mapstructure:"tls"`

	Auth           Authenticator                    `yaml:"-" mapstructure:"-"` // a request's own Auth wins
	Retry          *resilience.RetryConfig          `yaml:"-" mapstructure:"-"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults names the adapter "http" and sets a 30s timeout.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("httpclient %s: timeout must be positive", c.Name)
	case c.Retry != nil && c.Retry.MaxAttempts < 0:
		return fmt.Errorf("httpclient %s: retry max attempts must not be negative", c.Name)
	}
	return c.TLS.Validate()
}

// DefaultRetryConfig returns the resilience defaults as an enabled policy.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	return &cfg
}

// DefaultCircuitBreakerConfig returns the resilience defaults for the named
// adapter as an enabled breaker.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	return &cfg
}
