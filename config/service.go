package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/fgakit/logger"
)

// Environments accepted in ServiceConfig.Environment.
var Environments = []string{"development", "test", "staging", "production"}

// ServiceConfig is the part of a config file that describes the embedding
// application rather than one client. Squash it into the file's root:
//
//	type File struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    FGA fga.Config       `mapstructure:"fga"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults names the service after fallback if the file did not, and
// defaults the environment to development.
func (c *ServiceConfig) ApplyDefaults(fallback string) {
	if c.Name == "" {
		c.Name = fallback
	}
	if c.Environment == "" {
		c.Environment = Environments[0]
	}
	c.Logging.ApplyDefaults()
}

func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(Environments, c.Environment) {
		return fmt.Errorf("config.environment %q is not one of %v", c.Environment, Environments)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// NewLogger builds the logger described by the logging section.
func (c *ServiceConfig) NewLogger() *logger.Logger {
	return logger.New(&c.Logging, c.Name)
}
