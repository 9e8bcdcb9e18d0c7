package logger

import (
	"fmt"
	"slices"
)

// Config controls log level, format and destination.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"` // stdout or stderr
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults fills empty fields and turns timestamps on.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

var (
	levels  = []string{"trace", "debug", "info", "warn", "error"}
	formats = []string{FormatJSON, FormatConsole}
	outputs = []string{"", "stdout", "stderr"}
)

// Validate rejects unknown levels, formats and outputs.
func (c *Config) Validate() error {
	switch {
	case !slices.Contains(levels, c.Level):
		return fmt.Errorf("logging.level %q is not one of %v", c.Level, levels)
	case !slices.Contains(formats, c.Format):
		return fmt.Errorf("logging.format %q is not one of %v", c.Format, formats)
	case !slices.Contains(outputs, c.Output):
		return fmt.Errorf("logging.output %q is not stdout or stderr", c.Output)
	}
	return nil
}
