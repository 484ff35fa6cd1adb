package config

import (
	"fmt"

	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/observability"
	"github.com/kbukum/httpkit/validation"
)

// Config is the configuration of a service using the httpkit engine.
// Projects extend it by embedding:
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    PaymentsURL   string `yaml:"payments_url" mapstructure:"payments_url"`
//	}
type Config struct {
	Name        string                     `yaml:"name" mapstructure:"name"`
	Environment string                     `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	HTTP        httpclient.Config          `yaml:"http" mapstructure:"http"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults applies default values to every section.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.HTTP.Name == "" {
		c.HTTP.Name = c.Name
	}
	c.Logging.ApplyDefaults()
	c.HTTP.ApplyDefaults()

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = observability.DefaultTracerConfig(c.Name).Endpoint
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Name
	}
	if c.Metrics.Environment == "" {
		c.Metrics.Environment = c.Environment
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = observability.DefaultMeterConfig(c.Name).Endpoint
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	v := validation.New().
		Required("name", c.Name).
		OneOf("environment", c.Environment, []string{"development", "staging", "production"}).
		Custom(c.Tracing.SampleRate >= 0 && c.Tracing.SampleRate <= 1, "tracing.sample_rate", "must be between 0 and 1")
	if err := v.Err(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	return nil
}
