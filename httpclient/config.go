package httpclient

import (
	"fmt"
	"time"

	apperrors "github.com/kbukum/httpkit/errors"
	"github.com/kbukum/httpkit/validation"
)

const (
	// DefaultTimeoutSeconds applies when a call leaves TimeoutSeconds at zero.
	DefaultTimeoutSeconds = 100
	// MaxTimeoutSeconds is the upper bound a call timeout is clamped to.
	MaxTimeoutSeconds = 600
)

// Config configures the transport engine.
type Config struct {
	// Name identifies the engine in logs.
	Name string `yaml:"name" mapstructure:"name"`

	// DefaultTimeoutSeconds is used when a call does not set one. Defaults to 100.
	DefaultTimeoutSeconds int `yaml:"default_timeout_seconds" mapstructure:"default_timeout_seconds"`

	// MaxTimeoutSeconds clamps per-call timeouts. Defaults to 600.
	MaxTimeoutSeconds int `yaml:"max_timeout_seconds" mapstructure:"max_timeout_seconds"`

	// UserAgent overrides the default "httpkit/<version>" User-Agent.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "httpclient"
	}
	if c.MaxTimeoutSeconds <= 0 {
		c.MaxTimeoutSeconds = MaxTimeoutSeconds
	}
	if c.DefaultTimeoutSeconds <= 0 {
		c.DefaultTimeoutSeconds = min(DefaultTimeoutSeconds, c.MaxTimeoutSeconds)
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	v := validation.New().
		Min("default_timeout_seconds", c.DefaultTimeoutSeconds, 1).
		Min("max_timeout_seconds", c.MaxTimeoutSeconds, 1).
		Max("default_timeout_seconds", c.DefaultTimeoutSeconds, c.MaxTimeoutSeconds)
	for k, val := range c.Headers {
		if _, err := NewHeader(k, val); err != nil {
			v.AddError("headers."+k, err.Error())
		}
	}
	return v.Err()
}

// resolveTimeout applies the default and clamp rules to a per-call timeout.
func (c *Config) resolveTimeout(seconds int) (time.Duration, error) {
	switch {
	case seconds < 0:
		return 0, apperrors.InvalidInput("timeout_seconds", fmt.Sprintf("must not be negative (got %d)", seconds))
	case seconds == 0:
		seconds = c.DefaultTimeoutSeconds
	case seconds > c.MaxTimeoutSeconds:
		seconds = c.MaxTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second, nil
}
