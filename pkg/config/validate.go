package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// upstream.base_url is required and must parse.
	if c.Upstream.BaseURL == "" {
		errs = append(errs, fmt.Errorf("upstream.base_url is required"))
	} else if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream.base_url must be an absolute URL, got %q", c.Upstream.BaseURL))
	}

	// server.port must be a valid port number.
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	// Upstream call budgets must be positive.
	if c.Upstream.ChatTimeout <= 0 {
		errs = append(errs, fmt.Errorf("upstream.chat_timeout must be > 0, got %s", c.Upstream.ChatTimeout))
	}
	if c.Upstream.ModelsTimeout <= 0 {
		errs = append(errs, fmt.Errorf("upstream.models_timeout must be > 0, got %s", c.Upstream.ModelsTimeout))
	}

	// observability.metrics.path must be set when metrics are enabled.
	if c.Observability.Metrics.Enabled && c.Observability.Metrics.Path == "" {
		errs = append(errs, fmt.Errorf("observability.metrics.path is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}
