// Package config provides unified configuration for the nimrelay proxy.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (legacy NVIDIA_*/PORT names plus
//     structured NIMRELAY_* names)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the nimrelay proxy.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 5000
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// UpstreamConfig holds NVIDIA NIM backend settings.
type UpstreamConfig struct {
	BaseURL       string        `yaml:"base_url"`       // default: https://integrate.api.nvidia.com/v1
	APIKey        string        `yaml:"api_key"`        // forwarded as Authorization: Bearer
	APIKeyFile    string        `yaml:"api_key_file"`   // _file variant for api_key
	ChatTimeout   time.Duration `yaml:"chat_timeout"`   // default: 120s
	ModelsTimeout time.Duration `yaml:"models_timeout"` // default: 30s
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL:       "https://integrate.api.nvidia.com/v1",
			ChatTimeout:   120 * time.Second,
			ModelsTimeout: 30 * time.Second,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
