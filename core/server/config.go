package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// Metrics exposes the Prometheus registry at /metrics.
	Metrics bool `mapstructure:"metrics" default:"true"`
	// ReadTimeoutSeconds bounds reading a request. Comparisons are long
	// running, so the write side is left unbounded.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
}

// ReadTimeout returns the read timeout, falling back to 30 seconds.
func (c Config) ReadTimeout() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}
