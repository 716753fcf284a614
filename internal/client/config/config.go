// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the words CLI client.
//
// Fields:
//   - ServerAddr: host:port of the worker to connect to.
//   - ResponseTimeout: how long to wait for a reply to a request.
type Config struct {
	ServerAddr      string
	ResponseTimeout time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "localhost:3000"
	c.ResponseTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
