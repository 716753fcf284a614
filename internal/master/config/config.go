// Package config handles configuration for the master component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the master relay.
//
// Fields:
//   - WorkerAddr: bind address for the worker-facing WebSocket endpoint.
type Config struct {
	WorkerAddr string
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.WorkerAddr = ":8000"
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
