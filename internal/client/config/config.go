package config

import "time"

// Config holds runtime settings for the WanderMap CLI.
//
// Fields:
//   - APIBaseURL: base URL of the WanderMap HTTP service.
//   - SiteBaseURL: base URL used to render shareable links.
//   - SessionDBPath: path of the local sqlite session store.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	APIBaseURL     string
	SiteBaseURL    string
	SessionDBPath  string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.SiteBaseURL = "http://127.0.0.1:3000"
	c.SessionDBPath = "wandermap.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
