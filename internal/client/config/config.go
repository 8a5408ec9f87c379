package config

import "time"

// Config holds runtime settings for the FundKeeper CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the ledger service HTTP endpoint.
//   - RequestTimeout: per-request timeout for ledger calls.
//   - CacheDBPath: path of the local SQLite snapshot database.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	CacheDBPath        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.CacheDBPath = "fundkeeper.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
