package config

import "time"

// Config holds runtime settings for the Snappy client.
//
// Fields:
//   - ServerURL: base URL of the chat backend REST API.
//   - AvatarAPIURL: base URL of the avatar generator; candidates are fetched
//     from {AvatarAPIURL}/{seed}.
//   - DBPath: SQLite file holding the identity slot.
//   - RequestTimeout: per-request timeout for both remote services.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL      string
	AvatarAPIURL   string
	DBPath         string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.AvatarAPIURL = "https://api.multiavatar.com/45678945"
	c.DBPath = "snappy.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
