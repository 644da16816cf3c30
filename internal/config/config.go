// Package config handles configuration for the storefront vault server,
// including defaults, environment overlay, JSON overlay, and command-line
// flags.
package config

import "time"

// Config holds runtime settings for the vault server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP API.
//   - DatabasePath: SQLite database file path.
//   - AllowedOrigins: CORS origins permitted to call the API.
//   - PaymentEndpoint: external checkout session endpoint; empty disables it.
//   - AdminUsername / AdminPassword: seed credentials for the admin account.
//     NOTE: the defaults are the development seed and must be overridden in prod.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	ListenAddr      string
	DatabasePath    string
	AllowedOrigins  []string
	PaymentEndpoint string
	AdminUsername   string
	AdminPassword   string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabasePath = "storefront.db"
	c.AllowedOrigins = []string{"http://localhost:3000"}
	c.PaymentEndpoint = ""
	c.AdminUsername = "SevaAdmin393"
	c.AdminPassword = "PurpleCrush!23"
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file, and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
