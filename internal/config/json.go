package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/seva-innovations/storefront-vault/internal/flagx"
	"github.com/seva-innovations/storefront-vault/internal/timex"
)

// JsonConfig is the intermediate DTO for the JSON configuration file. It
// uses timex.Duration for interval fields, which parses both string values
// such as "5s" and integer nanoseconds. Only non-zero fields overlay the
// runtime Config.
type JsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	DatabasePath    string         `json:"database_path"`
	AllowedOrigins  []string       `json:"allowed_origins"`
	PaymentEndpoint string         `json:"payment_endpoint"`
	AdminUsername   string         `json:"admin_username"`
	AdminPassword   string         `json:"admin_password"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. An unreadable or
// invalid file panics, matching the fail-fast startup contract.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ListenAddr != "" {
		config.ListenAddr = c.ListenAddr
	}
	if c.DatabasePath != "" {
		config.DatabasePath = c.DatabasePath
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.PaymentEndpoint != "" {
		config.PaymentEndpoint = c.PaymentEndpoint
	}
	if c.AdminUsername != "" {
		config.AdminUsername = c.AdminUsername
	}
	if c.AdminPassword != "" {
		config.AdminPassword = c.AdminPassword
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = time.Duration(c.ShutdownTimeout.Duration)
	}
}
