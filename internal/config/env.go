package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from the process environment. A .env file
// in the working directory is loaded first when present; real environment
// variables win over .env entries per godotenv semantics.
//
// Recognized variables:
//
//	SEVA_LISTEN_ADDR       HTTP bind address
//	SEVA_DATABASE_PATH     SQLite database file
//	SEVA_ALLOWED_ORIGINS   comma-separated CORS origins
//	SEVA_PAYMENT_ENDPOINT  checkout session endpoint
//	SEVA_ADMIN_USERNAME    admin seed username
//	SEVA_ADMIN_PASSWORD    admin seed password
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SEVA_LISTEN_ADDR"); v != "" {
		config.ListenAddr = v
	}
	if v := os.Getenv("SEVA_DATABASE_PATH"); v != "" {
		config.DatabasePath = v
	}
	if v := os.Getenv("SEVA_ALLOWED_ORIGINS"); v != "" {
		config.AllowedOrigins = splitOrigins(v)
	}
	if v := os.Getenv("SEVA_PAYMENT_ENDPOINT"); v != "" {
		config.PaymentEndpoint = v
	}
	if v := os.Getenv("SEVA_ADMIN_USERNAME"); v != "" {
		config.AdminUsername = v
	}
	if v := os.Getenv("SEVA_ADMIN_PASSWORD"); v != "" {
		config.AdminPassword = v
	}
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
