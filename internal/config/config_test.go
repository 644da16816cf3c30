package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"test"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "storefront.db", cfg.DatabasePath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.PaymentEndpoint)
	assert.Equal(t, "SevaAdmin393", cfg.AdminUsername)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("SEVA_LISTEN_ADDR", ":9090")
	t.Setenv("SEVA_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("SEVA_ADMIN_PASSWORD", "EnvSecret!42")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "EnvSecret!42", cfg.AdminPassword)
	assert.Equal(t, "storefront.db", cfg.DatabasePath, "unset variables keep defaults")
}

func TestParseJson(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"listen_addr": ":7070",
		"database_path": "/var/lib/seva/vault.db",
		"allowed_origins": ["https://shop.example.com"],
		"shutdown_timeout": "10s"
	}`), 0o600))

	withArgs(t, "-c", file)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/seva/vault.db", cfg.DatabasePath)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "SevaAdmin393", cfg.AdminUsername, "absent fields keep defaults")
}

func TestParseJson_NoFlag(t *testing.T) {
	withArgs(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestParseFlags(t *testing.T) {
	withArgs(t, "-a", ":6060", "-d", "test.db", "-o", "https://a.example.com,https://b.example.com", "-p", "http://localhost:9000/checkout")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6060", cfg.ListenAddr)
	assert.Equal(t, "test.db", cfg.DatabasePath)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://localhost:9000/checkout", cfg.PaymentEndpoint)
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	withArgs(t, "-c", "somewhere.json", "-a", ":6060")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6060", cfg.ListenAddr)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitOrigins("a, b,"))
	assert.Empty(t, splitOrigins(",,"))
}
