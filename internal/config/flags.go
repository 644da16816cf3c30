package config

import (
	"flag"
	"os"

	"github.com/seva-innovations/storefront-vault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   SQLite database path
//	-o string   comma-separated CORS origins
//	-p string   checkout session endpoint
//	-u string   admin seed username
//	-w string   admin seed password
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled
// by the JSON overlay.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-o", "-p", "-u", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "SQLite database path")
	origins := fs.String("o", "", "comma-separated CORS origins")
	fs.StringVar(&config.PaymentEndpoint, "p", config.PaymentEndpoint, "checkout session endpoint")
	fs.StringVar(&config.AdminUsername, "u", config.AdminUsername, "admin username")
	fs.StringVar(&config.AdminPassword, "w", config.AdminPassword, "admin password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *origins != "" {
		config.AllowedOrigins = splitOrigins(*origins)
	}
}
