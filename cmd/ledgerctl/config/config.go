// Package config provides configuration management for the ledgerctl CLI.
package config

import (
	configDefaults "github.com/concave-dev/ledger/internal/config"
	"github.com/concave-dev/ledger/internal/version"
)

const (
	DefaultAPIAddr  = "127.0.0.1:8080"               // Default API server address (routable)
	DefaultUser     = configDefaults.DefaultAuthUser // Default basic-auth user
	EnvPassword     = "LEDGER_AUTH_PASSWORD"         // Password fallback when --password is empty
	DefaultTimeout  = 8                              // Seconds
	OutputTable     = "table"
	OutputJSON      = "json"
	DefaultLogLevel = "ERROR"
)

// Version returns the current ledgerctl CLI version from the centralized version package
var Version = version.LedgerctlVersion

// Global holds the global CLI configuration
var Global struct {
	APIAddr  string // Address of ledgerd API server to connect to
	LogLevel string // Log level for CLI operations
	Timeout  int    // Connection timeout in seconds
	Verbose  bool   // Show verbose output
	Output   string // Output format: table, json
	User     string // Basic-auth username
	Password string // Basic-auth password
}

// Watch holds the watch-mode configuration shared by read commands
var Watch struct {
	Enabled bool // Refresh output every interval until interrupted
	Seconds int  // Refresh interval in seconds
}
