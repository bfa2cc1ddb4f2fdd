// Package api provides the HTTP surface of the ledger daemon.
//
// The server exposes the running account balance, audit engine statistics
// and Prometheus metrics to ledgerctl and to monitoring. Account routes are
// protected with HTTP Basic authentication against a bcrypt hash; health and
// metrics stay open so health checkers and scrapers need no credentials.
//
// Configuration validation ensures the server is wired to a balance tracker
// and an audit engine and that credentials are usable before the daemon
// starts accepting requests.
package api

import (
	"fmt"

	"github.com/concave-dev/ledger/internal/api/handlers"
	"github.com/concave-dev/ledger/internal/config"
	"github.com/concave-dev/ledger/internal/validate"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration parameters required for running the HTTP
// API server.
//
// The Config struct doubles as a dependency injection container: the
// server only sees read-only views of the tracker and engine, which keeps
// the handlers testable with fakes.
type Config struct {
	InstanceName     string                 // Daemon instance name reported by /health
	BindAddr         string                 // HTTP server bind address (e.g., "0.0.0.0")
	BindPort         int                    // HTTP server bind port
	Account          handlers.BalanceReader // Balance tracker backing /balance
	Engine           handlers.StatsReader   // Audit engine backing /audit/stats and /health
	AuthUser         string                 // Basic-auth username for protected routes
	AuthPasswordHash []byte                 // bcrypt hash of the basic-auth password
	Gatherer         prometheus.Gatherer    // Metrics source for /metrics; nil uses the default registry
}

// DefaultConfig creates a Config bound to loopback with the default user.
// Account, Engine and AuthPasswordHash must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		BindAddr: "127.0.0.1",
		BindPort: config.DefaultAPIPort,
		AuthUser: config.DefaultAuthUser,
	}
}

// Validate checks network settings, component wiring and credentials.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return fmt.Errorf("bind port validation failed: %w", err)
	}
	if c.Account == nil {
		return fmt.Errorf("balance tracker cannot be nil")
	}
	if c.Engine == nil {
		return fmt.Errorf("audit engine cannot be nil")
	}
	if err := validate.UsernameFormat(c.AuthUser); err != nil {
		return fmt.Errorf("auth user validation failed: %w", err)
	}
	if _, err := bcrypt.Cost(c.AuthPasswordHash); err != nil {
		return fmt.Errorf("auth password hash is not a bcrypt hash: %w", err)
	}

	return nil
}

// HashPassword checks password strength and returns its bcrypt hash for
// Config.AuthPasswordHash.
func HashPassword(password string) ([]byte, error) {
	if err := validate.PasswordStrength(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
