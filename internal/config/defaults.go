// Package config provides default values shared by ledgerd components (HTTP
// API, audit engine, producer, sinks) so the daemon flags and the component
// DefaultConfig functions agree.
package config

import "time"

const (
	// DefaultBindAddr is the default bind address for the HTTP API
	// Using 0.0.0.0 allows binding to all available network interfaces
	// TODO: Add support for IPv6 bind addresses (::)
	DefaultBindAddr = "0.0.0.0"

	// DefaultAPIPort is the default HTTP API port
	DefaultAPIPort = 8080

	// DefaultLogLevel is the default log level for all components
	DefaultLogLevel = "INFO"

	// DefaultAuthUser is the basic-auth username protecting account routes
	DefaultAuthUser = "test"

	// DefaultMetricsNamespace prefixes every exported Prometheus metric
	DefaultMetricsNamespace = "ledger"

	// DefaultSinks is the comma-separated list of audit sinks enabled when
	// --sink is not given
	DefaultSinks = "log"

	// DefaultShutdownTimeout bounds how long the HTTP API waits for
	// in-flight requests on shutdown
	DefaultShutdownTimeout = 10 * time.Second
)
