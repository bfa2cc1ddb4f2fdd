// Package config provides configuration management for the ledger daemon.
//
// The daemon configuration covers four areas:
//
//   - HTTP API: bind address, basic-auth credentials
//   - Audit engine: submission caps, worker pool size, flush interval
//   - Audit sinks: which sinks receive submissions and where they write
//   - Producer: whether synthetic traffic is generated and how fast
//
// Values arrive from cobra flags into Global, are overridden by environment
// variables in InitializeConfig, and are normalized by ValidateConfig. The
// configuration tracks which values were explicitly set on the command line
// so environment overrides never replace a flag the operator typed.
package config

import (
	"time"

	"github.com/concave-dev/ledger/internal/audit"
	"github.com/concave-dev/ledger/internal/audit/sink"
	configDefaults "github.com/concave-dev/ledger/internal/config"
)

// ConfigField represents a configuration field that can be explicitly set
type ConfigField int

const (
	// Configuration field identifiers
	APIAddrField ConfigField = iota
	LogFileField
	AuditMaxTxField
	AuditMaxValueField
	AuditWorkersField
	AuditFlushField
	AuthPasswordField
)

const (
	DefaultAPI              = configDefaults.DefaultBindAddr + ":8080" // Default API address
	DefaultLogLevel         = configDefaults.DefaultLogLevel           // Default log level
	DefaultSinks            = configDefaults.DefaultSinks              // Default audit sinks
	DefaultAuthUser         = configDefaults.DefaultAuthUser           // Default basic-auth user
	DefaultMetricsNamespace = configDefaults.DefaultMetricsNamespace   // Default Prometheus namespace
	DefaultShutdownTimeout  = configDefaults.DefaultShutdownTimeout    // Default API drain timeout
)

// Environment variables read by InitializeConfig
const (
	EnvDebug         = "DEBUG"
	EnvAuditMaxTx    = "LEDGER_AUDIT_MAX_TX"
	EnvAuditMaxValue = "LEDGER_AUDIT_MAX_VALUE"
	EnvAuditWorkers  = "LEDGER_AUDIT_WORKERS"
	EnvAuditFlush    = "LEDGER_AUDIT_FLUSH"
	EnvAuthPassword  = "LEDGER_AUTH_PASSWORD"
)

// Config holds all daemon configuration values
type Config struct {
	Name     string // Instance name; generated when empty
	APIAddr  string // HTTP API server address (host:port on the command line)
	APIPort  int    // HTTP API server port (derived from APIAddr)
	LogLevel string // Log level: DEBUG, INFO, WARN, ERROR
	LogFile  string // Optional log file; all levels go there when set

	AuditMaxTx     int           // Max transactions per submission
	AuditMaxValue  float64       // Max absolute value per batch
	AuditWorkers   int           // Concurrent submission workers
	AuditFlush     time.Duration // Periodic flush interval
	AuditSortDesc  bool          // Pack largest magnitudes first
	MetricsNS      string        // Prometheus namespace
	ShutdownWait   time.Duration // HTTP API drain timeout on shutdown
	ProducerOn     bool          // Generate synthetic transactions
	ProducerPeriod time.Duration // Interval of each credit and debit loop

	Sinks          string        // Comma-separated sink names
	SinkFile       string        // JSON-lines path for the file sink
	SinkWebhook    string        // Endpoint for the webhook sink
	SinkWebhookTTL time.Duration // Webhook request timeout
	SinkZMQ        string        // Bind endpoint for the zmq sink
	SinkArrow      string        // IPC stream path for the arrow sink

	AuthUser     string // Basic-auth username for account routes
	AuthPassword string // Basic-auth password; generated when empty

	// Flags to track if values were explicitly set by user
	explicit map[ConfigField]bool
}

// Global configuration instance
var Global = Defaults()

// Defaults returns a Config populated with the flag defaults.
func Defaults() Config {
	return Config{
		APIAddr:        DefaultAPI,
		LogLevel:       DefaultLogLevel,
		AuditMaxTx:     audit.DefaultMaxTransactionsPerSubmission,
		AuditMaxValue:  audit.DefaultMaxBatchTotalValue,
		AuditWorkers:   audit.DefaultWorkerPoolSize,
		AuditFlush:     audit.DefaultFlushInterval,
		MetricsNS:      DefaultMetricsNamespace,
		ShutdownWait:   DefaultShutdownTimeout,
		ProducerOn:     true,
		ProducerPeriod: 40 * time.Millisecond,
		Sinks:          DefaultSinks,
		SinkWebhookTTL: sink.DefaultWebhookTimeout,
		SinkZMQ:        "tcp://127.0.0.1:5563",
		AuthUser:       DefaultAuthUser,
	}
}

// SetExplicitlySet marks a configuration field as explicitly set by the user.
func (c *Config) SetExplicitlySet(field ConfigField, value bool) {
	if c.explicit == nil {
		c.explicit = make(map[ConfigField]bool)
	}
	c.explicit[field] = value
}

// IsExplicitlySet returns whether a configuration field was explicitly set by the user.
func (c *Config) IsExplicitlySet(field ConfigField) bool {
	return c.explicit[field]
}
