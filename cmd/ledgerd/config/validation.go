package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/concave-dev/ledger/internal/audit"
	"github.com/concave-dev/ledger/internal/audit/sink"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/producer"
	"github.com/concave-dev/ledger/internal/validate"
)

// InitializeConfig applies environment variable overrides to Global.
// Overrides only replace values whose flag was not given explicitly;
// DEBUG=true always forces DEBUG logging. Malformed values are ignored with
// a warning.
func InitializeConfig() {
	if os.Getenv(EnvDebug) == "true" {
		Global.LogLevel = "DEBUG"
		logging.Info("DEBUG environment variable detected, setting log level to DEBUG")
	}

	if v := os.Getenv(EnvAuditMaxTx); v != "" && !Global.IsExplicitlySet(AuditMaxTxField) {
		if n, err := strconv.Atoi(v); err == nil {
			Global.AuditMaxTx = n
			logging.Info("%s environment variable detected, max transactions per submission %d", EnvAuditMaxTx, n)
		} else {
			logging.Warn("Invalid %s environment variable '%s', using %d", EnvAuditMaxTx, v, Global.AuditMaxTx)
		}
	}

	if v := os.Getenv(EnvAuditMaxValue); v != "" && !Global.IsExplicitlySet(AuditMaxValueField) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			Global.AuditMaxValue = f
			logging.Info("%s environment variable detected, max batch value %v", EnvAuditMaxValue, f)
		} else {
			logging.Warn("Invalid %s environment variable '%s', using %v", EnvAuditMaxValue, v, Global.AuditMaxValue)
		}
	}

	if v := os.Getenv(EnvAuditWorkers); v != "" && !Global.IsExplicitlySet(AuditWorkersField) {
		if n, err := strconv.Atoi(v); err == nil {
			Global.AuditWorkers = n
			logging.Info("%s environment variable detected, worker pool size %d", EnvAuditWorkers, n)
		} else {
			logging.Warn("Invalid %s environment variable '%s', using %d", EnvAuditWorkers, v, Global.AuditWorkers)
		}
	}

	if v := os.Getenv(EnvAuditFlush); v != "" && !Global.IsExplicitlySet(AuditFlushField) {
		if d, err := time.ParseDuration(v); err == nil {
			Global.AuditFlush = d
			logging.Info("%s environment variable detected, flush interval %s", EnvAuditFlush, d)
		} else {
			logging.Warn("Invalid %s environment variable '%s', using %s", EnvAuditFlush, v, Global.AuditFlush)
		}
	}

	if v := os.Getenv(EnvAuthPassword); v != "" && !Global.IsExplicitlySet(AuthPasswordField) {
		Global.AuthPassword = v
		logging.Debug("%s environment variable detected", EnvAuthPassword)
	}
}

// ValidateConfig validates and normalizes Global before the daemon starts.
//
// The API address is split into host and port, and every component
// configuration the daemon will build (audit engine, sinks, producer) is
// validated here so misconfiguration is reported before anything binds.
func ValidateConfig() error {
	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	if Global.Name != "" {
		if err := validate.InstanceName(Global.Name); err != nil {
			return err
		}
	}

	apiNetAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address: %w", err)
	}
	if err := validate.ValidatePortRange(apiNetAddr.Port); err != nil {
		logging.Error("API port cannot be 0 (auto-assigned) - ledgerctl needs a predictable address")
		return fmt.Errorf("API address requires specific port (not 0): %w", err)
	}
	Global.APIAddr = apiNetAddr.Host
	Global.APIPort = apiNetAddr.Port

	if err := validate.UsernameFormat(Global.AuthUser); err != nil {
		return fmt.Errorf("invalid auth user: %w", err)
	}
	if Global.AuthPassword != "" {
		if err := validate.PasswordStrength(Global.AuthPassword); err != nil {
			return fmt.Errorf("invalid auth password: %w", err)
		}
	}

	if err := Global.AuditConfig().Validate(); err != nil {
		return fmt.Errorf("invalid audit configuration: %w", err)
	}
	if err := Global.SinkConfig().Validate(); err != nil {
		return fmt.Errorf("invalid sink configuration: %w", err)
	}
	if Global.ProducerOn {
		if err := Global.ProducerConfig().Validate(); err != nil {
			return err
		}
	}
	if err := validate.ValidatePositiveTimeout(Global.ShutdownWait, "shutdown timeout"); err != nil {
		return err
	}
	if err := validate.ValidateRequiredString(Global.MetricsNS, "metrics namespace"); err != nil {
		return err
	}

	return nil
}

// AuditConfig converts the daemon flags to an audit engine configuration
func (c *Config) AuditConfig() *audit.Config {
	cfg := audit.DefaultConfig()
	cfg.MaxTransactionsPerSubmission = c.AuditMaxTx
	cfg.MaxBatchTotalValue = c.AuditMaxValue
	cfg.WorkerPoolSize = c.AuditWorkers
	cfg.FlushInterval = c.AuditFlush
	cfg.SortDescending = c.AuditSortDesc
	return cfg
}

// SinkConfig converts the daemon flags to a sink configuration
func (c *Config) SinkConfig() *sink.Config {
	cfg := sink.DefaultConfig()
	cfg.Names = sink.ParseNames(c.Sinks)
	cfg.FilePath = c.SinkFile
	cfg.WebhookURL = c.SinkWebhook
	cfg.WebhookTimeout = c.SinkWebhookTTL
	cfg.ZMQEndpoint = c.SinkZMQ
	cfg.ArrowPath = c.SinkArrow
	return cfg
}

// ProducerConfig converts the daemon flags to a producer configuration
func (c *Config) ProducerConfig() *producer.Config {
	cfg := producer.DefaultConfig()
	cfg.Interval = c.ProducerPeriod
	return cfg
}
