// Package commands provides the CLI command structure for the ledger daemon.
//
// The daemon is a single root command with flags for the HTTP API, the
// audit engine, audit sinks and the synthetic producer. PreRunE tracks
// which flags were typed, opens the log file, applies environment
// overrides and validates everything before daemon.Run starts services.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/concave-dev/ledger/cmd/ledgerd/config"
	"github.com/concave-dev/ledger/cmd/ledgerd/daemon"
	"github.com/concave-dev/ledger/cmd/ledgerd/utils"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/version"
	"github.com/spf13/cobra"
)

// Global variable to track log file handle for cleanup
var logFileHandle *os.File

// CleanupLogFile closes the log file handle if it exists
func CleanupLogFile() {
	if logFileHandle != nil {
		if err := logFileHandle.Close(); err != nil {
			// Logging may point at the file being closed
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		logFileHandle = nil
	}
}

// openLogFile creates the parent directory and opens path for appending
func openLogFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// Root command for the ledger daemon
var RootCmd = &cobra.Command{
	Use:   "ledgerd",
	Short: "Account balance tracker with batched transaction auditing",
	Long: `Ledger daemon (ledgerd) tracks the balance of a bank account and audits
every transaction it applies.

Transactions are queued and packed into submissions of batches bounded by
count and value, then delivered to one or more audit sinks. A synthetic
producer generates credits and debits unless --producer=false is given.`,
	Version:      version.LedgerdVersion,
	SilenceUsage: true, // Don't show usage on errors
	Example: `  # Start with defaults (API on 0.0.0.0:8080, log sink, producer on)
  ledgerd

  # Smaller submissions flushed every second, written to a file
  ledgerd --audit-max-tx=100 --audit-flush=1s --sink=log,file --sink-file=/var/log/ledger/audit.jsonl

  # Publish submissions on ZeroMQ and export them as Arrow
  ledgerd --sink=zmq,arrow --sink-zmq=tcp://*:5563 --sink-arrow=./audit.arrow

  # Serve the API only, no synthetic traffic
  ledgerd --producer=false --auth-user=auditor --auth-password=change-me-now`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.DisplayLogo(version.LedgerdVersion)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		CheckExplicitFlags(cmd)

		if config.Global.IsExplicitlySet(config.LogFileField) && config.Global.LogFile != "" {
			f, err := openLogFile(config.Global.LogFile)
			if err != nil {
				return err
			}
			logFileHandle = f
			logging.SetOutput(f)
		}

		// Apply the level before InitializeConfig logs, then again for DEBUG=true
		logging.SetLevel(config.Global.LogLevel)
		config.InitializeConfig()
		logging.SetLevel(config.Global.LogLevel)

		if err := config.ValidateConfig(); err != nil {
			CleanupLogFile()
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer CleanupLogFile()
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	SetupFlags(RootCmd)
}
