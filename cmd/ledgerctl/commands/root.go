// Package commands defines the ledgerctl command tree.
//
// COMMAND STRUCTURE:
//   - balance: current account balance
//   - audit stats: audit engine counters
//   - health: daemon health and audit engine state
//
// RunE functions are assigned by the main package so command definitions
// stay free of API and display dependencies.
package commands

import (
	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "CLI tool for the ledger daemon",
	Long: `Ledger CLI (ledgerctl) queries a running ledgerd daemon for the
account balance and the state of the transaction audit pipeline.`,
	SilenceUsage: true,
	Example: `  # Show the current balance
  ledgerctl balance

  # Watch the balance change
  ledgerctl balance --watch

  # Show audit engine counters, including failure counters
  ledgerctl -v audit stats

  # Connect to a remote daemon with credentials
  ledgerctl --api=192.168.1.100:8080 --user=test --password=secret balance

  # Output in JSON format
  ledgerctl -o json audit stats`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(balanceCmd)
	RootCmd.AddCommand(auditCmd)
	RootCmd.AddCommand(healthCmd)

	auditCmd.AddCommand(auditStatsCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, apiAddrPtr *string, logLevelPtr *string,
	timeoutPtr *int, verbosePtr *bool, outputPtr *string, defaultAPIAddr string) {
	rootCmd.PersistentFlags().StringVar(apiAddrPtr, "api", defaultAPIAddr,
		"API server address (host:port)")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", 8,
		"Connection timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
}

// SetupAuthFlags configures the basic-auth flags
func SetupAuthFlags(rootCmd *cobra.Command, userPtr, passwordPtr *string, defaultUser, passwordEnv string) {
	rootCmd.PersistentFlags().StringVarP(userPtr, "user", "u", defaultUser,
		"API basic-auth username")
	rootCmd.PersistentFlags().StringVarP(passwordPtr, "password", "p", "",
		"API basic-auth password (defaults to $"+passwordEnv+")")
}
