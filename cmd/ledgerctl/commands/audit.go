package commands

import (
	"github.com/spf13/cobra"
)

// Audit command (parent command for audit operations)
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the transaction audit pipeline",
	Long: `Commands for inspecting the audit engine that packs accepted
transactions into batches and delivers them to the configured sinks.`,
}

// Audit stats command
var auditStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show audit engine counters",
	Long: `Show the audit engine state, queue depth and delivery counters.

Use --verbose to include rejected, oversized and failed deliveries.`,
	Example: `  # Show counters
  ledgerctl audit stats

  # Include failure counters, as JSON
  ledgerctl -v -o json audit stats`,
	Args: cobra.NoArgs,
}

// GetAuditCommands returns audit command references for handler wiring
func GetAuditCommands() *cobra.Command {
	return auditStatsCmd
}
