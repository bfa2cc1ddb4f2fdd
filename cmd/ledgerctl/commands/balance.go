package commands

import (
	"github.com/spf13/cobra"
)

// Balance command
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current account balance",
	Long: `Show the account balance maintained by the daemon.

The balance reflects every credit and debit the daemon has accepted,
rounded half-up to two decimal places.`,
	Example: `  # Show the balance
  ledgerctl balance

  # Refresh every 2 seconds until interrupted
  ledgerctl balance --watch`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// Health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show daemon health",
	Long: `Show whether the daemon is healthy. The daemon reports unavailable
once the audit engine stops accepting transactions during shutdown.`,
	Args: cobra.NoArgs,
}

// GetBalanceCommands returns the read commands that support --watch
func GetBalanceCommands() (*cobra.Command, *cobra.Command) {
	return balanceCmd, healthCmd
}

// SetupWatchFlags adds --watch and --interval to the given commands
func SetupWatchFlags(watchPtr *bool, intervalPtr *int, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.Flags().BoolVarP(watchPtr, "watch", "w", false,
			"Refresh output until interrupted")
		cmd.Flags().IntVar(intervalPtr, "interval", 2,
			"Watch refresh interval in seconds")
	}
}
