// Package main provides the entry point for the ledger CLI (ledgerctl).
//
// The CLI queries a running ledgerd over its HTTP API. init wires the
// command tree from the commands package to the handlers package and
// binds flags to the config globals before cobra parses them.
package main

import (
	"os"

	"github.com/concave-dev/ledger/cmd/ledgerctl/commands"
	"github.com/concave-dev/ledger/cmd/ledgerctl/config"
	"github.com/concave-dev/ledger/cmd/ledgerctl/handlers"
)

func init() {
	rootCmd := commands.RootCmd

	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	commands.SetupCommands()

	commands.SetupGlobalFlags(rootCmd, &config.Global.APIAddr, &config.Global.LogLevel,
		&config.Global.Timeout, &config.Global.Verbose, &config.Global.Output, config.DefaultAPIAddr)
	commands.SetupAuthFlags(rootCmd, &config.Global.User, &config.Global.Password,
		config.DefaultUser, config.EnvPassword)

	balanceCmd, healthCmd := commands.GetBalanceCommands()
	commands.SetupWatchFlags(&config.Watch.Enabled, &config.Watch.Seconds, balanceCmd, healthCmd)

	setupCommandHandlers()
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	balanceCmd, healthCmd := commands.GetBalanceCommands()
	balanceCmd.RunE = handlers.HandleBalance
	healthCmd.RunE = handlers.HandleHealth

	commands.GetAuditCommands().RunE = handlers.HandleAuditStats
}

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
