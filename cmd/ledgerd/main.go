// Package main implements the ledger daemon (ledgerd).
package main

import (
	"os"

	"github.com/concave-dev/ledger/cmd/ledgerd/commands"
)

func main() {
	commands.SetupCommands()

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
