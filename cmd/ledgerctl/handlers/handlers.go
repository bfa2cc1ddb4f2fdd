// Package handlers holds the RunE implementations behind ledgerctl
// commands. Each handler configures CLI logging, calls the API client and
// hands the result to the display package.
package handlers

import (
	"time"

	"github.com/concave-dev/ledger/cmd/ledgerctl/client"
	"github.com/concave-dev/ledger/cmd/ledgerctl/config"
	"github.com/concave-dev/ledger/cmd/ledgerctl/display"
	"github.com/concave-dev/ledger/cmd/ledgerctl/utils"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/spf13/cobra"
)

func watchInterval() time.Duration {
	return time.Duration(config.Watch.Seconds) * time.Second
}

// HandleBalance handles the balance command
func HandleBalance(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()
	apiClient := client.CreateAPIClient()

	return utils.RunWithWatch(func() error {
		logging.Info("Fetching balance from API server: %s", config.Global.APIAddr)

		balance, err := apiClient.GetBalance()
		if err != nil {
			return err
		}

		display.DisplayBalance(balance)
		if !config.Watch.Enabled {
			logging.Success("Successfully retrieved balance")
		}
		return nil
	}, config.Watch.Enabled, watchInterval())
}

// HandleAuditStats handles the audit stats command
func HandleAuditStats(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	logging.Info("Fetching audit stats from API server: %s", config.Global.APIAddr)

	stats, err := client.CreateAPIClient().GetAuditStats()
	if err != nil {
		return err
	}

	display.DisplayAuditStats(stats)
	logging.Success("Successfully retrieved audit stats")
	return nil
}

// HandleHealth handles the health command. An unavailable daemon is still
// displayed before the error is returned so the exit code reflects it.
func HandleHealth(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()
	apiClient := client.CreateAPIClient()

	return utils.RunWithWatch(func() error {
		logging.Info("Checking health of API server: %s", config.Global.APIAddr)

		health, err := apiClient.GetHealth()
		if health != nil {
			display.DisplayHealth(health)
		}
		return err
	}, config.Watch.Enabled, watchInterval())
}
