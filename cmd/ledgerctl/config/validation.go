package config

import (
	"fmt"
	"os"

	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/validate"
	"github.com/spf13/cobra"
)

// ValidateGlobalFlags validates all global flags before running any command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateAPIAddress(); err != nil {
		return err
	}

	if err := ValidateOutputFormat(); err != nil {
		return err
	}

	if err := ValidateCredentials(); err != nil {
		return err
	}

	if Global.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", Global.Timeout)
	}

	if Watch.Enabled && Watch.Seconds < 1 {
		return fmt.Errorf("watch interval must be at least 1 second, got %d", Watch.Seconds)
	}

	return logging.ValidateLogLevel(Global.LogLevel)
}

// ValidateAPIAddress validates the --api flag
func ValidateAPIAddress() error {
	netAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address - expected format: host:port (e.g., %s)", DefaultAPIAddr)
	}

	// Reject unroutable 0.0.0.0 target for client connections
	if netAddr.Host == "0.0.0.0" {
		logging.Error("Unroutable API address '0.0.0.0:%d' - cannot connect to 0.0.0.0", netAddr.Port)
		return fmt.Errorf("unroutable API address - use 127.0.0.1 or a specific IP address")
	}

	if err := validate.ValidatePortRange(netAddr.Port); err != nil {
		logging.Error("Invalid API port %d: %v", netAddr.Port, err)
		return fmt.Errorf("API port must be between 1-65535")
	}

	return nil
}

// ValidateOutputFormat validates the --output flag
func ValidateOutputFormat() error {
	switch Global.Output {
	case OutputTable, OutputJSON:
		return nil
	default:
		logging.Error("Invalid output format '%s' - valid formats are: table, json", Global.Output)
		return fmt.Errorf("invalid output format - valid: table, json")
	}
}

// ValidateCredentials validates --user and fills an empty --password from
// the environment. An empty password is allowed; the daemon will answer
// 401 and the command reports it.
func ValidateCredentials() error {
	if err := validate.UsernameFormat(Global.User); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	if Global.Password == "" {
		Global.Password = os.Getenv(EnvPassword)
	}
	return nil
}
