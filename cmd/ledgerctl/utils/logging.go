// Package utils provides helpers shared by ledgerctl commands.
package utils

import (
	"os"

	"github.com/concave-dev/ledger/cmd/ledgerctl/config"
	"github.com/concave-dev/ledger/internal/logging"
)

// RestyLogger implements resty.Logger and routes logs through structured logging
type RestyLogger struct{}

func (RestyLogger) Errorf(format string, v ...interface{}) {
	logging.Error(format, v...)
}

func (RestyLogger) Warnf(format string, v ...interface{}) {
	logging.Warn(format, v...)
}

func (RestyLogger) Debugf(format string, v ...interface{}) {
	logging.Debug(format, v...)
}

// SetupLogging keeps CLI output clean: only errors are shown unless
// DEBUG=true, which restores full debug logging.
func SetupLogging() {
	if os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}

	logging.SetLevel(config.Global.LogLevel)
	logging.SuppressOutput()
}
