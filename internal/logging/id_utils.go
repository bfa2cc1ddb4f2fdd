package logging

import (
	"github.com/charmbracelet/log"
	"github.com/concave-dev/ledger/internal/utils"
)

// FormatID shortens transaction and submission ids for log lines. Full ids
// are kept when DEBUG is enabled so individual transactions can be traced.
//
// Usage: logging.Warn("Skipping transaction %s", logging.FormatID(tx.ID))
func FormatID(id string) string {
	_, errOut := loggers()
	if errOut.GetLevel() <= log.DebugLevel {
		return id
	}
	return utils.TruncateIDSafe(id)
}
