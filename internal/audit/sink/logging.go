// Package sink provides the delivery targets for audit submissions: the
// structured log, an append-only JSON-lines file, an HTTP webhook, a ZeroMQ
// publisher, and an Apache Arrow IPC stream file. Sinks can be combined with
// Multi so one submission reaches several targets.
//
// Every sink implements audit.Sink and is safe for concurrent use by the
// engine's worker pool. Sinks that hold resources also implement io.Closer.
package sink

import (
	"context"

	"github.com/concave-dev/ledger/internal/audit"
	"github.com/concave-dev/ledger/internal/logging"
)

// Logging writes each submission's wire shape to the INFO log.
type Logging struct{}

// NewLogging creates a log sink.
func NewLogging() *Logging {
	return &Logging{}
}

// Handle logs the submission. Never fails.
func (l *Logging) Handle(_ context.Context, s audit.Submission) error {
	logging.Info("Audit: Submission %s (%d txs): %s", s.ID, s.TxCount(), s.String())
	return nil
}
