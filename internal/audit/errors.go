package audit

import (
	"errors"
	"fmt"
)

var (
	// ErrIngestFailed is returned by Submit when the caller's context was
	// cancelled before the transaction could be enqueued.
	ErrIngestFailed = errors.New("audit: transaction ingest failed")

	// ErrEngineStopped is returned by Submit once shutdown has begun.
	ErrEngineStopped = errors.New("audit: engine is not accepting transactions")

	// ErrInvalidTransaction is returned for a Tx with an empty id or a
	// non-finite amount. Such a Tx is never enqueued.
	ErrInvalidTransaction = errors.New("audit: invalid transaction")
)

// SinkError records a failed hand-off of a submission to the configured sink.
// Sink failures are logged and counted by the engine; they are never
// returned to transaction producers.
type SinkError struct {
	SubmissionID string // Submission that could not be delivered
	Batches      int    // Number of batches in the lost submission
	Err          error  // Underlying sink failure
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink rejected submission %s (%d batches): %v", e.SubmissionID, e.Batches, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
