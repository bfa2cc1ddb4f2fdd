package audit

import "context"

// Sink receives completed submissions from the audit engine. Implementations
// must be safe for concurrent use because up to WorkerPoolSize workers may
// deliver at the same time.
//
// Decouples the engine from the concrete delivery mechanism (log, file,
// webhook, message bus) so the packing pipeline can be exercised in tests
// with an in-memory recorder.
type Sink interface {
	Handle(ctx context.Context, s Submission) error // Deliver one non-empty submission
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(ctx context.Context, s Submission) error

// Handle calls f(ctx, s).
func (f SinkFunc) Handle(ctx context.Context, s Submission) error {
	return f(ctx, s)
}
