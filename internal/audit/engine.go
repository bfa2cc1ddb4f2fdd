// Package audit implements the transaction audit pipeline: an unbounded
// ingestion queue, a best-fit batch packer, and a bounded pool of workers
// that turn drained transactions into submissions for an external sink.
//
// TRIGGERING STRATEGY:
// Work is started from two places. Submit triggers a worker inline whenever
// the queue depth reaches MaxTransactionsPerSubmission, so bursts are packed
// as soon as a full submission is available. A background flusher triggers
// every FlushInterval regardless of depth, so trickling traffic is still
// delivered with bounded latency.
//
// CONCURRENCY MODEL:
//   - Worker permits: a weighted semaphore with WorkerPoolSize permits,
//     acquired without blocking. A trigger that finds no free permit is
//     dropped; the next threshold crossing or tick picks up the backlog.
//   - Ownership: a drained slice belongs to exactly one worker, so batches
//     are never shared between goroutines.
//   - Ordering: FIFO per producer into the queue; no ordering between the
//     submissions of different workers.
//
// LIFECYCLE:
// Running -> Draining -> Stopped. Shutdown stops the flusher, waits for
// in-flight workers, then performs one final synchronous drain so that up to
// one more submission's worth of queued transactions is delivered.
package audit

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/utils"
	"golang.org/x/sync/semaphore"
)

// State is the lifecycle phase of an Engine.
type State int32

const (
	StateRunning  State = iota // Accepting transactions
	StateDraining              // Shutdown in progress, Submit rejected
	StateStopped               // Final flush complete
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Stats is a point-in-time snapshot of engine counters. At quiescence
// Submitted equals Packed + Oversized + QueueDepth.
type Stats struct {
	State                string `json:"state"`
	QueueDepth           int    `json:"queue_depth"`
	WorkerPoolSize       int    `json:"worker_pool_size"`
	Submitted            int64  `json:"transactions_submitted"`
	Rejected             int64  `json:"transactions_rejected"`
	Packed               int64  `json:"transactions_packed"`
	Oversized            int64  `json:"transactions_oversized"`
	SubmissionsDelivered int64  `json:"submissions_delivered"`
	SinkFailures         int64  `json:"sink_failures"`
	TriggersDropped      int64  `json:"triggers_dropped"`
	WorkerRuns           int64  `json:"worker_runs"`
}

// Option customises an Engine at construction time.
type Option func(*Engine)

// WithClock replaces the wall clock used by the flusher and pack timing.
// Tests pass a clock.Mock to drive periodic flushes deterministically.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithMetrics attaches Prometheus instruments to the engine.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithContext sets the base context handed to the sink on every delivery.
// Defaults to context.Background().
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		e.baseCtx = ctx
	}
}

// Engine is the audit batching engine. It owns the ingestion queue, the
// worker permits, and the periodic flusher, and hands every non-empty
// submission to its Sink.
type Engine struct {
	cfg  *Config
	caps Caps

	queue   *Queue
	sink    Sink
	permits *semaphore.Weighted

	clock   clock.Clock
	metrics *Metrics
	baseCtx context.Context

	// Lifecycle. mu serialises state transitions against Submit and
	// worker registration so no worker starts after Shutdown begins waiting.
	mu        sync.RWMutex
	state     atomic.Int32
	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	flusherWg sync.WaitGroup
	workerWg  sync.WaitGroup

	// Counters for Stats
	submitted       atomic.Int64
	rejected        atomic.Int64
	packed          atomic.Int64
	oversized       atomic.Int64
	delivered       atomic.Int64
	sinkFailures    atomic.Int64
	triggersDropped atomic.Int64
	workerRuns      atomic.Int64
	submissionSeq   atomic.Uint64
}

// NewEngine creates an audit engine delivering to sink. The configuration is
// validated; a nil config selects DefaultConfig. The engine accepts
// transactions immediately but the periodic flusher only runs after Start.
func NewEngine(cfg *Config, sink Sink, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, fmt.Errorf("audit sink is required")
	}

	e := &Engine{
		cfg:     cfg,
		caps:    cfg.Caps(),
		queue:   NewQueue(),
		sink:    sink,
		permits: semaphore.NewWeighted(int64(cfg.WorkerPoolSize)),
		clock:   clock.New(),
		baseCtx: context.Background(),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.Store(int32(StateRunning))
	return e, nil
}

// Start launches the periodic flusher. Calling Start more than once, or
// after Shutdown, has no effect.
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		e.mu.RLock()
		defer e.mu.RUnlock()
		if e.State() != StateRunning {
			return
		}

		// Create the ticker before returning so a mock clock advanced right
		// after Start is guaranteed to reach it
		ticker := e.clock.Ticker(e.cfg.FlushInterval)
		e.flusherWg.Add(1)
		go e.runFlusher(ticker)

		logging.Info("Audit: Started engine (max_tx=%d, max_value=%.2f, workers=%d, flush=%s)",
			e.cfg.MaxTransactionsPerSubmission, e.cfg.MaxBatchTotalValue,
			e.cfg.WorkerPoolSize, e.cfg.FlushInterval)
	})
}

// Submit enqueues tx for auditing. Returns ErrInvalidTransaction for a Tx
// with an empty id or non-finite amount, ErrEngineStopped once shutdown
// has begun and ErrIngestFailed if ctx is cancelled before the enqueue.
// When the queue depth reaches MaxTransactionsPerSubmission a worker is
// triggered inline; Submit itself never waits for packing.
func (e *Engine) Submit(ctx context.Context, tx Tx) error {
	if err := tx.Validate(); err != nil {
		e.reject()
		return err
	}

	e.mu.RLock()
	if e.State() != StateRunning {
		e.mu.RUnlock()
		e.reject()
		return ErrEngineStopped
	}
	if err := e.queue.Put(ctx, tx); err != nil {
		e.mu.RUnlock()
		e.reject()
		return err
	}
	depth := e.queue.Len()
	e.mu.RUnlock()

	e.submitted.Add(1)
	if e.metrics != nil {
		e.metrics.TransactionsSubmitted.Inc()
		e.metrics.QueueDepth.Set(float64(depth))
	}

	if depth >= e.cfg.MaxTransactionsPerSubmission {
		e.tryTrigger("threshold")
	}
	return nil
}

// Shutdown stops the engine: new submissions are rejected, the flusher is
// stopped, in-flight workers are awaited, and one final drain of up to
// MaxTransactionsPerSubmission transactions is packed and delivered.
// Safe to call more than once; later calls return once the first completes.
func (e *Engine) Shutdown() {
	e.stopOnce.Do(func() {
		logging.Info("Audit: Shutting down engine (queued=%d)", e.queue.Len())

		e.mu.Lock()
		e.state.Store(int32(StateDraining))
		e.mu.Unlock()

		close(e.stopCh)
		e.flusherWg.Wait()
		e.workerWg.Wait()

		e.drainAndDeliver(e.baseCtx, "shutdown")

		e.state.Store(int32(StateStopped))
		if remaining := e.queue.Len(); remaining > 0 {
			logging.Warn("Audit: %d transactions left unaudited after final flush", remaining)
		}
		logging.Info("Audit: Engine stopped")
	})
}

// State returns the current lifecycle phase.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// QueueDepth returns the number of transactions awaiting packing.
func (e *Engine) QueueDepth() int {
	return e.queue.Len()
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		State:                e.State().String(),
		QueueDepth:           e.queue.Len(),
		WorkerPoolSize:       e.cfg.WorkerPoolSize,
		Submitted:            e.submitted.Load(),
		Rejected:             e.rejected.Load(),
		Packed:               e.packed.Load(),
		Oversized:            e.oversized.Load(),
		SubmissionsDelivered: e.delivered.Load(),
		SinkFailures:         e.sinkFailures.Load(),
		TriggersDropped:      e.triggersDropped.Load(),
		WorkerRuns:           e.workerRuns.Load(),
	}
}

// tryTrigger starts a worker if a permit is free. Returns false when the
// trigger was dropped, either because every permit is held or because the
// engine is no longer running.
func (e *Engine) tryTrigger(reason string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.State() != StateRunning {
		return false
	}
	if !e.permits.TryAcquire(1) {
		e.triggersDropped.Add(1)
		if e.metrics != nil {
			e.metrics.TriggersDropped.Inc()
		}
		logging.Debug("Audit: Dropped %s trigger, all %d workers busy", reason, e.cfg.WorkerPoolSize)
		return false
	}

	e.workerRuns.Add(1)
	e.workerWg.Add(1)
	go e.runWorker(reason)
	return true
}

// runWorker performs one drain-and-pack cycle while holding a permit.
func (e *Engine) runWorker(reason string) {
	defer e.workerWg.Done()
	defer e.permits.Release(1)

	if e.metrics != nil {
		e.metrics.WorkersActive.Inc()
		defer e.metrics.WorkersActive.Dec()
	}

	e.drainAndDeliver(e.baseCtx, reason)
}

// runFlusher triggers a worker on every tick until the engine stops.
// Ticks that arrive while a previous tick is unconsumed are coalesced by
// the ticker channel.
func (e *Engine) runFlusher(ticker *clock.Ticker) {
	defer e.flusherWg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.tryTrigger("periodic")
		}
	}
}

// drainAndDeliver drains up to one submission's worth of transactions,
// packs them, and hands a non-empty result to the sink.
func (e *Engine) drainAndDeliver(ctx context.Context, reason string) {
	txs := e.queue.DrainUpTo(e.cfg.MaxTransactionsPerSubmission)
	if e.metrics != nil {
		e.metrics.QueueDepth.Set(float64(e.queue.Len()))
	}
	if len(txs) == 0 {
		return
	}

	if e.cfg.SortDescending {
		txs = SortByMagnitudeDesc(txs)
	}

	start := e.clock.Now()
	result := Pack(txs, e.caps)
	elapsed := e.clock.Since(start)

	packed := result.Submission.TxCount()
	e.packed.Add(int64(packed))
	e.oversized.Add(int64(result.Oversized))
	if e.metrics != nil {
		e.metrics.PackDuration.Observe(elapsed.Seconds())
		e.metrics.TransactionsPacked.Add(float64(packed))
		e.metrics.TransactionsOversized.Add(float64(result.Oversized))
	}

	if result.Submission.Empty() {
		logging.Debug("Audit: Drained %d transactions (%s) but nothing was packable", len(txs), reason)
		return
	}

	result.Submission.ID = e.nextSubmissionID()
	e.deliver(ctx, result.Submission)
	logging.Debug("Audit: Packed %d transactions into %d batches (%s, %s)",
		packed, len(result.Submission.Batches), reason, elapsed)
}

// deliver hands a submission to the sink. Failures, including panics, are
// logged and counted but never propagated.
func (e *Engine) deliver(ctx context.Context, s Submission) {
	if err := e.handleSafely(ctx, s); err != nil {
		sinkErr := &SinkError{SubmissionID: s.ID, Batches: len(s.Batches), Err: err}
		e.sinkFailures.Add(1)
		if e.metrics != nil {
			e.metrics.SinkFailures.Inc()
		}
		logging.Error("Audit: %v", sinkErr)
		return
	}

	e.delivered.Add(1)
	if e.metrics != nil {
		e.metrics.SubmissionsDelivered.Inc()
		e.metrics.BatchesPerSubmission.Observe(float64(len(s.Batches)))
	}
}

// handleSafely invokes the sink and converts a panic into an error so a
// faulty sink cannot take down the worker pool.
func (e *Engine) handleSafely(ctx context.Context, s Submission) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Debug("Audit: Sink panic stack:\n%s", debug.Stack())
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	return e.sink.Handle(ctx, s)
}

// nextSubmissionID returns a short random id, falling back to a sequence
// number if the random source fails.
func (e *Engine) nextSubmissionID() string {
	seq := e.submissionSeq.Add(1)
	id, err := utils.GenerateID()
	if err != nil {
		logging.Debug("Audit: Falling back to sequence id: %v", err)
		return fmt.Sprintf("sub-%d", seq)
	}
	return id
}

func (e *Engine) reject() {
	e.rejected.Add(1)
	if e.metrics != nil {
		e.metrics.TransactionsRejected.Inc()
	}
}
