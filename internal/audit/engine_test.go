package audit

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures delivered submissions and can be made to block,
// fail, or panic.
type recordingSink struct {
	mu   sync.Mutex
	subs []Submission

	err     error
	panicky bool

	entered chan struct{} // receives once per Handle call when non-nil
	release chan struct{} // Handle waits on this when non-nil

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (r *recordingSink) Handle(ctx context.Context, s Submission) error {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		cur := r.maxInFlight.Load()
		if n <= cur || r.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}
	if r.panicky {
		panic("sink exploded")
	}
	if r.err != nil {
		return r.err
	}

	r.mu.Lock()
	r.subs = append(r.subs, s)
	r.mu.Unlock()
	return nil
}

func (r *recordingSink) Submissions() []Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Submission, len(r.subs))
	copy(out, r.subs)
	return out
}

func testConfig(maxTx int, maxValue float64, workers int) *Config {
	return &Config{
		MaxTransactionsPerSubmission: maxTx,
		MaxBatchTotalValue:           maxValue,
		WorkerPoolSize:               workers,
		FlushInterval:                5 * time.Second,
	}
}

// newTestEngine builds an engine on a mock clock so the flusher only fires
// when the test advances time.
func newTestEngine(t *testing.T, cfg *Config, sink Sink) (*Engine, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	e, err := NewEngine(cfg, sink, WithClock(mock))
	require.NoError(t, err)
	t.Cleanup(e.Shutdown)
	return e, mock
}

func submitAll(t *testing.T, e *Engine, amounts ...float64) {
	t.Helper()
	for _, a := range amounts {
		require.NoError(t, e.Submit(context.Background(), NewTx(a)))
	}
}

func waitForSubmissions(t *testing.T, sink *recordingSink, n int) []Submission {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(sink.Submissions()) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return sink.Submissions()
}

func TestEngineThresholdDeliversFirstSubmission(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(10, 100, 1), sink)

	submitAll(t, e, 30, -40, 45, 25, -45, 65, -11, 5, 75, 25, -62, 24)

	subs := waitForSubmissions(t, sink, 1)
	assert.Equal(t, []Batch{
		{Count: 4, Total: 100},
		{Count: 2, Total: 90},
		{Count: 2, Total: 76},
		{Count: 2, Total: 100},
	}, subs[0].Batches)
	assert.NotEmpty(t, subs[0].ID)
}

func TestEngineOversizedOnlyDeliversNothing(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(1, 100, 1), sink)

	submitAll(t, e, 101)

	require.Eventually(t, func() bool {
		return e.Stats().Oversized == 1
	}, 2*time.Second, 5*time.Millisecond)

	e.Shutdown()
	assert.Empty(t, sink.Submissions())
	assert.Zero(t, e.Stats().SubmissionsDelivered)
}

func TestEngineDrainStopsAtCountCap(t *testing.T) {
	sink := &recordingSink{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	e, _ := newTestEngine(t, testConfig(1000, 100000, 1), sink)

	submitAll(t, e, repeat(1.0, 1000)...)

	// The worker has drained the first thousand once it reaches the sink
	<-sink.entered
	submitAll(t, e, 1.0)
	assert.Equal(t, 1, e.QueueDepth())

	close(sink.release)
	subs := waitForSubmissions(t, sink, 1)
	require.Len(t, subs, 1)
	assert.Equal(t, []Batch{{Count: 1000, Total: 1000}}, subs[0].Batches)
	assert.Equal(t, 1, e.QueueDepth())
}

func TestEngineSingleExactCapTransaction(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(1, 100, 1), sink)

	submitAll(t, e, 100)

	subs := waitForSubmissions(t, sink, 1)
	assert.Equal(t, []Batch{{Count: 1, Total: 100}}, subs[0].Batches)
}

func TestEngineFullValueTransactionsEachOwnBatch(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(20, 100, 1), sink)

	submitAll(t, e, repeat(100, 20)...)

	subs := waitForSubmissions(t, sink, 1)
	require.Len(t, subs[0].Batches, 20)
	for _, b := range subs[0].Batches {
		assert.Equal(t, Batch{Count: 1, Total: 100}, b)
	}
}

func TestEngineZeroAmountsShareBatch(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(10, 5, 1), sink)

	submitAll(t, e, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0)

	subs := waitForSubmissions(t, sink, 1)
	assert.Equal(t, []Batch{{Count: 10, Total: 5}}, subs[0].Batches)
}

func TestEnginePeriodicFlush(t *testing.T) {
	sink := &recordingSink{}
	e, mock := newTestEngine(t, testConfig(10, 100, 1), sink)
	e.Start()

	submitAll(t, e, 10, 20, 30)
	assert.Empty(t, sink.Submissions(), "below threshold nothing is delivered before a tick")

	mock.Add(5 * time.Second)

	subs := waitForSubmissions(t, sink, 1)
	assert.Equal(t, []Batch{{Count: 3, Total: 60}}, subs[0].Batches)
	assert.Zero(t, e.QueueDepth())
}

func TestEnginePeriodicFlushOnEmptyQueue(t *testing.T) {
	sink := &recordingSink{}
	e, mock := newTestEngine(t, testConfig(10, 100, 1), sink)
	e.Start()

	mock.Add(5 * time.Second)
	mock.Add(5 * time.Second)
	e.Shutdown()

	assert.Empty(t, sink.Submissions())
}

func TestEngineShutdownFinalFlush(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(10, 100, 2), sink)

	submitAll(t, e, 5, 15, 25)
	e.Shutdown()

	subs := sink.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, []Batch{{Count: 3, Total: 45}}, subs[0].Batches)
	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, "stopped", e.Stats().State)
}

func TestEngineShutdownIdempotent(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(10, 100, 1), sink)

	submitAll(t, e, 1, 2)
	e.Shutdown()
	e.Shutdown()

	assert.Len(t, sink.Submissions(), 1)
	assert.Equal(t, StateStopped, e.State())
}

func TestEngineShutdownEmptyDeliversNothing(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(10, 100, 1), sink)

	e.Shutdown()

	assert.Empty(t, sink.Submissions())
}

func TestEngineShutdownFlushesOneSubmissionWorth(t *testing.T) {
	sink := &recordingSink{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	e, _ := newTestEngine(t, testConfig(5, 100, 1), sink)

	submitAll(t, e, repeat(1, 5)...)
	<-sink.entered

	// Every further threshold trigger is dropped while the only permit is held
	submitAll(t, e, repeat(1, 12)...)
	assert.Equal(t, 12, e.QueueDepth())
	assert.Positive(t, e.Stats().TriggersDropped)

	done := make(chan struct{})
	go func() {
		e.Shutdown()
		close(done)
	}()

	close(sink.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	assert.Len(t, sink.Submissions(), 2)
	assert.Equal(t, 7, e.QueueDepth())
}

func TestEngineSubmitAfterShutdown(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(10, 100, 1), sink)
	e.Shutdown()

	err := e.Submit(context.Background(), NewTx(1))

	assert.ErrorIs(t, err, ErrEngineStopped)
	assert.Equal(t, int64(1), e.Stats().Rejected)
	assert.Zero(t, e.QueueDepth())
}

func TestEngineSubmitCancelledContext(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(10, 100, 1), sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Submit(ctx, NewTx(1))

	assert.ErrorIs(t, err, ErrIngestFailed)
	assert.Zero(t, e.QueueDepth())
	assert.Zero(t, e.Stats().Submitted)
}

func TestEngineRejectsInvalidTransactions(t *testing.T) {
	tests := []struct {
		name string
		tx   Tx
	}{
		{"empty id", Tx{Amount: 10}},
		{"NaN amount", Tx{ID: "nan", Amount: math.NaN()}},
		{"positive infinity", Tx{ID: "inf", Amount: math.Inf(1)}},
		{"negative infinity", Tx{ID: "-inf", Amount: math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			e, _ := newTestEngine(t, testConfig(10, 100, 1), sink)

			err := e.Submit(context.Background(), tt.tx)

			assert.ErrorIs(t, err, ErrInvalidTransaction)
			assert.Zero(t, e.QueueDepth())
			assert.Equal(t, int64(1), e.Stats().Rejected)
			assert.Zero(t, e.Stats().Submitted)
		})
	}
}

func TestEngineNaNDoesNotBreakValueCap(t *testing.T) {
	sink := &recordingSink{}
	e, _ := newTestEngine(t, testConfig(2, 100, 1), sink)

	err := e.Submit(context.Background(), Tx{Amount: math.NaN()})
	require.ErrorIs(t, err, ErrInvalidTransaction)

	submitAll(t, e, 90, 90)

	subs := waitForSubmissions(t, sink, 1)
	assert.Equal(t, []Batch{{Count: 1, Total: 90}, {Count: 1, Total: 90}}, subs[0].Batches)
	for _, b := range subs[0].Batches {
		assert.LessOrEqual(t, b.Total, 100.0)
	}

	_, err = json.Marshal(subs[0])
	assert.NoError(t, err)
}

func TestEngineMissedTicksCoalesce(t *testing.T) {
	sink := &recordingSink{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
	cfg := testConfig(100, 1000, 1)
	e, mock := newTestEngine(t, cfg, sink)
	releaseSink := sync.OnceFunc(func() { close(sink.release) })
	t.Cleanup(releaseSink)
	e.Start()

	submitAll(t, e, 1, 2, 3)
	mock.Add(cfg.FlushInterval)
	select {
	case <-sink.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic worker did not reach the sink")
	}

	// The only permit is held while several intervals pass in one step
	const missed = 5
	submitAll(t, e, 4, 5, 6)
	mock.Add(missed * cfg.FlushInterval)

	// Let the flusher finish handling the ticks it already received
	time.Sleep(20 * time.Millisecond)
	releaseSink()
	e.Shutdown()

	stats := e.Stats()
	assert.GreaterOrEqual(t, stats.WorkerRuns, int64(1))
	assert.LessOrEqual(t, stats.WorkerRuns, int64(2),
		"ticks missed while the permit was held start at most one more worker")
	assert.LessOrEqual(t, stats.WorkerRuns+stats.TriggersDropped, int64(1+missed),
		"each tick makes at most one trigger attempt")
	assert.Equal(t, int64(6), stats.Packed)
	assert.Zero(t, stats.QueueDepth)
}

func TestEngineSinkErrorIsSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("downstream unavailable")}
	e, _ := newTestEngine(t, testConfig(2, 100, 1), sink)

	submitAll(t, e, 1, 2)

	require.Eventually(t, func() bool {
		return e.Stats().SinkFailures == 1
	}, 2*time.Second, 5*time.Millisecond)

	// The engine keeps accepting work after a failed delivery
	require.NoError(t, e.Submit(context.Background(), NewTx(3)))
	assert.Zero(t, e.Stats().SubmissionsDelivered)
}

func TestEngineSinkPanicIsRecovered(t *testing.T) {
	sink := &recordingSink{panicky: true}
	e, _ := newTestEngine(t, testConfig(1, 100, 1), sink)

	submitAll(t, e, 1)
	require.Eventually(t, func() bool {
		return e.Stats().SinkFailures == 1
	}, 2*time.Second, 5*time.Millisecond)

	// The permit is released after a panic, so later triggers still run
	// workers. Submit inside the poll since the first release may lag.
	require.Eventually(t, func() bool {
		_ = e.Submit(context.Background(), NewTx(2))
		return e.Stats().SinkFailures >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestEngineSortDescendingOption(t *testing.T) {
	sink := &recordingSink{}
	cfg := testConfig(10, 100, 1)
	cfg.SortDescending = true
	e, _ := newTestEngine(t, cfg, sink)

	submitAll(t, e, 30, -40, 45, 25, -45, 65, -11, 5, 75, 25)

	subs := waitForSubmissions(t, sink, 1)
	assert.Equal(t, []Batch{
		{Count: 2, Total: 100},
		{Count: 3, Total: 100},
		{Count: 2, Total: 90},
		{Count: 3, Total: 76},
	}, subs[0].Batches)
}

func TestEngineConcurrentProducersConserveTransactions(t *testing.T) {
	sink := &recordingSink{}
	cfg := testConfig(50, 1000, 2)
	e, mock := newTestEngine(t, cfg, sink)
	e.Start()

	const producers, perProducer = 8, 500
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perProducer; i++ {
				amount := rng.Float64()*1500 - 750
				if err := e.Submit(context.Background(), NewTx(amount)); err != nil {
					t.Errorf("Submit() error: %v", err)
					return
				}
			}
		}(int64(p))
	}
	wg.Wait()

	// Flush the tail with a few ticks before stopping
	for i := 0; i < 5; i++ {
		mock.Add(cfg.FlushInterval)
	}
	e.Shutdown()

	stats := e.Stats()
	assert.Equal(t, int64(producers*perProducer), stats.Submitted)
	assert.Equal(t, stats.Submitted, stats.Packed+stats.Oversized+int64(stats.QueueDepth))
	assert.LessOrEqual(t, sink.maxInFlight.Load(), int32(cfg.WorkerPoolSize))

	delivered := int64(0)
	for _, s := range sink.Submissions() {
		assert.False(t, s.Empty())
		assert.LessOrEqual(t, s.TxCount(), cfg.MaxTransactionsPerSubmission)
		for _, b := range s.Batches {
			assert.LessOrEqual(t, b.Total, cfg.MaxBatchTotalValue)
			assert.LessOrEqual(t, b.Count, cfg.MaxTransactionsPerSubmission)
		}
		delivered += int64(s.TxCount())
	}
	assert.Equal(t, stats.Packed, delivered)
	assert.Equal(t, int64(len(sink.Submissions())), stats.SubmissionsDelivered)
}

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := &recordingSink{}
	mock := clock.NewMock()
	e, err := NewEngine(testConfig(2, 100, 1), sink, WithClock(mock), WithMetrics(NewMetrics("test", reg)))
	require.NoError(t, err)

	submitAll(t, e, 10, 200, 20)
	e.Shutdown()

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 3.0, values["test_audit_transactions_submitted_total"])
	assert.Equal(t, 1.0, values["test_audit_transactions_oversized_total"])
	assert.Equal(t, 2.0, values["test_audit_transactions_packed_total"])
	assert.Equal(t, 0.0, values["test_audit_queue_depth"])
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(testConfig(0, 100, 1), &recordingSink{})
	assert.Error(t, err)

	_, err = NewEngine(DefaultConfig(), nil)
	assert.Error(t, err)

	e, err := NewEngine(nil, &recordingSink{})
	require.NoError(t, err)
	e.Shutdown()
}

func TestSubmissionWireShape(t *testing.T) {
	s := Submission{Batches: []Batch{{Count: 4, Total: 100}, {Count: 2, Total: 90.5}}}

	assert.Equal(t,
		`{"submission":{"batches":[{"totalValueOfAllTransactions":100,"countOfTransactions":4},{"totalValueOfAllTransactions":90.5,"countOfTransactions":2}]}}`,
		s.String())

	data, err := json.Marshal(Submission{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"submission":{"batches":[]}}`, string(data))
}
