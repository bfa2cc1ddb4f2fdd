package account

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/concave-dev/ledger/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuditor struct {
	mu  sync.Mutex
	txs []audit.Tx
	err error
}

func (r *recordingAuditor) Submit(_ context.Context, tx audit.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.txs = append(r.txs, tx)
	return nil
}

func TestTrackerCreditUpdatesBalanceAndAudits(t *testing.T) {
	auditor := &recordingAuditor{}
	tracker := NewTracker(auditor)

	tx := audit.Tx{ID: "tx1", Amount: 25.50}
	require.NoError(t, tracker.Process(context.Background(), tx))

	assert.Equal(t, int64(2550), tracker.BalancePence())
	assert.Equal(t, "25.50", tracker.FormattedBalance())
	assert.Equal(t, []audit.Tx{tx}, auditor.txs)
}

func TestTrackerDebitDecreasesBalance(t *testing.T) {
	auditor := &recordingAuditor{}
	tracker := NewTracker(auditor)

	require.NoError(t, tracker.Process(context.Background(), audit.Tx{ID: "tx2", Amount: 50}))
	require.NoError(t, tracker.Process(context.Background(), audit.Tx{ID: "tx3", Amount: -20}))

	assert.Equal(t, "30.00", tracker.FormattedBalance())
	assert.Len(t, auditor.txs, 2)
	assert.Equal(t, int64(2), tracker.Processed())
}

func TestTrackerInitialBalanceIsZero(t *testing.T) {
	tracker := NewTracker(&recordingAuditor{})

	assert.True(t, tracker.Balance().IsZero())
	assert.Equal(t, "0.00", tracker.FormattedBalance())
}

func TestTrackerNegativeBalanceFormatting(t *testing.T) {
	tracker := NewTracker(&recordingAuditor{})

	require.NoError(t, tracker.Process(context.Background(), audit.Tx{ID: "tx4", Amount: -0.75}))

	assert.Equal(t, "-0.75", tracker.FormattedBalance())
}

func TestTrackerRoundsToNearestPenny(t *testing.T) {
	tracker := NewTracker(&recordingAuditor{})

	require.NoError(t, tracker.Process(context.Background(), audit.Tx{ID: "a", Amount: 0.104}))
	require.NoError(t, tracker.Process(context.Background(), audit.Tx{ID: "b", Amount: 0.106}))

	assert.Equal(t, int64(21), tracker.BalancePence())
}

func TestTrackerRoundsHalvesTowardPositiveInfinity(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{0.005, 1},
		{-0.005, 0},
		{-0.006, -1},
		{-0.015, -1},
		{1.245, 125},
	}

	for _, tt := range tests {
		tracker := NewTracker(&recordingAuditor{})

		require.NoError(t, tracker.Process(context.Background(), audit.Tx{ID: "h", Amount: tt.amount}))

		assert.Equal(t, tt.want, tracker.BalancePence(), "amount %v", tt.amount)
	}
}

func TestTrackerRejectsInvalidTransactions(t *testing.T) {
	tests := []struct {
		name string
		tx   audit.Tx
	}{
		{"empty id", audit.Tx{Amount: 10}},
		{"NaN amount", audit.Tx{ID: "x", Amount: math.NaN()}},
		{"infinite amount", audit.Tx{ID: "x", Amount: math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditor := &recordingAuditor{}
			tracker := NewTracker(auditor)

			err := tracker.Process(context.Background(), tt.tx)

			assert.ErrorIs(t, err, ErrInvalidTransaction)
			assert.Zero(t, tracker.BalancePence())
			assert.Empty(t, auditor.txs)
		})
	}
}

func TestTrackerReturnsAuditError(t *testing.T) {
	auditor := &recordingAuditor{err: audit.ErrEngineStopped}
	tracker := NewTracker(auditor)

	err := tracker.Process(context.Background(), audit.Tx{ID: "tx5", Amount: 12})

	assert.True(t, errors.Is(err, audit.ErrEngineStopped))
	assert.Equal(t, int64(1200), tracker.BalancePence(), "balance is applied before auditing")
}

func TestTrackerConcurrentUpdates(t *testing.T) {
	tracker := NewTracker(&recordingAuditor{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tracker.Process(context.Background(), audit.NewTx(1.25))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tracker.Process(context.Background(), audit.NewTx(-0.25))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "5000.00", tracker.FormattedBalance())
	assert.Equal(t, int64(10000), tracker.Processed())
}

func TestTrackerWithEngine(t *testing.T) {
	var mu sync.Mutex
	var delivered []audit.Submission
	sink := audit.SinkFunc(func(_ context.Context, s audit.Submission) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, s)
		return nil
	})

	engine, err := audit.NewEngine(audit.DefaultConfig(), sink)
	require.NoError(t, err)
	tracker := NewTracker(engine)

	require.NoError(t, tracker.Process(context.Background(), audit.Tx{ID: "c1", Amount: 300}))
	require.NoError(t, tracker.Process(context.Background(), audit.Tx{ID: "d1", Amount: -120}))
	engine.Shutdown()

	assert.Equal(t, "180.00", tracker.FormattedBalance())
	require.Len(t, delivered, 1)
	assert.Equal(t, []audit.Batch{{Count: 2, Total: 420}}, delivered[0].Batches)
}
