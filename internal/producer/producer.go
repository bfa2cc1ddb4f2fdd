// Package producer generates the synthetic stream of account movements that
// drives the ledger: one goroutine emits credits and another emits debits,
// each on its own fixed-rate ticker.
package producer

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/concave-dev/ledger/internal/audit"
	"github.com/concave-dev/ledger/internal/logging"
)

// Processor consumes generated transactions. Implemented by
// *account.Tracker.
type Processor interface {
	Process(ctx context.Context, tx audit.Tx) error
}

// Option customises a Producer.
type Option func(*Producer)

// WithClock replaces the wall clock driving the tickers.
func WithClock(c clock.Clock) Option {
	return func(p *Producer) {
		p.clock = c
	}
}

// WithRandom replaces the uniform [0,1) source used to pick amounts.
func WithRandom(next func() float64) Option {
	return func(p *Producer) {
		p.random = next
	}
}

// Producer emits credits and debits until stopped.
type Producer struct {
	cfg       *Config
	processor Processor
	clock     clock.Clock
	random    func() float64

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	credits atomic.Int64
	debits  atomic.Int64
	failed  atomic.Int64
}

// New creates a producer feeding processor. A nil config selects
// DefaultConfig.
func New(processor Processor, cfg *Config, opts ...Option) (*Producer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	rng := rand.New(rand.NewSource(rand.Int63()))
	p := &Producer{
		cfg:       cfg,
		processor: processor,
		clock:     clock.New(),
		random: func() float64 {
			mu.Lock()
			defer mu.Unlock()
			return rng.Float64()
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Start launches the credit and debit loops. Each loop emits immediately and
// then once per Interval. Calling Start more than once has no effect.
func (p *Producer) Start() {
	p.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel

		// Tickers are created before the goroutines so a mock clock advanced
		// right after Start always reaches them
		creditTicker := p.clock.Ticker(p.cfg.Interval)
		debitTicker := p.clock.Ticker(p.cfg.Interval)

		p.wg.Add(2)
		go p.loop(ctx, creditTicker, 1, &p.credits)
		go p.loop(ctx, debitTicker, -1, &p.debits)

		logging.Info("Producer: Started credit and debit streams (every %s, amounts %.0f-%.0f)",
			p.cfg.Interval, p.cfg.MinAmount, p.cfg.MaxAmount)
	})
}

// Stop halts both loops and waits for them to exit. Safe to call more than
// once and before Start.
func (p *Producer) Stop() {
	p.stopOnce.Do(func() {
		// Prevent a later Start from launching loops nobody will stop
		p.startOnce.Do(func() {})
		if p.cancel != nil {
			p.cancel()
		}
		p.wg.Wait()
		logging.Info("Producer: Stopped (credits=%d, debits=%d, failed=%d)",
			p.credits.Load(), p.debits.Load(), p.failed.Load())
	})
}

// Counts returns the number of credits and debits emitted so far.
func (p *Producer) Counts() (credits, debits int64) {
	return p.credits.Load(), p.debits.Load()
}

// Amount draws a magnitude in [MinAmount, MaxAmount).
func (p *Producer) Amount() float64 {
	return p.cfg.MinAmount + (p.cfg.MaxAmount-p.cfg.MinAmount)*p.random()
}

func (p *Producer) loop(ctx context.Context, ticker *clock.Ticker, sign float64, counter *atomic.Int64) {
	defer p.wg.Done()
	defer ticker.Stop()

	p.emit(ctx, sign, counter)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.emit(ctx, sign, counter)
		}
	}
}

// emit produces one transaction. Processing errors are logged and do not
// stop the loop.
func (p *Producer) emit(ctx context.Context, sign float64, counter *atomic.Int64) {
	tx := audit.NewTx(sign * p.Amount())
	if err := p.processor.Process(ctx, tx); err != nil {
		p.failed.Add(1)
		logging.Error("Producer: Failed to process transaction %s: %v", logging.FormatID(tx.ID), err)
		return
	}
	counter.Add(1)
}
