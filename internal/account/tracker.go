// Package account tracks the balance of the single in-memory bank account
// and forwards every processed transaction to the audit pipeline.
//
// The balance is held as an integer number of pence in an atomic counter so
// concurrent credits and debits never lose updates and never accumulate
// floating-point drift. Display formatting goes through shopspring/decimal.
package account

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/concave-dev/ledger/internal/audit"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction is returned for transactions with an empty id or a
// non-finite amount. Nothing is applied or audited for them.
var ErrInvalidTransaction = audit.ErrInvalidTransaction

// Auditor receives every transaction applied to the balance. Implemented by
// *audit.Engine.
type Auditor interface {
	Submit(ctx context.Context, tx audit.Tx) error
}

// Tracker applies transactions to the account balance.
type Tracker struct {
	auditor   Auditor
	pence     atomic.Int64
	processed atomic.Int64
}

// NewTracker creates a tracker with a zero balance.
func NewTracker(auditor Auditor) *Tracker {
	return &Tracker{auditor: auditor}
}

// Process applies tx to the balance and then submits it for auditing. The
// balance update is not rolled back if the audit submission fails; the
// audit error is returned to the caller.
func (t *Tracker) Process(ctx context.Context, tx audit.Tx) error {
	if err := tx.Validate(); err != nil {
		logging.Warn("Account: Rejected transaction %s: %v", logging.FormatID(tx.ID), err)
		return err
	}

	delta := toPence(tx.Amount)
	balance := t.pence.Add(delta)
	t.processed.Add(1)

	if err := t.auditor.Submit(ctx, tx); err != nil {
		return fmt.Errorf("failed to audit transaction %s: %w", tx.ID, err)
	}

	logging.Debug("Account: Processed transaction %s, balance now %d pence", logging.FormatID(tx.ID), balance)
	return nil
}

// BalancePence returns the current balance in pence.
func (t *Tracker) BalancePence() int64 {
	return t.pence.Load()
}

// Balance returns the current balance as an exact decimal.
func (t *Tracker) Balance() decimal.Decimal {
	return decimal.New(t.pence.Load(), -2)
}

// FormattedBalance returns the balance with exactly two decimal places,
// for example "1234.50" or "-0.75".
func (t *Tracker) FormattedBalance() string {
	return t.Balance().StringFixed(2)
}

// Processed returns the number of transactions applied so far.
func (t *Tracker) Processed() int64 {
	return t.processed.Load()
}

// toPence converts an amount to pence, rounding halves toward positive
// infinity, so -0.005 becomes 0 and 0.005 becomes 1.
func toPence(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}
