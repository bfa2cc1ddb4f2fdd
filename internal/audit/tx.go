package audit

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Tx is a single account movement as seen by the audit engine. Credits carry
// a positive amount and debits a negative one; only the magnitude survives
// into a batch.
type Tx struct {
	ID     string  `json:"id"`     // Opaque transaction identifier
	Amount float64 `json:"amount"` // Signed amount, finite
}

// NewTx builds a transaction with a freshly generated UUID identifier.
func NewTx(amount float64) Tx {
	return Tx{ID: uuid.NewString(), Amount: amount}
}

// Validate reports whether t can be audited: the id must be non-empty and
// the amount finite. A NaN magnitude would poison every batch total it
// joins.
func (t Tx) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidTransaction)
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("%w: amount %v is not finite", ErrInvalidTransaction, t.Amount)
	}
	return nil
}

// Magnitude returns the absolute value of the amount, the quantity packed
// into batches.
func (t Tx) Magnitude() float64 {
	return math.Abs(t.Amount)
}

// Batch is an aggregate of transactions that fits within a single audit
// batch. Membership is not retained, only the running count and total.
type Batch struct {
	Count int     `json:"countOfTransactions"`
	Total float64 `json:"totalValueOfAllTransactions"`
}

// Submission is an ordered list of batches produced from one drain and
// handed to a Sink as a single unit.
type Submission struct {
	ID      string  `json:"-"`
	Batches []Batch `json:"batches"`
}

// Empty reports whether the submission carries no batches.
func (s Submission) Empty() bool {
	return len(s.Batches) == 0
}

// TxCount returns the number of transactions represented by the submission.
func (s Submission) TxCount() int {
	n := 0
	for _, b := range s.Batches {
		n += b.Count
	}
	return n
}

// TotalValue returns the sum of all batch totals in the submission.
func (s Submission) TotalValue() float64 {
	total := 0.0
	for _, b := range s.Batches {
		total += b.Total
	}
	return total
}

// wireBatch fixes the field order of the published wire shape.
type wireBatch struct {
	TotalValueOfAllTransactions float64 `json:"totalValueOfAllTransactions"`
	CountOfTransactions         int     `json:"countOfTransactions"`
}

type wireSubmission struct {
	Submission struct {
		Batches []wireBatch `json:"batches"`
	} `json:"submission"`
}

// MarshalJSON renders the canonical audit wire shape:
//
//	{"submission":{"batches":[{"totalValueOfAllTransactions":N,"countOfTransactions":N}]}}
//
// An empty submission still renders an empty batches array rather than null.
func (s Submission) MarshalJSON() ([]byte, error) {
	var w wireSubmission
	w.Submission.Batches = make([]wireBatch, 0, len(s.Batches))
	for _, b := range s.Batches {
		w.Submission.Batches = append(w.Submission.Batches, wireBatch{
			TotalValueOfAllTransactions: b.Total,
			CountOfTransactions:         b.Count,
		})
	}
	return json.Marshal(w)
}

// String returns the wire shape as a string, falling back to a plain summary
// if encoding fails (only possible for non-finite totals).
func (s Submission) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("submission{batches=%d, txs=%d}", len(s.Batches), s.TxCount())
	}
	return string(data)
}
