package audit

import (
	"cmp"
	"slices"

	"github.com/concave-dev/ledger/internal/logging"
)

// Caps are the two limits a packed batch must respect.
type Caps struct {
	MaxTransactions int     // Maximum count per batch (equal to the drain size)
	MaxBatchValue   float64 // Maximum summed magnitude per batch
}

// PackResult is the outcome of packing one drained slice.
type PackResult struct {
	Submission Submission
	Oversized  int // Transactions skipped because their magnitude exceeds MaxBatchValue
}

// Pack groups transactions into batches using best-fit bin packing over
// their magnitudes. Inputs are visited in the order given; each magnitude
// goes into the admissible batch with the largest current total (ties go to
// the earliest batch), or opens a new batch when none admits it. A batch
// admits v when total+v stays within MaxBatchValue and its count is below
// MaxTransactions.
//
// Magnitudes larger than MaxBatchValue can never be placed; they are logged
// at warning level, counted, and dropped without failing the pack.
//
// Pure and deterministic: the same inputs always produce the same batches
// in creation order.
func Pack(txs []Tx, caps Caps) PackResult {
	var result PackResult
	batches := make([]Batch, 0)

	for _, tx := range txs {
		v := tx.Magnitude()
		if v > caps.MaxBatchValue {
			logging.Warn("Audit: Skipping oversized transaction %s (%.2f > %.2f)",
				logging.FormatID(tx.ID), v, caps.MaxBatchValue)
			result.Oversized++
			continue
		}

		best := -1
		for i := range batches {
			if batches[i].Count >= caps.MaxTransactions || batches[i].Total+v > caps.MaxBatchValue {
				continue
			}
			// Strict comparison keeps the earliest batch on ties
			if best < 0 || batches[i].Total > batches[best].Total {
				best = i
			}
		}

		if best >= 0 {
			batches[best].Total += v
			batches[best].Count++
			continue
		}
		batches = append(batches, Batch{Count: 1, Total: v})
	}

	result.Submission.Batches = batches
	return result
}

// SortByMagnitudeDesc returns a copy of txs ordered by descending magnitude.
// Equal magnitudes keep their arrival order.
func SortByMagnitudeDesc(txs []Tx) []Tx {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Tx) int {
		return cmp.Compare(b.Magnitude(), a.Magnitude())
	})
	return sorted
}
