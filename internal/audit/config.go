package audit

import (
	"fmt"
	"math"
	"time"

	"github.com/concave-dev/ledger/internal/validate"
)

const (
	// DefaultMaxTransactionsPerSubmission caps how many transactions one drain
	// may pull and therefore how many a submission may contain.
	DefaultMaxTransactionsPerSubmission = 1000

	// DefaultMaxBatchTotalValue caps the summed magnitude of a single batch.
	DefaultMaxBatchTotalValue = 1_000_000.0

	// DefaultWorkerPoolSize bounds concurrent drain-and-pack workers.
	DefaultWorkerPoolSize = 4

	// DefaultFlushInterval is the period of the background flusher.
	DefaultFlushInterval = 5 * time.Second
)

// Config holds the tuning parameters of the audit engine. All values are
// fixed at construction time.
//
// Essential for bounding both the shape of submissions (count and value
// caps) and the resources spent producing them (worker permits and flush
// cadence).
type Config struct {
	// Submission shape
	MaxTransactionsPerSubmission int     `json:"max_transactions_per_submission" mapstructure:"max_transactions_per_submission" validate:"required,min=1"`
	MaxBatchTotalValue           float64 `json:"max_batch_total_value" mapstructure:"max_batch_total_value" validate:"required,gt=0"`

	// Concurrency and cadence
	WorkerPoolSize int           `json:"worker_pool_size" mapstructure:"worker_pool_size" validate:"required,min=1"`
	FlushInterval  time.Duration `json:"flush_interval" mapstructure:"flush_interval" validate:"required,gt=0"`

	// SortDescending pre-sorts each drained slice by descending magnitude
	// before packing. Off by default so packing follows arrival order.
	SortDescending bool `json:"sort_descending" mapstructure:"sort_descending"`
}

// DefaultConfig returns a Config with the standard audit limits.
func DefaultConfig() *Config {
	return &Config{
		MaxTransactionsPerSubmission: DefaultMaxTransactionsPerSubmission,
		MaxBatchTotalValue:           DefaultMaxBatchTotalValue,
		WorkerPoolSize:               DefaultWorkerPoolSize,
		FlushInterval:                DefaultFlushInterval,
	}
}

// Validate checks that every limit is positive and finite. Returns the
// first violation found.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("audit config is required")
	}
	if math.IsInf(c.MaxBatchTotalValue, 0) || math.IsNaN(c.MaxBatchTotalValue) {
		return fmt.Errorf("max batch total value must be finite, got %v", c.MaxBatchTotalValue)
	}
	if err := validate.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid audit config: %w", err)
	}
	return nil
}

// Caps returns the packing limits derived from the configuration.
func (c *Config) Caps() Caps {
	return Caps{
		MaxTransactions: c.MaxTransactionsPerSubmission,
		MaxBatchValue:   c.MaxBatchTotalValue,
	}
}
