package producer

import (
	"fmt"
	"time"

	"github.com/concave-dev/ledger/internal/validate"
)

// Config controls the synthetic transaction stream.
type Config struct {
	Interval  time.Duration `json:"interval" mapstructure:"interval"`     // Period of each credit and debit loop
	MinAmount float64       `json:"min_amount" mapstructure:"min_amount"` // Inclusive lower bound of generated magnitudes
	MaxAmount float64       `json:"max_amount" mapstructure:"max_amount"` // Exclusive upper bound of generated magnitudes
}

// DefaultConfig returns one credit and one debit every 40ms with magnitudes
// in [200, 500000).
func DefaultConfig() *Config {
	return &Config{
		Interval:  40 * time.Millisecond,
		MinAmount: 200,
		MaxAmount: 500_000,
	}
}

// Validate checks the interval and the amount range.
func (c *Config) Validate() error {
	if err := validate.ValidatePositiveTimeout(c.Interval, "producer interval"); err != nil {
		return err
	}
	if err := validate.ValidateAmountRange(c.MinAmount, c.MaxAmount, "producer amount"); err != nil {
		return fmt.Errorf("invalid producer config: %w", err)
	}
	return nil
}
