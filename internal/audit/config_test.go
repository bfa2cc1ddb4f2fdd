package audit

import (
	"math"
	"testing"
	"time"
)

// TestDefaultConfig tests the standard audit limits
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxTransactionsPerSubmission != 1000 {
		t.Errorf("MaxTransactionsPerSubmission = %d, want 1000", cfg.MaxTransactionsPerSubmission)
	}
	if cfg.MaxBatchTotalValue != 1_000_000 {
		t.Errorf("MaxBatchTotalValue = %v, want 1000000", cfg.MaxBatchTotalValue)
	}
	if cfg.WorkerPoolSize != 4 {
		t.Errorf("WorkerPoolSize = %d, want 4", cfg.WorkerPoolSize)
	}
	if cfg.FlushInterval != 5*time.Second {
		t.Errorf("FlushInterval = %s, want 5s", cfg.FlushInterval)
	}
	if cfg.SortDescending {
		t.Error("SortDescending should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}
}

// TestConfigValidate tests rejected configurations
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"single worker", func(c *Config) { c.WorkerPoolSize = 1 }, false},
		{"zero max transactions", func(c *Config) { c.MaxTransactionsPerSubmission = 0 }, true},
		{"negative max transactions", func(c *Config) { c.MaxTransactionsPerSubmission = -5 }, true},
		{"zero batch value", func(c *Config) { c.MaxBatchTotalValue = 0 }, true},
		{"negative batch value", func(c *Config) { c.MaxBatchTotalValue = -1 }, true},
		{"infinite batch value", func(c *Config) { c.MaxBatchTotalValue = math.Inf(1) }, true},
		{"NaN batch value", func(c *Config) { c.MaxBatchTotalValue = math.NaN() }, true},
		{"zero workers", func(c *Config) { c.WorkerPoolSize = 0 }, true},
		{"large worker pool", func(c *Config) { c.WorkerPoolSize = 5000 }, false},
		{"zero flush interval", func(c *Config) { c.FlushInterval = 0 }, true},
		{"negative flush interval", func(c *Config) { c.FlushInterval = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

// TestConfigCaps tests the derived packing limits
func TestConfigCaps(t *testing.T) {
	caps := (&Config{MaxTransactionsPerSubmission: 10, MaxBatchTotalValue: 100}).Caps()

	if caps.MaxTransactions != 10 || caps.MaxBatchValue != 100 {
		t.Errorf("Caps() = %+v", caps)
	}
}
