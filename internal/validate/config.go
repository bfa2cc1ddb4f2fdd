package validate

import (
	"fmt"
	"math"
	"time"
)

// ValidatePortRange validates that a port number is within 1-65535. Port 0
// is rejected since clients need a predictable address.
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateRequiredString validates that a string field is not empty.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a duration is strictly positive.
// Used for HTTP client timeouts, sink timeouts, and ticker intervals where
// zero would mean an immediate failure or a busy loop.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// ValidateAmountRange validates a half-open [min, max) range of monetary
// amounts. Both bounds must be finite and positive with min < max.
func ValidateAmountRange(min, max float64, name string) error {
	for _, v := range []float64{min, max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s bounds must be finite", name)
		}
	}
	if min <= 0 {
		return fmt.Errorf("%s minimum must be positive, got %v", name, min)
	}
	if min >= max {
		return fmt.Errorf("%s minimum (%v) must be less than maximum (%v)", name, min, max)
	}
	return nil
}
