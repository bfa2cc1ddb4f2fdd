package logging

import "fmt"

// ValidLogLevels is the set of level strings accepted by --log-level on both
// ledgerd and ledgerctl. Level strings are uppercase.
var ValidLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// IsValidLogLevel reports whether level is one of ValidLogLevels.
func IsValidLogLevel(level string) bool {
	return ValidLogLevels[level]
}

// ValidateLogLevel returns an error naming the accepted levels when level is
// not valid.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s (must be one of DEBUG, INFO, WARN, ERROR)", level)
	}
	return nil
}
