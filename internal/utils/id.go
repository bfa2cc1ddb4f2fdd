// Package utils provides small shared helpers for ledger services.
//
// This file implements short identifier generation and display truncation.
// Submission ids use the 12-character hex format so they stay readable in
// logs next to transaction UUIDs.
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ShortIDLength is the length of generated ids and of truncated display ids.
const ShortIDLength = 12

// GenerateID creates a unique 12-character hex identifier using crypto/rand.
//
// Returns format: "a1b2c3d4e5f6" (12 hex characters, similar to Docker short IDs)
func GenerateID() (string, error) {
	bytes := make([]byte, ShortIDLength/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// TruncateIDSafe shortens id to ShortIDLength characters for display.
// Shorter ids are returned unchanged.
func TruncateIDSafe(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}
