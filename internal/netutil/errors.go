package netutil

import (
	"errors"
	"net"
	"syscall"
)

// IsAddressInUseError reports whether err is an EADDRINUSE bind failure.
// Checks the wrapped errno rather than the message so it behaves the same
// across platforms.
func IsAddressInUseError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EADDRINUSE)
	}
	return false
}

// IsConnectionRefusedError reports whether err is an ECONNREFUSED dial
// failure. ledgerctl uses it to tell an unreachable daemon apart from an
// API error.
func IsConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return false
}
