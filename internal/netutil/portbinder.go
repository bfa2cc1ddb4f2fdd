// Package netutil provides listener pre-binding and network error
// classification for ledgerd and ledgerctl.
//
// ledgerd binds the HTTP API port before it starts the audit engine and
// the producer, so a port conflict is reported before any transaction is
// processed rather than after the daemon is half started.
package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// AddressInUseError represents a "port already in use" error that preserves
// the original error for type checking while providing a readable message.
type AddressInUseError struct {
	Port    int
	Address string
	Err     error
}

func (e *AddressInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use on %s", e.Port, e.Address)
}

func (e *AddressInUseError) Unwrap() error {
	return e.Err
}

// PortBinder binds TCP listeners and holds them until a server takes over.
type PortBinder struct{}

// NewPortBinder creates a new PortBinder.
func NewPortBinder() *PortBinder {
	return &PortBinder{}
}

// BindTCP binds a TCP listener on address:port. Port 0 asks the kernel for
// a free port; use GetListenerPort to read it back.
//
// Forces IPv4 so a 0.0.0.0 bind does not silently become dual-stack.
func (pb *PortBinder) BindTCP(address string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	listener, err := net.Listen("tcp4", addr)
	if err != nil {
		if IsAddressInUseError(err) {
			return nil, &AddressInUseError{
				Port:    port,
				Address: address,
				Err:     err,
			}
		}
		return nil, fmt.Errorf("failed to bind TCP to %s: %w", addr, err)
	}

	return listener, nil
}

// BindTCPWithFallback tries preferredPort and then the following ports
// until one is free. Returns the listener and the port actually bound.
// Only address-in-use failures move on to the next port; any other error
// is returned immediately.
func (pb *PortBinder) BindTCPWithFallback(address string, preferredPort int) (net.Listener, int, error) {
	const maxAttempts = 100

	for port := preferredPort; port < preferredPort+maxAttempts && port <= 65535; port++ {
		listener, err := pb.BindTCP(address, port)
		if err != nil {
			var addrInUseErr *AddressInUseError
			if errors.As(err, &addrInUseErr) {
				continue
			}
			return nil, 0, fmt.Errorf("failed to bind TCP starting from port %d: %w", preferredPort, err)
		}

		return listener, port, nil
	}

	return nil, 0, fmt.Errorf("no available TCP port found in range %d-%d on %s",
		preferredPort, preferredPort+maxAttempts-1, address)
}

// GetListenerPort extracts the port number from a bound TCP listener.
func (pb *PortBinder) GetListenerPort(listener net.Listener) (int, error) {
	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("listener is not a TCP listener: %T", listener.Addr())
	}

	return tcpAddr.Port, nil
}
