package utils

import (
	"fmt"
	"net"

	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/netutil"
)

// PreBindServiceListener reserves the TCP port for a service before any
// other component starts.
//
// Parameters:
//   - serviceName: human-readable name for logging (e.g., "API")
//   - portBinder: the PortBinder instance to use for binding
//   - explicitlySet: whether the user explicitly set the address/port
//   - addr: the address to bind to
//   - port: the port to bind to (or starting port for fallback)
//
// An explicit port is bound exactly and fails if taken. A default port
// falls back to the next free port so a second daemon on the same host
// still starts.
func PreBindServiceListener(serviceName string, portBinder *netutil.PortBinder, explicitlySet bool, addr string, port int) (net.Listener, int, error) {
	if explicitlySet {
		logging.Info("Pre-binding %s listener to explicit port %d", serviceName, port)

		listener, err := portBinder.BindTCP(addr, port)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to pre-bind %s listener to %s:%d: %w", serviceName, addr, port, err)
		}

		actualPort, err := portBinder.GetListenerPort(listener)
		if err != nil {
			listener.Close()
			return nil, 0, err
		}
		return listener, actualPort, nil
	}

	logging.Info("Pre-binding %s listener starting from port %d", serviceName, port)

	listener, actualPort, err := portBinder.BindTCPWithFallback(addr, port)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to pre-bind %s listener: %w", serviceName, err)
	}

	if actualPort != port {
		logging.Warn("Default %s port %d was busy, pre-bound to port %d", serviceName, port, actualPort)
	} else {
		logging.Info("Pre-bound %s listener to port %d", serviceName, actualPort)
	}

	return listener, actualPort, nil
}
