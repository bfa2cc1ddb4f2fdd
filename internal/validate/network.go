// Package validate provides input validation utilities for ledger services,
// ensuring network endpoints, credentials, and component configuration are
// well formed before anything binds a socket or accepts a transaction.
//
// Implements address, URL, and struct validation using the
// go-playground/validator library so every config package reports errors
// in the same shape.
//
// VALIDATION FEATURES:
//   - Bind addresses: "host:port" with IP host and port range checks
//   - Endpoints: http(s) webhook URLs and tcp:// message bus endpoints
//   - Structs: tag-driven validation of component config structs
//   - Credentials: basic-auth username format and password length
package validate

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// NetworkAddress represents a validated "host:port" pair for a listening
// service. Struct tags drive the validation.
type NetworkAddress struct {
	Host string `validate:"required,ip"`              // Built-in IP validator
	Port int    `validate:"required,min=0,max=65535"` // Built-in range validator
}

// String returns the address in "host:port" form.
func (na NetworkAddress) String() string {
	return net.JoinHostPort(na.Host, strconv.Itoa(na.Port))
}

// ParseBindAddress parses and validates a "host:port" address string for
// the HTTP API and other listeners. The host must be a literal IP address.
//
// Essential for processing operator-provided addresses from CLI flags so
// that malformed endpoints fail at startup with a clear message rather than
// at bind time.
func ParseBindAddress(addr string) (*NetworkAddress, error) {
	if addr == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address format '%s': %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port '%s': %w", portStr, err)
	}

	netAddr := &NetworkAddress{
		Host: host,
		Port: port,
	}

	if err := validate.Struct(netAddr); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return netAddr, nil
}

// ValidateField validates a single value against validator tags.
//
// Example: ValidateField("192.168.1.1", "required,ip")
func ValidateField(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

// ValidateStruct validates a struct using its `validate` tags. Used by the
// component config packages (audit, producer, sinks) so their Validate
// methods share one validator instance.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateEndpointURL checks that raw is an absolute http or https URL with a
// host, as required for webhook delivery targets.
func ValidateEndpointURL(raw string) error {
	if err := ValidateField(raw, "required,url"); err != nil {
		return fmt.Errorf("invalid endpoint URL '%s': %w", raw, err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint URL '%s' must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint URL '%s' has no host", raw)
	}
	return nil
}

// ValidateTCPEndpoint checks a message bus endpoint of the form
// "tcp://host:port". The host may be a name, an IP, or "*" for all
// interfaces.
func ValidateTCPEndpoint(endpoint string) error {
	rest, ok := strings.CutPrefix(endpoint, "tcp://")
	if !ok {
		return fmt.Errorf("endpoint '%s' must start with tcp://", endpoint)
	}

	host, portStr, err := net.SplitHostPort(rest)
	if err != nil {
		return fmt.Errorf("invalid endpoint '%s': %w", endpoint, err)
	}
	if host == "" {
		return fmt.Errorf("endpoint '%s' has no host", endpoint)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port '%s': %w", portStr, err)
	}
	return ValidatePortRange(port)
}
