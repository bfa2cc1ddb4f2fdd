package validate

import (
	"testing"
)

// TestParseBindAddress covers the accepted and rejected API bind addresses
func TestParseBindAddress(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedIP   string
		expectedPort int
	}{
		{
			name:         "loopback API address",
			input:        "127.0.0.1:8008",
			expectedIP:   "127.0.0.1",
			expectedPort: 8008,
		},
		{
			name:         "all interfaces",
			input:        "0.0.0.0:9000",
			expectedIP:   "0.0.0.0",
			expectedPort: 9000,
		},
		{
			name:         "highest port",
			input:        "10.0.0.1:65535",
			expectedIP:   "10.0.0.1",
			expectedPort: 65535,
		},
		{
			name:         "IPv6 loopback",
			input:        "[::1]:8008",
			expectedIP:   "::1",
			expectedPort: 8008,
		},
		{name: "empty address", input: "", expectError: true},
		{name: "missing port", input: "192.168.1.1", expectError: true},
		{name: "invalid IP address", input: "999.999.999.999:8080", expectError: true},
		{name: "port too high", input: "192.168.1.1:99999", expectError: true},
		{name: "port not a number", input: "192.168.1.1:abc", expectError: true},
		{name: "hostname instead of IP", input: "localhost:8080", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseBindAddress(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input '%s', but got none", tt.input)
				}
				if result != nil {
					t.Errorf("Expected nil result when error occurs, got %+v", result)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for input '%s': %v", tt.input, err)
			}
			if result.Host != tt.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tt.expectedIP, result.Host)
			}
			if result.Port != tt.expectedPort {
				t.Errorf("Expected port %d, got %d", tt.expectedPort, result.Port)
			}
			if result.String() != tt.input {
				t.Errorf("Expected String() to return '%s', got '%s'", tt.input, result.String())
			}
		})
	}
}

// TestValidateField checks a handful of tags used by the config packages
func TestValidateField(t *testing.T) {
	tests := []struct {
		name        string
		value       interface{}
		tag         string
		expectError bool
	}{
		{"valid IP", "192.168.1.1", "required,ip", false},
		{"invalid IP", "not-an-ip", "required,ip", true},
		{"worker count in range", 4, "required,min=1,max=1024", false},
		{"zero workers", 0, "required,min=1,max=1024", true},
		{"positive batch cap", 1_000_000.0, "required,gt=0", false},
		{"negative batch cap", -1.0, "required,gt=0", true},
		{"empty string fails required", "", "required", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.value, tt.tag)

			if tt.expectError && err == nil {
				t.Errorf("Expected error for value '%v' with tag '%s', but got none", tt.value, tt.tag)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for value '%v' with tag '%s': %v", tt.value, tt.tag, err)
			}
		})
	}
}

// TestValidateEndpointURL checks webhook target validation
func TestValidateEndpointURL(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"http endpoint", "http://127.0.0.1:9090/audit", false},
		{"https endpoint", "https://audit.example.com/submissions", false},
		{"empty", "", true},
		{"relative path", "/audit", true},
		{"unsupported scheme", "ftp://example.com/audit", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpointURL(tt.input)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for '%s', but got none", tt.input)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for '%s': %v", tt.input, err)
			}
		})
	}
}

// TestValidateTCPEndpoint checks message bus endpoint validation
func TestValidateTCPEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"wildcard bind", "tcp://*:5556", false},
		{"loopback", "tcp://127.0.0.1:5556", false},
		{"hostname", "tcp://audit-bus:5556", false},
		{"missing scheme", "127.0.0.1:5556", true},
		{"wrong scheme", "ipc:///tmp/audit", true},
		{"missing port", "tcp://127.0.0.1", true},
		{"port zero", "tcp://127.0.0.1:0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTCPEndpoint(tt.input)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for '%s', but got none", tt.input)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for '%s': %v", tt.input, err)
			}
		})
	}
}

// BenchmarkParseBindAddress measures address parsing on the startup path
func BenchmarkParseBindAddress(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ParseBindAddress("192.168.1.100:8008"); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
