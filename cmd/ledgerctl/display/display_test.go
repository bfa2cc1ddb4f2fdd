package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/concave-dev/ledger/cmd/ledgerctl/client"
	"github.com/concave-dev/ledger/cmd/ledgerctl/config"
)

// capture redirects Output and restores the global flags afterwards
func capture(t *testing.T, output string, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer

	prevOut, prevFormat, prevVerbose := Output, config.Global.Output, config.Global.Verbose
	Output = &buf
	config.Global.Output = output
	config.Global.Verbose = verbose
	t.Cleanup(func() {
		Output = prevOut
		config.Global.Output = prevFormat
		config.Global.Verbose = prevVerbose
	})

	return &buf
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.00", "0.00"},
		{"4312.07", "4,312.07"},
		{"1234567.5", "1,234,567.50"},
		{"-2500.25", "-2,500.25"},
		{"not-a-number", "not-a-number"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayBalance(t *testing.T) {
	buf := capture(t, config.OutputTable, false)
	DisplayBalance(&client.Balance{AvailableBalance: "4312.07"})

	if !strings.Contains(buf.String(), "AVAILABLE BALANCE") || !strings.Contains(buf.String(), "4,312.07") {
		t.Errorf("table output = %q", buf.String())
	}
}

func TestDisplayBalance_JSON(t *testing.T) {
	buf := capture(t, config.OutputJSON, false)
	DisplayBalance(&client.Balance{AvailableBalance: "4312.07"})

	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if got["availableBalance"] != "4312.07" {
		t.Errorf("availableBalance = %q, want 4312.07", got["availableBalance"])
	}
}

func TestDisplayAuditStats_Verbose(t *testing.T) {
	stats := &client.AuditStats{State: "running", Submitted: 1234567, SinkFailures: 2}

	buf := capture(t, config.OutputTable, false)
	DisplayAuditStats(stats)
	if !strings.Contains(buf.String(), "1,234,567") {
		t.Errorf("output missing grouped counter: %q", buf.String())
	}
	if strings.Contains(buf.String(), "Sink Failures") {
		t.Errorf("non-verbose output shows failure counters: %q", buf.String())
	}

	buf = capture(t, config.OutputTable, true)
	DisplayAuditStats(stats)
	if !strings.Contains(buf.String(), "Sink Failures") {
		t.Errorf("verbose output missing failure counters: %q", buf.String())
	}
}
