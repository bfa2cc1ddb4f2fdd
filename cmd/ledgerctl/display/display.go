// Package display renders ledgerctl results as tables or indented JSON,
// following the global --output and --verbose flags.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/concave-dev/ledger/cmd/ledgerctl/client"
	"github.com/concave-dev/ledger/cmd/ledgerctl/config"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Output is where results are written
var Output io.Writer = os.Stdout

func encodeJSON(v any) {
	encoder := json.NewEncoder(Output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Fprintln(Output, "Error encoding JSON output")
	}
}

// FormatAmount renders a daemon balance string with thousands separators,
// e.g. "1234567.5" as "1,234,567.50". Unparseable input is returned as-is.
func FormatAmount(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}

	f, _ := d.Round(2).Float64()
	return humanize.FormatFloat("#,###.##", f)
}

// DisplayBalance shows the account balance
func DisplayBalance(balance *client.Balance) {
	if config.Global.Output == config.OutputJSON {
		encodeJSON(balance)
		return
	}

	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "AVAILABLE BALANCE")
	fmt.Fprintln(w, FormatAmount(balance.AvailableBalance))
}

// DisplayAuditStats shows the audit engine counters. Verbose mode adds the
// counters that only move when something goes wrong.
func DisplayAuditStats(stats *client.AuditStats) {
	if config.Global.Output == config.OutputJSON {
		encodeJSON(stats)
		return
	}

	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "State:\t%s\n", stats.State)
	fmt.Fprintf(w, "Workers:\t%d\n", stats.WorkerPoolSize)
	fmt.Fprintf(w, "Queue Depth:\t%s\n", humanize.Comma(int64(stats.QueueDepth)))
	fmt.Fprintf(w, "Processed:\t%s\n", humanize.Comma(stats.Processed))
	fmt.Fprintf(w, "Submitted:\t%s\n", humanize.Comma(stats.Submitted))
	fmt.Fprintf(w, "Packed:\t%s\n", humanize.Comma(stats.Packed))
	fmt.Fprintf(w, "Submissions:\t%s\n", humanize.Comma(stats.SubmissionsDelivered))

	if config.Global.Verbose {
		fmt.Fprintf(w, "Rejected:\t%s\n", humanize.Comma(stats.Rejected))
		fmt.Fprintf(w, "Oversized:\t%s\n", humanize.Comma(stats.Oversized))
		fmt.Fprintf(w, "Sink Failures:\t%s\n", humanize.Comma(stats.SinkFailures))
		fmt.Fprintf(w, "Worker Runs:\t%s\n", humanize.Comma(stats.WorkerRuns))
		fmt.Fprintf(w, "Triggers Dropped:\t%s\n", humanize.Comma(stats.TriggersDropped))
	}
}

// DisplayHealth shows the daemon health
func DisplayHealth(health *client.Health) {
	if config.Global.Output == config.OutputJSON {
		encodeJSON(health)
		return
	}

	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Status:\t%s\n", health.Status)
	if health.Instance != "" {
		fmt.Fprintf(w, "Instance:\t%s\n", health.Instance)
	}
	fmt.Fprintf(w, "Version:\t%s\n", health.Version)
	fmt.Fprintf(w, "Uptime:\t%s\n", health.Uptime)
	if health.AuditState != "" {
		fmt.Fprintf(w, "Audit:\t%s\n", health.AuditState)
	}
	if config.Global.Verbose && !health.Timestamp.IsZero() {
		fmt.Fprintf(w, "Checked:\t%s\n", humanize.Time(health.Timestamp))
	}
}
