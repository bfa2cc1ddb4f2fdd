package commands

import (
	"github.com/concave-dev/ledger/cmd/ledgerd/config"
	"github.com/spf13/cobra"
)

// SetupFlags configures all command line flags for the daemon
func SetupFlags(cmd *cobra.Command) {
	g := &config.Global

	cmd.Flags().StringVar(&g.Name, "name", "",
		"Instance name shown in logs and /api/v1/health (generated when empty)")

	// API flags
	cmd.Flags().StringVar(&g.APIAddr, "api", config.DefaultAPI,
		"Address and port for HTTP API server (e.g., "+config.DefaultAPI+")")
	cmd.Flags().StringVar(&g.AuthUser, "auth-user", config.DefaultAuthUser,
		"Basic-auth username for account endpoints")
	cmd.Flags().StringVar(&g.AuthPassword, "auth-password", "",
		"Basic-auth password for account endpoints (also $"+config.EnvAuthPassword+")\n"+
			"A random password is generated and logged when empty")
	cmd.Flags().DurationVar(&g.ShutdownWait, "shutdown-timeout", config.DefaultShutdownTimeout,
		"Time to wait for in-flight API requests on shutdown")
	cmd.Flags().StringVar(&g.MetricsNS, "metrics-namespace", config.DefaultMetricsNamespace,
		"Namespace prefix for Prometheus metrics served on /metrics")

	// Audit engine flags
	cmd.Flags().IntVar(&g.AuditMaxTx, "audit-max-tx", g.AuditMaxTx,
		"Maximum transactions per audit submission (also $"+config.EnvAuditMaxTx+")")
	cmd.Flags().Float64Var(&g.AuditMaxValue, "audit-max-value", g.AuditMaxValue,
		"Maximum summed absolute value of one batch (also $"+config.EnvAuditMaxValue+")")
	cmd.Flags().IntVar(&g.AuditWorkers, "audit-workers", g.AuditWorkers,
		"Maximum concurrent submission workers (also $"+config.EnvAuditWorkers+")")
	cmd.Flags().DurationVar(&g.AuditFlush, "audit-flush", g.AuditFlush,
		"Interval of the periodic audit flush (also $"+config.EnvAuditFlush+")")
	cmd.Flags().BoolVar(&g.AuditSortDesc, "audit-sort-desc", false,
		"Pack largest transactions first instead of in arrival order")

	// Sink flags
	cmd.Flags().StringVar(&g.Sinks, "sink", config.DefaultSinks,
		"Comma-separated audit sinks: log, file, webhook, zmq, arrow")
	cmd.Flags().StringVar(&g.SinkFile, "sink-file", "",
		"JSON-lines output path for the file sink")
	cmd.Flags().StringVar(&g.SinkWebhook, "sink-webhook", "",
		"http(s) endpoint receiving submissions for the webhook sink")
	cmd.Flags().DurationVar(&g.SinkWebhookTTL, "sink-webhook-timeout", g.SinkWebhookTTL,
		"Per-request timeout of the webhook sink")
	cmd.Flags().StringVar(&g.SinkZMQ, "sink-zmq", g.SinkZMQ,
		"PUB socket endpoint for the zmq sink (e.g., tcp://*:5563)")
	cmd.Flags().StringVar(&g.SinkArrow, "sink-arrow", "",
		"Arrow IPC stream output path for the arrow sink")

	// Producer flags
	cmd.Flags().BoolVar(&g.ProducerOn, "producer", true,
		"Generate synthetic credits and debits")
	cmd.Flags().DurationVar(&g.ProducerPeriod, "producer-interval", g.ProducerPeriod,
		"Interval between synthetic credits (and between debits)")

	// Operational flags
	cmd.Flags().StringVar(&g.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&g.LogFile, "log-file", "",
		"Write all logs to this file instead of stdout/stderr")
}

// CheckExplicitFlags checks if flags were explicitly set by the user
func CheckExplicitFlags(cmd *cobra.Command) {
	config.Global.SetExplicitlySet(config.APIAddrField, cmd.Flags().Changed("api"))
	config.Global.SetExplicitlySet(config.LogFileField, cmd.Flags().Changed("log-file"))
	config.Global.SetExplicitlySet(config.AuditMaxTxField, cmd.Flags().Changed("audit-max-tx"))
	config.Global.SetExplicitlySet(config.AuditMaxValueField, cmd.Flags().Changed("audit-max-value"))
	config.Global.SetExplicitlySet(config.AuditWorkersField, cmd.Flags().Changed("audit-workers"))
	config.Global.SetExplicitlySet(config.AuditFlushField, cmd.Flags().Changed("audit-flush"))
	config.Global.SetExplicitlySet(config.AuthPasswordField, cmd.Flags().Changed("auth-password"))
}
