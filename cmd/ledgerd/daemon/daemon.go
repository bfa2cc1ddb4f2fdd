// Package daemon provides ledger daemon orchestration and lifecycle management.
//
// DAEMON ARCHITECTURE:
// The daemon wires five components, each feeding the next:
//
//   - Sinks: destinations for audit submissions (log, file, webhook, zmq, arrow)
//   - Audit engine: queues transactions and packs them into bounded submissions
//   - Balance tracker: applies transactions and forwards them to the engine
//   - Producer: synthetic credits and debits driving the tracker
//   - HTTP API: balance, audit stats, health and metrics
//
// STARTUP ORDER:
// The API port is pre-bound first so a port conflict aborts startup before
// any transaction is generated. Components then start in dependency order:
// sinks, engine, tracker, producer, API.
//
// GRACEFUL SHUTDOWN:
// On SIGINT/SIGTERM components stop in reverse order. The producer stops
// first so no transaction arrives after the engine begins draining, the
// API drains in-flight requests, the engine performs its final flush into
// the sinks, and only then are sinks closed.
package daemon

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/concave-dev/ledger/cmd/ledgerd/config"
	"github.com/concave-dev/ledger/cmd/ledgerd/utils"
	"github.com/concave-dev/ledger/internal/account"
	"github.com/concave-dev/ledger/internal/api"
	"github.com/concave-dev/ledger/internal/audit"
	"github.com/concave-dev/ledger/internal/audit/sink"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/names"
	"github.com/concave-dev/ledger/internal/netutil"
	"github.com/concave-dev/ledger/internal/producer"
	internalutils "github.com/concave-dev/ledger/internal/utils"
	"github.com/concave-dev/ledger/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// buildAPIConfig converts daemon config to API config
func buildAPIConfig(tracker *account.Tracker, engine *audit.Engine, registry *prometheus.Registry, passwordHash []byte) *api.Config {
	apiConfig := api.DefaultConfig()

	apiConfig.InstanceName = config.Global.Name
	apiConfig.BindAddr = config.Global.APIAddr
	apiConfig.BindPort = config.Global.APIPort
	apiConfig.Account = tracker
	apiConfig.Engine = engine
	apiConfig.AuthUser = config.Global.AuthUser
	apiConfig.AuthPasswordHash = passwordHash
	apiConfig.Gatherer = registry

	return apiConfig
}

// buildRegistry creates the Prometheus registry served on /metrics with
// the Go runtime and process collectors.
func buildRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// resolvePassword returns the configured API password, generating one when
// none was given. A generated password is logged once at WARN so the
// operator can use it with ledgerctl.
func resolvePassword() (string, error) {
	if config.Global.AuthPassword != "" {
		return config.Global.AuthPassword, nil
	}

	first, err := internalutils.GenerateID()
	if err != nil {
		return "", err
	}
	second, err := internalutils.GenerateID()
	if err != nil {
		return "", err
	}
	password := first + second

	logging.Warn("No --auth-password given, generated password for user %q: %s", config.Global.AuthUser, password)
	return password, nil
}

// Run starts the daemon and blocks until SIGINT or SIGTERM, then shuts down
// gracefully.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return RunContext(ctx)
}

// RunContext starts every component, blocks until ctx is done and then
// shuts them down in reverse order. Startup errors release whatever was
// already started.
func RunContext(ctx context.Context) error {
	logging.SetLevel(config.Global.LogLevel)

	// net/http reports server errors through the standard logger
	logging.RedirectStandardLog(logging.NewLevelWriter("ERROR", "http"))

	if config.Global.Name == "" {
		config.Global.Name = names.Generate()
	}
	logging.Info("Starting ledger daemon %s v%s", config.Global.Name, version.LedgerdVersion)

	password, err := resolvePassword()
	if err != nil {
		return fmt.Errorf("failed to generate API password: %w", err)
	}
	passwordHash, err := api.HashPassword(password)
	if err != nil {
		return fmt.Errorf("invalid API password: %w", err)
	}

	// Pre-bind the API before anything produces transactions
	apiListener, apiPort, err := utils.PreBindServiceListener("API", netutil.NewPortBinder(),
		config.Global.IsExplicitlySet(config.APIAddrField), config.Global.APIAddr, config.Global.APIPort)
	if err != nil {
		logging.Error("Failed to pre-bind API listener: %v", err)
		return err
	}
	config.Global.APIPort = apiPort

	// Sockets opened by sinks live until shutdown completes
	sinkCtx, cancelSinks := context.WithCancel(context.Background())
	defer cancelSinks()

	sinks, err := sink.Build(sinkCtx, config.Global.SinkConfig())
	if err != nil {
		apiListener.Close()
		return fmt.Errorf("failed to build audit sinks: %w", err)
	}
	logging.Info("Audit sinks: %v", sinks.Names())

	registry := buildRegistry()
	engine, err := audit.NewEngine(config.Global.AuditConfig(), sinks,
		audit.WithMetrics(audit.NewMetrics(config.Global.MetricsNS, registry)),
		audit.WithContext(sinkCtx),
	)
	if err != nil {
		apiListener.Close()
		_ = sinks.Close()
		return fmt.Errorf("failed to create audit engine: %w", err)
	}
	engine.Start()

	tracker := account.NewTracker(engine)

	var gen *producer.Producer
	if config.Global.ProducerOn {
		gen, err = producer.New(tracker, config.Global.ProducerConfig())
		if err != nil {
			apiListener.Close()
			engine.Shutdown()
			_ = sinks.Close()
			return fmt.Errorf("failed to create producer: %w", err)
		}
	}

	apiServer, err := api.NewServerWithListener(buildAPIConfig(tracker, engine, registry, passwordHash), apiListener)
	if err != nil {
		apiListener.Close()
		engine.Shutdown()
		_ = sinks.Close()
		return fmt.Errorf("failed to create API server: %w", err)
	}
	if err := apiServer.Start(); err != nil {
		engine.Shutdown()
		_ = sinks.Close()
		return fmt.Errorf("failed to start API server: %w", err)
	}

	if gen != nil {
		gen.Start()
	}

	logging.Success("Ledger daemon %s started successfully", config.Global.Name)
	logging.Info("  - HTTP API: %s", apiServer.Addr())
	logging.Info("  - Audit: max %d tx/submission, max %.2f per batch, %d workers, flush every %s",
		config.Global.AuditMaxTx, config.Global.AuditMaxValue, config.Global.AuditWorkers, config.Global.AuditFlush)
	if gen != nil {
		logging.Info("  - Producer: every %s", config.Global.ProducerPeriod)
	} else {
		logging.Info("  - Producer: disabled")
	}

	<-ctx.Done()
	logging.Info("Initiating graceful shutdown...")

	if gen != nil {
		gen.Stop()
		credits, debits := gen.Counts()
		logging.Info("Producer stopped after %d credits and %d debits", credits, debits)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Global.ShutdownWait)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("Error shutting down API server: %v", err)
	}

	start := time.Now()
	engine.Shutdown()
	stats := engine.Stats()
	logging.Info("Audit engine stopped in %s: %d submitted, %d packed, %d oversized, %d left queued",
		time.Since(start).Round(time.Millisecond), stats.Submitted, stats.Packed, stats.Oversized, stats.QueueDepth)

	if err := sinks.Close(); err != nil {
		logging.Error("Error closing audit sinks: %v", err)
	}

	logging.Info("Final balance: %s after %d transactions", tracker.FormattedBalance(), tracker.Processed())
	logging.Success("Ledger daemon shutdown completed")
	return nil
}
