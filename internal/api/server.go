package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/concave-dev/ledger/internal/api/handlers"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/netutil"
	"github.com/concave-dev/ledger/internal/version"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Represents the ledger API server
type Server struct {
	account    handlers.BalanceReader
	engine     handlers.StatsReader
	gatherer   prometheus.Gatherer
	instance   string
	authUser   string
	authHash   []byte
	httpServer *http.Server
	listener   net.Listener
	bindAddr   string
	bindPort   int
	startTime  time.Time
}

// NewServer creates a new ledger API server instance. The listener is bound
// in Start.
func NewServer(config *Config) *Server {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	gatherer := config.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &Server{
		account:   config.Account,
		engine:    config.Engine,
		gatherer:  gatherer,
		instance:  config.InstanceName,
		authUser:  config.AuthUser,
		authHash:  config.AuthPasswordHash,
		bindAddr:  config.BindAddr,
		bindPort:  config.BindPort,
		startTime: time.Now(),
	}
}

// NewServerWithListener creates a server that serves on an already bound
// listener. The daemon pre-binds the API port so startup fails before any
// transactions are produced if the port is taken.
func NewServerWithListener(config *Config, listener net.Listener) (*Server, error) {
	if listener == nil {
		return nil, fmt.Errorf("listener cannot be nil")
	}

	port, err := netutil.NewPortBinder().GetListenerPort(listener)
	if err != nil {
		return nil, err
	}

	s := NewServer(config)
	s.listener = listener
	s.bindPort = port
	return s, nil
}

// Start starts serving in the background and returns once the listener is
// bound.
func (s *Server) Start() error {
	logging.Info("Starting HTTP API server on %s:%d", s.bindAddr, s.bindPort)

	if s.listener == nil {
		listener, err := netutil.NewPortBinder().BindTCP(s.bindAddr, s.bindPort)
		if err != nil {
			return err
		}
		s.listener = listener
	}

	s.httpServer = &http.Server{
		Handler: s.buildRouter(),
		// Timeouts for production
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func(srv *http.Server, ln net.Listener) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("HTTP server failed: %v", err)
		}
	}(s.httpServer, s.listener)

	logging.Success("HTTP API server listening on %s", s.listener.Addr())
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown gracefully shuts down the HTTP server, waiting for in-flight
// requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down HTTP API server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		return s.listener.Close()
	}

	return nil
}

// buildRouter creates the gin engine with middleware and routes
func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()

	// Configure Gin logging only if not already configured by CLI tools
	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("DEBUG", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.loggingMiddleware())
	router.Use(s.corsMiddleware())
	router.Use(gin.CustomRecovery(handlers.HandleRecovery()))

	s.setupRoutes(router)
	return router
}

// getHandlerHealth is a health endpoint handler factory
func (s *Server) getHandlerHealth() gin.HandlerFunc {
	return handlers.HandleHealth(version.LedgerdVersion, s.instance, s.startTime, s.engine)
}

// getHandlerBalance is a balance endpoint handler factory
func (s *Server) getHandlerBalance() gin.HandlerFunc {
	return handlers.HandleBalance(s.account)
}

// getHandlerAuditStats is an audit stats endpoint handler factory
func (s *Server) getHandlerAuditStats() gin.HandlerFunc {
	return handlers.HandleAuditStats(s.engine, s.account)
}
