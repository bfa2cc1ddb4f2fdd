// Package handlers contains the gin handler factories behind the ledger
// HTTP API. Each factory takes the narrow read-only view of the component
// it reports on so handlers can be tested without a running daemon.
package handlers

import (
	"net/http"
	"time"

	"github.com/concave-dev/ledger/internal/audit"
	"github.com/gin-gonic/gin"
)

// StatsReader exposes a snapshot of the audit engine.
type StatsReader interface {
	Stats() audit.Stats
}

// Represents the health check response
type HealthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Instance   string    `json:"instance,omitempty"`
	Uptime     string    `json:"uptime"`
	AuditState string    `json:"audit_state,omitempty"`
}

// HandleHealth returns the health status of the API server. The service is
// healthy while the audit engine accepts transactions; once it drains or
// stops the endpoint answers 503 so load balancers stop routing to it.
func HandleHealth(version, instance string, startTime time.Time, engine StatsReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version,
			Instance:  instance,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
		}

		code := http.StatusOK
		if engine != nil {
			state := engine.Stats().State
			response.AuditState = state
			if state != audit.StateRunning.String() {
				response.Status = "unavailable"
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, response)
	}
}
