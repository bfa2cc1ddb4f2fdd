package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Represents the audit statistics response
type AuditStatsResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	// Transactions accepted by the balance tracker, including any the
	// audit engine later rejected
	Processed int64 `json:"transactions_processed"`
}

// HandleAuditStats returns a snapshot of the audit engine counters together
// with the number of transactions the account has processed.
func HandleAuditStats(engine StatsReader, account BalanceReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if engine == nil {
			RespondError(c, http.StatusServiceUnavailable, "Service Unavailable", "audit engine not configured")
			return
		}

		var processed int64
		if account != nil {
			processed = account.Processed()
		}

		c.JSON(http.StatusOK, AuditStatsResponse{
			Status:    "success",
			Data:      engine.Stats(),
			Processed: processed,
		})
	}
}
