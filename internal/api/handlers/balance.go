package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BalanceReader exposes the running account balance.
type BalanceReader interface {
	FormattedBalance() string
	Processed() int64
}

// Represents the balance response. The amount is rendered as a string with
// exactly two decimal places so clients never see float artifacts.
type BalanceResponse struct {
	AvailableBalance string `json:"availableBalance"`
}

// HandleBalance returns the current account balance
func HandleBalance(account BalanceReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if account == nil {
			RespondError(c, http.StatusServiceUnavailable, "Service Unavailable", "balance tracker not configured")
			return
		}

		c.JSON(http.StatusOK, BalanceResponse{
			AvailableBalance: account.FormattedBalance(),
		})
	}
}
