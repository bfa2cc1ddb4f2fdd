package handlers

import (
	"fmt"
	"net/http"

	"github.com/concave-dev/ledger/internal/logging"
	"github.com/gin-gonic/gin"
)

// Represents an error response. Every failing endpoint answers with this
// shape so ledgerctl can surface the message without knowing the route.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondError aborts the request with an ErrorResponse.
func RespondError(c *gin.Context, code int, label, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		Status:  "error",
		Error:   label,
		Message: message,
	})
}

// HandleRecovery converts a panic in any handler into a 500 ErrorResponse
// instead of dropping the connection.
func HandleRecovery() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logging.Error("Recovered panic in %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		RespondError(c, http.StatusInternalServerError, "Internal Server Error", fmt.Sprint(recovered))
	}
}

// HandleNotFound answers unknown routes with a 404 ErrorResponse.
func HandleNotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondError(c, http.StatusNotFound, "Not Found",
			fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path))
	}
}
