package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/concave-dev/ledger/internal/api/handlers"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// authRealm is advertised in WWW-Authenticate challenges
const authRealm = "ledger"

// loggingMiddleware provides request logging
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		logging.Info("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
		return ""
	})
}

// corsMiddleware provides CORS headers
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		c.Header("Access-Control-Max-Age", "300")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// basicAuthMiddleware rejects requests without valid basic-auth
// credentials. The password is checked against the bcrypt hash even when
// the username is wrong so response timing does not reveal valid users.
func (s *Server) basicAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, password, ok := c.Request.BasicAuth()
		if !ok || !s.checkCredentials(user, password) {
			c.Header("WWW-Authenticate", `Basic realm="`+authRealm+`"`)
			handlers.RespondError(c, http.StatusUnauthorized, "Unauthorized", "valid credentials required")
			return
		}

		c.Set(gin.AuthUserKey, user)
		c.Next()
	}
}

func (s *Server) checkCredentials(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.authUser)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.authHash, []byte(password)) == nil
	return userOK && passOK
}
