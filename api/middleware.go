package api

import (
	"net/http"
	"strings"

	"github.com/avershin/flightledger/internal/service/auth"
	"github.com/gin-gonic/gin"
)

const userKey = "username"

// RequireUser validates the bearer token and stores the acting username in
// the request context. Handlers pass that username explicitly into every
// service call; nothing downstream reads ambient session state.
func RequireUser(service auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please log in first"})
			return
		}

		username, err := service.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please log in first"})
			return
		}

		c.Set(userKey, username)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userKey)
}
