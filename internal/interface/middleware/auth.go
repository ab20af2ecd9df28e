package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SubashG45/Task-Management/pkg/helpers"
	"github.com/SubashG45/Task-Management/pkg/response"
)

// CtxUserIDKey is the Gin context key carrying the verified user id.
const CtxUserIDKey = "userID"

// Auth is the single trust boundary for task routes. It reads the
// Authorization bearer header, validates the access token, and injects the
// verified user id into the context. The identity is never taken from the
// body or query string. Missing, malformed, expired, or foreign-signed
// tokens all end the request with 401 and no resource detail.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil || claims.UserID == "" {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
