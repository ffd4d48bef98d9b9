package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nexus/internal/core/auth"
	resp "nexus/internal/transport/http/response"
)

// AuthJWT resolves the Bearer token into userId/email context keys.
// revoked (optional) rejects signed-out token ids.
func AuthJWT(j *auth.JWTer, revoked func(ctx context.Context, jti string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if revoked != nil && revoked(c.Request.Context(), claims.ID) {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "session expired"))
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
