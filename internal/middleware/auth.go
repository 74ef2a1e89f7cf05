package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mindflow-health/therapyflow/internal/domain"
	"github.com/mindflow-health/therapyflow/pkg/auth"
)

const claimsKey = "claims"

// AuthRequired gates an endpoint behind a bearer token. Handlers behind it
// never inspect credentials; they read the resolved identity via Claims.
// The rejection messages are part of the public API surface and must not
// change.
func AuthRequired(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid Authorization token in header.",
			})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			msg := "Invalid token. Please register or login."
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Expired token. Please login to get new token."
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Claims returns the authenticated identity set by AuthRequired, or nil on
// unauthenticated routes.
func Claims(c *gin.Context) *domain.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*domain.Claims); ok {
			return claims
		}
	}
	return nil
}
