package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// RequireAdmin restricts a route to users whose token carries the admin
// role. Must run after the JWT middleware; an unauthenticated request is
// rejected as unauthorized rather than forbidden.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse("UNAUTHORIZED", "Authentication required"))
			return
		}

		if claims.Role != string(identity.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("FORBIDDEN", "Admin access required"))
			return
		}

		c.Next()
	}
}
