package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/psgtech/internship-undertaking-api/internal/models"
	appErrors "github.com/psgtech/internship-undertaking-api/pkg/errors"
	"github.com/psgtech/internship-undertaking-api/pkg/response"
)

// RBAC enforces role-based access control for routes.
func RBAC(allowed ...models.Role) gin.HandlerFunc {
	allowedRoles := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedRoles[role] = struct{}{}
	}
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}

		// Role mismatch is Unauthorized; Forbidden is reserved for
		// resource-level entitlement checks.
		response.Error(c, appErrors.ErrUnauthorized)
		c.Abort()
	}
}
