package middleware

import (
	"net/http"

	"github.com/clinic/backend/internal/domain/identity"
	"github.com/clinic/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireValidator allows only roles that may approve or reject records
func RequireValidator() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(GetRole(c))
		if !role.CanValidate() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Validation requires treasurer or admin role"))
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only administrators
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity.Role(GetRole(c)) != identity.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Admin role required"))
			return
		}
		c.Next()
	}
}
