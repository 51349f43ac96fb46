package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gallopmart/internal/pkg/response"
)

const (
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if role != requiredRole {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// SellerOnly middleware requires seller role
func SellerOnly() gin.HandlerFunc {
	return RequireRole(RoleSeller)
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}
