package middleware

import (
	"net/http"

	"deudasacero/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rol, exists := c.Get("rol")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Rol no presente en la sesión")
			c.Abort()
			return
		}

		for _, r := range roles {
			if rol.(string) == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Permisos insuficientes")
		c.Abort()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
