package middleware

import (
	"net/http"
	"strings"
	"time"

	"deudasacero/internal/domain"
	jwtsvc "deudasacero/internal/pkg/jwt"
	"deudasacero/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the HTTP-only cookie carrying the signed session.
const SessionCookieName = "session"

// AbogadoInactividad is the hard cutoff for lawyer sessions, measured
// from the last_access embedded in the token. The token is never
// rewritten, so a lawyer session expires 30 minutes after login
// regardless of activity.
const AbogadoInactividad = 30 * time.Minute

// SessionAuth resolves the caller from the session cookie (or a Bearer
// header for API clients) and stores identity in the gin context.
func SessionAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sesión no iniciada")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sesión no válida")
			c.Abort()
			return
		}

		if SesionCaducada(claims) {
			response.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Sesión caducada por inactividad")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("rol", claims.Rol)
		c.Set("email", claims.Email)
		c.Set("nombre", claims.Nombre)

		c.Next()
	}
}

// SesionCaducada applies the lawyer inactivity cutoff to a validated
// token. Other roles never expire this way. Exported so routes that
// authenticate outside this middleware (the websocket upgrade) apply
// the same rule.
func SesionCaducada(claims *jwtsvc.Claims) bool {
	if claims.Rol != string(domain.RolAbogado) {
		return false
	}
	return time.Since(time.Unix(claims.LastAccess, 0)) > AbogadoInactividad
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
