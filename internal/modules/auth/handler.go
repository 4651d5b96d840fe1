package auth

import (
	"errors"
	"net/http"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/middleware"
	"deudasacero/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service   *Service
	cookieTTL time.Duration
}

func NewHandler(service *Service, cookieTTL time.Duration) *Handler {
	return &Handler{service: service, cookieTTL: cookieTTL}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/registro", h.Registro)
		authGroup.POST("/logout", h.Logout)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cuerpo de la petición no válido")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email o contraseña incorrectos")
		case errors.Is(err, ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "La cuenta está desactivada")
		case errors.Is(err, ErrAccountLocked):
			response.Error(c, http.StatusUnauthorized, "ACCOUNT_LOCKED", "Cuenta bloqueada temporalmente por intentos fallidos")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "No se pudo iniciar sesión")
		}
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(result.User)})
}

func (h *Handler) Registro(c *gin.Context) {
	var req RegistroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Datos de registro no válidos (la contraseña necesita al menos 6 caracteres)")
		return
	}

	user, err := h.service.Registro(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "Este email ya está registrado")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "No se pudo completar el registro")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

// Logout clears the client-side cookie. Sessions are self-contained,
// so there is nothing to revoke server-side.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"message": "Sesión cerrada"})
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Usuario no encontrado")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, int(h.cookieTTL.Seconds()), "/", "", false, true)
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nombre:   u.Nombre,
		Rol:      string(u.Rol),
		Telefono: u.Telefono,
		NIF:      u.NIF,
		Activo:   u.Activo,
	}
}
