package admin

import (
	"errors"
	"net/http"
	"strconv"

	"deudasacero/internal/middleware"
	"deudasacero/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the health probe outside the session
// gate.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	admin := protected.Group("/admin", middleware.AdminOnly())
	{
		admin.GET("/usuarios", h.ListUsuarios)
		admin.POST("/usuarios", h.CrearUsuario)
		admin.PATCH("/usuarios/:id", h.ActualizarUsuario)
		admin.GET("/auditoria", h.Auditoria)
	}
}

func (h *Handler) ListUsuarios(c *gin.Context) {
	users, err := h.service.ListUsuarios(c.Request.Context(), c.Query("rol"))
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"usuarios": users})
}

func (h *Handler) CrearUsuario(c *gin.Context) {
	var req CrearUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Revisa nombre, email, contraseña (mínimo 6 caracteres) y rol")
		return
	}

	out, err := h.service.CrearUsuario(c.Request.Context(), c.GetInt64("user_id"), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) ActualizarUsuario(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Identificador no válido")
		return
	}

	var req ActualizarUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cuerpo de la petición no válido")
		return
	}

	user, err := h.service.ActualizarUsuario(c.Request.Context(), id, req)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"usuario": user})
}

func (h *Handler) Auditoria(c *gin.Context) {
	var expedienteID *int64
	if raw := c.Query("expedienteId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Identificador no válido")
			return
		}
		expedienteID = &id
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.service.Auditoria(c.Request.Context(), expedienteID, limit)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"auditoria": entries})
}

func (h *Handler) Health(c *gin.Context) {
	out, healthy := h.service.Health(c.Request.Context())
	status := http.StatusOK
	if !healthy {
		status = http.StatusInternalServerError
	}
	c.JSON(status, out)
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusBadRequest, "DUPLICATE", "El email ya está registrado")
	case errors.Is(err, ErrYaTieneExpediente):
		response.Error(c, http.StatusBadRequest, "DUPLICATE", "El cliente ya tiene expediente")
	case errors.Is(err, ErrRolInvalido):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rol no válido")
	case errors.Is(err, ErrRolInmutable):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "El rol de un usuario no se puede cambiar")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Usuario no encontrado")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error inesperado")
	}
}
