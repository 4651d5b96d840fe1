package firma

import (
	"errors"
	"net/http"
	"strconv"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/authz"
	"deudasacero/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/firmas", h.Listar)
	protected.POST("/firmas", h.Crear)
}

func (h *Handler) Listar(c *gin.Context) {
	auth := authFromContext(c)

	firmas, err := h.service.Listar(c.Request.Context(), auth, expedienteIDQuery(c))
	if err != nil {
		respondFirmaError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"firmas": firmas})
}

func (h *Handler) Crear(c *gin.Context) {
	auth := authFromContext(c)

	var req CrearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Faltan campos de la firma (tipo, firmaBlob)")
		return
	}

	f, err := h.service.Crear(c.Request.Context(), auth, req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondFirmaError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"firma": f})
}

func authFromContext(c *gin.Context) authz.Authorizer {
	return authz.ForRole(domain.Rol(c.GetString("rol")), c.GetInt64("user_id"))
}

func expedienteIDQuery(c *gin.Context) *int64 {
	raw := c.Query("expedienteId")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func respondFirmaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Expediente no encontrado")
	case errors.Is(err, ErrSinExpediente):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Todavía no tienes expediente")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Sin acceso a este expediente")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error inesperado")
	}
}
