package mensaje

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
	protected.GET("/mensajes", h.Hilo)
	protected.GET("/mensajes/no-leidos", h.NoLeidos)
	protected.POST("/mensajes", h.Enviar)
}

func (h *Handler) Hilo(c *gin.Context) {
	auth := authFromContext(c)

	hilo, err := h.service.Hilo(c.Request.Context(), auth, expedienteIDQuery(c))
	if err != nil {
		respondMensajeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hilo)
}

func (h *Handler) NoLeidos(c *gin.Context) {
	auth := authFromContext(c)

	count, err := h.service.NoLeidos(c.Request.Context(), auth, expedienteIDQuery(c))
	if err != nil {
		respondMensajeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"noLeidos": count})
}

func (h *Handler) Enviar(c *gin.Context) {
	auth := authFromContext(c)

	var req EnviarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "El mensaje necesita un texto")
		return
	}

	msg, err := h.service.Enviar(c.Request.Context(), auth, req)
	if err != nil {
		respondMensajeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"mensaje": msg})
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

func respondMensajeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Expediente no encontrado")
	case errors.Is(err, ErrSinExpediente):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Todavía no tienes expediente")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Sin acceso a este expediente")
	case errors.Is(err, ErrTextoVacio):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "El mensaje necesita un texto")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error inesperado")
	}
}
