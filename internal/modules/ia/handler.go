package ia

import (
	"errors"
	"net/http"

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

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/ia/documentos", middleware.RequireRole("admin", "abogado"), h.GenerarDocumento)
}

func (h *Handler) GenerarDocumento(c *gin.Context) {
	var req GenerarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "El documento necesita un tipo")
		return
	}

	doc, err := h.service.GenerarDocumento(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoConfigurado):
			response.Error(c, http.StatusInternalServerError, "IA_NOT_CONFIGURED", "La generación de documentos no está configurada")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Expediente no encontrado")
		default:
			// generation is the deliverable of this endpoint: the
			// failure detail travels with the 500
			response.ErrorWithDetails(c, http.StatusInternalServerError, "IA_ERROR", "No se pudo generar el documento", err.Error())
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"documento": doc})
}
