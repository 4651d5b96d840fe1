package documento

import (
	"errors"
	"net/http"
	"strconv"

	"deudasacero/internal/domain"
	"deudasacero/internal/middleware"
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
	protected.GET("/documentos", h.Listar)
	protected.POST("/documentos", h.Subir)
	protected.PATCH("/documentos/:id", middleware.RequireRole("admin", "abogado"), h.Revisar)
	protected.DELETE("/documentos/:id", middleware.AdminOnly(), h.Eliminar)

	protected.GET("/checklist", h.Checklist)
	protected.PATCH("/checklist/:id", middleware.RequireRole("admin", "abogado"), h.MarcarNoAplica)
}

func (h *Handler) Listar(c *gin.Context) {
	auth := authFromContext(c)

	docs, err := h.service.Listar(c.Request.Context(), auth, expedienteIDQuery(c))
	if err != nil {
		respondDocumentoError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"documentos": docs})
}

func (h *Handler) Subir(c *gin.Context) {
	auth := authFromContext(c)

	var req SubirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Faltan campos del documento (nombre, tipo, contenido)")
		return
	}

	doc, err := h.service.Subir(c.Request.Context(), auth, req)
	if err != nil {
		if errors.Is(err, ErrContenidoVacio) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "El documento no tiene contenido")
			return
		}
		respondDocumentoError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"documento": doc})
}

func (h *Handler) Revisar(c *gin.Context) {
	auth := authFromContext(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req RevisarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Falta el estado de revisión")
		return
	}

	doc, err := h.service.Revisar(c.Request.Context(), auth, id, req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrEstadoInvalido) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "El estado debe ser revisado o incorrecto")
			return
		}
		respondDocumentoError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"documento": doc})
}

func (h *Handler) Eliminar(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Eliminar(c.Request.Context(), id); err != nil {
		respondDocumentoError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Documento eliminado"})
}

func (h *Handler) Checklist(c *gin.Context) {
	auth := authFromContext(c)

	items, err := h.service.Checklist(c.Request.Context(), auth, expedienteIDQuery(c))
	if err != nil {
		respondDocumentoError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"checklist": items})
}

func (h *Handler) MarcarNoAplica(c *gin.Context) {
	auth := authFromContext(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ChecklistNoAplicaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cuerpo de la petición no válido")
		return
	}

	if err := h.service.MarcarNoAplica(c.Request.Context(), auth, id, req.NoAplica); err != nil {
		respondDocumentoError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Checklist actualizado"})
}

func authFromContext(c *gin.Context) authz.Authorizer {
	return authz.ForRole(domain.Rol(c.GetString("rol")), c.GetInt64("user_id"))
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Identificador no válido")
		return 0, false
	}
	return id, true
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

func respondDocumentoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Documento o expediente no encontrado")
	case errors.Is(err, ErrSinExpediente):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Todavía no tienes expediente")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Sin acceso a este expediente")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error inesperado")
	}
}
