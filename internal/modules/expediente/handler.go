package expediente

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
	protected.GET("/expediente", h.Vista)
	protected.GET("/expediente/fases", h.Fases)
	protected.GET("/expedientes/:id", middleware.RequireRole("admin", "abogado"), h.Detalle)

	adminGroup := protected.Group("/expedientes")
	adminGroup.Use(middleware.AdminOnly())
	{
		adminGroup.PATCH("/:id/fase", h.CambiarFase)
		adminGroup.PATCH("/:id/asignar", h.Asignar)
		adminGroup.PATCH("/:id/reabrir", h.Reabrir)
	}
}

// Vista returns the role-scoped case view: the client's single case,
// or the assigned/whole list for abogado/admin.
func (h *Handler) Vista(c *gin.Context) {
	auth := authFromContext(c)

	if auth.Rol() == domain.RolCliente {
		exp, err := h.service.VistaCliente(c.Request.Context(), auth.UserID())
		if err != nil {
			if errors.Is(err, ErrSinExpediente) {
				response.Error(c, http.StatusNotFound, "NOT_FOUND", "Todavía no tienes expediente")
				return
			}
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "No se pudo cargar el expediente")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"expediente": exp})
		return
	}

	list, err := h.service.Listado(c.Request.Context(), auth)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "No se pudieron cargar los expedientes")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"expedientes": list})
}

func (h *Handler) Fases(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"fases": ListadoFases()})
}

func (h *Handler) Detalle(c *gin.Context) {
	auth := authFromContext(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	exp, err := h.service.Detalle(c.Request.Context(), auth, id)
	if err != nil {
		respondExpedienteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"expediente": exp})
}

func (h *Handler) CambiarFase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req CambiarFaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Falta la fase solicitada")
		return
	}

	result, err := h.service.CambiarFase(
		c.Request.Context(),
		c.GetInt64("user_id"),
		id,
		*req.Fase,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, domain.ErrFaseInvalida) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "La fase debe estar entre 1 y 10")
			return
		}
		respondExpedienteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"expediente": result.Expediente,
		"mensaje":    result.Mensaje,
	})
}

func (h *Handler) Asignar(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req AsignarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cuerpo de la petición no válido")
		return
	}

	exp, err := h.service.AsignarAbogado(
		c.Request.Context(),
		c.GetInt64("user_id"),
		id,
		req.AbogadoID,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, ErrAbogadoInvalido) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "El usuario indicado no es un abogado")
			return
		}
		respondExpedienteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"expediente": exp})
}

func (h *Handler) Reabrir(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	exp, err := h.service.Reabrir(
		c.Request.Context(),
		c.GetInt64("user_id"),
		id,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, ErrNoCerrado) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Sólo se puede reabrir un expediente cerrado")
			return
		}
		respondExpedienteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"expediente": exp})
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

func respondExpedienteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Expediente no encontrado")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Sin acceso a este expediente")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error inesperado")
	}
}
