package facturacion

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
	protected.GET("/facturacion", h.Ver)
	protected.POST("/facturacion", middleware.AdminOnly(), h.Crear)
	protected.PATCH("/facturacion/:id", middleware.AdminOnly(), h.Actualizar)

	protected.POST("/pagos", middleware.AdminOnly(), h.CrearPago)
	protected.PATCH("/pagos/:id", middleware.AdminOnly(), h.ActualizarPago)

	protected.GET("/facturas", h.ListarFacturas)
	protected.POST("/facturas", middleware.AdminOnly(), h.CrearFactura)
	protected.PATCH("/facturas/:id/pagar", middleware.AdminOnly(), h.MarcarFacturaPagada)
}

func (h *Handler) Ver(c *gin.Context) {
	auth := authFromContext(c)

	f, err := h.service.Ver(c.Request.Context(), auth, expedienteIDQuery(c))
	if err != nil {
		respondFacturacionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"facturacion": f})
}

func (h *Handler) Crear(c *gin.Context) {
	var req CrearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Faltan campos de facturación (expedienteId, importePresupuesto)")
		return
	}

	f, err := h.service.Crear(c.Request.Context(), req)
	if err != nil {
		respondFacturacionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"facturacion": f})
}

func (h *Handler) Actualizar(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ActualizarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cuerpo de la petición no válido")
		return
	}

	f, err := h.service.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondFacturacionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"facturacion": f})
}

func (h *Handler) CrearPago(c *gin.Context) {
	var req CrearPagoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Faltan campos del pago (expedienteId, concepto, importe)")
		return
	}

	p, err := h.service.CrearPago(c.Request.Context(), req)
	if err != nil {
		respondFacturacionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"pago": p})
}

func (h *Handler) ActualizarPago(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ActualizarPagoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "El pago necesita un estado")
		return
	}

	p, err := h.service.ActualizarPago(c.Request.Context(), id, req)
	if err != nil {
		respondFacturacionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pago": p})
}

func (h *Handler) ListarFacturas(c *gin.Context) {
	auth := authFromContext(c)

	list, err := h.service.ListarFacturas(c.Request.Context(), auth)
	if err != nil {
		respondFacturacionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"facturas": list})
}

func (h *Handler) CrearFactura(c *gin.Context) {
	var req CrearFacturaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Faltan campos de la factura (userId, numero, importe)")
		return
	}

	f, err := h.service.CrearFactura(c.Request.Context(), req)
	if err != nil {
		respondFacturacionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"factura": f})
}

func (h *Handler) MarcarFacturaPagada(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	f, err := h.service.MarcarFacturaPagada(c.Request.Context(), c.GetInt64("user_id"), id, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondFacturacionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"factura": f})
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

func respondFacturacionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Expediente no encontrado")
	case errors.Is(err, ErrSinExpediente):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Todavía no tienes expediente")
	case errors.Is(err, ErrSinFacturacion):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "El expediente no tiene facturación")
	case errors.Is(err, ErrPagoNoExiste):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Pago no encontrado")
	case errors.Is(err, ErrFacturaNoExiste):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Factura no encontrada")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Sin acceso a este expediente")
	case errors.Is(err, ErrYaExiste):
		response.Error(c, http.StatusBadRequest, "DUPLICATE", "Ya existe facturación para este expediente")
	case errors.Is(err, ErrNumeroDuplicado):
		response.Error(c, http.StatusBadRequest, "DUPLICATE", "Ya existe una factura con ese número")
	case errors.Is(err, ErrEstadoInvalido):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Estado no válido")
	case errors.Is(err, ErrFacturaAnulada):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "La factura está anulada")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Error inesperado")
	}
}
