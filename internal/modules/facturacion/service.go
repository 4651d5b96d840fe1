package facturacion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/pkg/authz"
	"deudasacero/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	facturaciones *repository.FacturacionRepository
	facturas      *repository.FacturaRepository
	expedientes   *repository.ExpedienteRepository
	audit         *repository.AuditRepository
}

func NewService(
	facturaciones *repository.FacturacionRepository,
	facturas *repository.FacturaRepository,
	expedientes *repository.ExpedienteRepository,
	audit *repository.AuditRepository,
) *Service {
	return &Service{
		facturaciones: facturaciones,
		facturas:      facturas,
		expedientes:   expedientes,
		audit:         audit,
	}
}

// Ver returns the billing summary of a case with its child payments.
func (s *Service) Ver(ctx context.Context, auth authz.Authorizer, expedienteID *int64) (*domain.Facturacion, error) {
	exp, err := s.resolverExpediente(ctx, auth, expedienteID)
	if err != nil {
		return nil, err
	}

	f, err := s.facturaciones.GetByExpediente(ctx, exp.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinFacturacion
		}
		return nil, err
	}
	return f, nil
}

func (s *Service) Crear(ctx context.Context, req CrearRequest) (*domain.Facturacion, error) {
	if _, err := s.expedientes.GetByID(ctx, req.ExpedienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f := &domain.Facturacion{
		ExpedienteID:       req.ExpedienteID,
		ImportePresupuesto: req.ImportePresupuesto,
		Estado:             domain.FacturacionPendiente,
		MetodoPago:         req.MetodoPago,
	}
	if err := s.facturaciones.Create(ctx, f); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrYaExiste
		}
		return nil, err
	}
	return f, nil
}

func (s *Service) Actualizar(ctx context.Context, id int64, req ActualizarRequest) (*domain.Facturacion, error) {
	if _, err := s.facturaciones.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinFacturacion
		}
		return nil, err
	}

	fields := map[string]any{}
	if req.ImportePresupuesto != nil {
		fields["importe_presupuesto"] = *req.ImportePresupuesto
	}
	if req.MetodoPago != nil {
		fields["metodo_pago"] = *req.MetodoPago
	}
	if req.Estado != nil {
		estado := domain.EstadoFacturacion(*req.Estado)
		switch estado {
		case domain.FacturacionPendiente, domain.FacturacionParcial, domain.FacturacionPagada, domain.FacturacionMorosa:
			fields["estado"] = estado
		default:
			return nil, ErrEstadoInvalido
		}
	}

	err := s.facturaciones.DB().Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := s.facturaciones.UpdateFields(ctx, tx, id, fields); err != nil {
				return err
			}
		}
		// a presupuesto change can move the derived state, unless the
		// admin just pinned one explicitly
		if req.ImportePresupuesto != nil && req.Estado == nil {
			return s.reconciliar(ctx, tx, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.facturaciones.GetByID(ctx, id)
}

func (s *Service) CrearPago(ctx context.Context, req CrearPagoRequest) (*domain.Pago, error) {
	f, err := s.facturaciones.GetByExpediente(ctx, req.ExpedienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinFacturacion
		}
		return nil, err
	}

	p := &domain.Pago{
		FacturacionID: f.ID,
		Concepto:      req.Concepto,
		Importe:       req.Importe,
		Estado:        domain.PagoPendiente,
		Vencimiento:   req.Vencimiento,
	}
	if err := s.facturaciones.CreatePago(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ActualizarPago moves a payment between pendiente and pagado and
// reconciles the parent billing inside the same transaction.
func (s *Service) ActualizarPago(ctx context.Context, id int64, req ActualizarPagoRequest) (*domain.Pago, error) {
	estado := domain.EstadoPago(req.Estado)
	if estado != domain.PagoPendiente && estado != domain.PagoPagado {
		return nil, ErrEstadoInvalido
	}

	p, err := s.facturaciones.GetPago(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPagoNoExiste
		}
		return nil, err
	}

	fields := map[string]any{"estado": estado}
	if estado == domain.PagoPagado {
		fields["fecha_pago"] = time.Now()
	} else {
		fields["fecha_pago"] = nil
	}

	err = s.facturaciones.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.facturaciones.UpdatePagoFields(ctx, tx, id, fields); err != nil {
			return err
		}
		return s.reconciliar(ctx, tx, p.FacturacionID)
	})
	if err != nil {
		return nil, err
	}
	return s.facturaciones.GetPago(ctx, id)
}

func (s *Service) ListarFacturas(ctx context.Context, auth authz.Authorizer) ([]domain.Factura, error) {
	if auth.Rol() == domain.RolAdmin {
		return s.facturas.List(ctx, nil)
	}
	userID := auth.UserID()
	return s.facturas.List(ctx, &userID)
}

func (s *Service) CrearFactura(ctx context.Context, req CrearFacturaRequest) (*domain.Factura, error) {
	f := &domain.Factura{
		UserID:       req.UserID,
		ExpedienteID: req.ExpedienteID,
		Numero:       req.Numero,
		Importe:      req.Importe,
		Estado:       domain.FacturaEmitida,
		ContenidoPDF: req.ContenidoPDF,
	}
	if err := s.facturas.Create(ctx, f); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrNumeroDuplicado
		}
		return nil, err
	}
	return f, nil
}

// MarcarFacturaPagada confirms an invoice payment. The invoice update,
// the billing synthesis and the payment row land in one transaction so
// a concurrent confirmation cannot leave the summary half-applied.
func (s *Service) MarcarFacturaPagada(ctx context.Context, adminID, id int64, ip, userAgent string) (*domain.Factura, error) {
	factura, err := s.facturas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacturaNoExiste
		}
		return nil, err
	}
	if factura.Estado == domain.FacturaAnulada {
		return nil, ErrFacturaAnulada
	}
	if factura.Estado == domain.FacturaPagada {
		return factura, nil
	}

	err = s.facturas.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.facturas.UpdateFields(ctx, tx, id, map[string]any{"estado": domain.FacturaPagada}); err != nil {
			return err
		}

		if factura.ExpedienteID != nil {
			if err := s.aplicarFacturaABilling(ctx, tx, factura); err != nil {
				return err
			}
		}

		return s.audit.Append(ctx, tx, &domain.AuditLog{
			UserID:       adminID,
			ExpedienteID: factura.ExpedienteID,
			Accion:       "factura_pagada",
			Descripcion:  fmt.Sprintf("factura %s por %.2f€", factura.Numero, factura.Importe),
			IP:           ip,
			UserAgent:    userAgent,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.facturas.GetByID(ctx, id)
}

// aplicarFacturaABilling synthesizes the billing summary from a paid
// invoice, or folds the amount into an existing one as a new payment.
func (s *Service) aplicarFacturaABilling(ctx context.Context, tx *gorm.DB, factura *domain.Factura) error {
	now := time.Now()

	var billing domain.Facturacion
	err := tx.WithContext(ctx).Where("expediente_id = ?", *factura.ExpedienteID).First(&billing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		billing = domain.Facturacion{
			ExpedienteID:       *factura.ExpedienteID,
			ImportePresupuesto: factura.Importe,
			ImporteFacturado:   factura.Importe,
			Estado:             domain.FacturacionPagada,
		}
		if err := tx.WithContext(ctx).Create(&billing).Error; err != nil {
			return err
		}
		return s.facturaciones.CreatePago(ctx, tx, &domain.Pago{
			FacturacionID: billing.ID,
			Concepto:      "Factura " + factura.Numero,
			Importe:       factura.Importe,
			Estado:        domain.PagoPagado,
			FechaPago:     &now,
		})
	}
	if err != nil {
		return err
	}

	pago := &domain.Pago{
		FacturacionID: billing.ID,
		Concepto:      "Factura " + factura.Numero,
		Importe:       factura.Importe,
		Estado:        domain.PagoPagado,
		FechaPago:     &now,
	}
	if err := s.facturaciones.CreatePago(ctx, tx, pago); err != nil {
		return err
	}
	return s.reconciliar(ctx, tx, billing.ID)
}

// reconciliar recomputes importeFacturado and the derived state from
// the paid payments. An admin-set moroso is never overwritten.
func (s *Service) reconciliar(ctx context.Context, tx *gorm.DB, facturacionID int64) error {
	var billing domain.Facturacion
	if err := tx.WithContext(ctx).First(&billing, facturacionID).Error; err != nil {
		return err
	}

	total, err := s.facturaciones.SumPagosPagados(ctx, tx, facturacionID)
	if err != nil {
		return err
	}

	estado := billing.Estado
	if estado != domain.FacturacionMorosa {
		switch {
		case total >= billing.ImportePresupuesto && billing.ImportePresupuesto > 0:
			estado = domain.FacturacionPagada
		case total > 0:
			estado = domain.FacturacionParcial
		default:
			estado = domain.FacturacionPendiente
		}
	}

	return s.facturaciones.UpdateFields(ctx, tx, facturacionID, map[string]any{
		"importe_facturado": total,
		"estado":            estado,
	})
}

func (s *Service) resolverExpediente(ctx context.Context, auth authz.Authorizer, expedienteID *int64) (*domain.Expediente, error) {
	if auth.Rol() == domain.RolCliente {
		exp, err := s.expedientes.GetByClienteID(ctx, auth.UserID())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSinExpediente
			}
			return nil, err
		}
		return exp, nil
	}

	if expedienteID == nil {
		return nil, ErrNotFound
	}
	exp, err := s.expedientes.GetByID(ctx, *expedienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !auth.CanView(exp) {
		return nil, ErrForbidden
	}
	return exp, nil
}
