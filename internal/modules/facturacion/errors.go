package facturacion

import "errors"

var (
	ErrNotFound        = errors.New("expediente no encontrado")
	ErrForbidden       = errors.New("sin acceso a este expediente")
	ErrSinExpediente   = errors.New("el cliente no tiene expediente")
	ErrSinFacturacion  = errors.New("el expediente no tiene facturación")
	ErrYaExiste        = errors.New("ya existe facturación para este expediente")
	ErrPagoNoExiste    = errors.New("pago no encontrado")
	ErrFacturaNoExiste = errors.New("factura no encontrada")
	ErrNumeroDuplicado = errors.New("ya existe una factura con ese número")
	ErrEstadoInvalido  = errors.New("estado no válido")
	ErrFacturaAnulada  = errors.New("la factura está anulada")
)
