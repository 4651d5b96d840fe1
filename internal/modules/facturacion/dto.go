package facturacion

import "time"

type CrearRequest struct {
	ExpedienteID       int64   `json:"expedienteId" binding:"required"`
	ImportePresupuesto float64 `json:"importePresupuesto" binding:"required,gt=0"`
	MetodoPago         string  `json:"metodoPago"`
}

type ActualizarRequest struct {
	ImportePresupuesto *float64 `json:"importePresupuesto"`
	MetodoPago         *string  `json:"metodoPago"`
	// Estado only accepts moroso or the derivable states; the derived
	// ones are recomputed on the next reconciliation anyway.
	Estado *string `json:"estado"`
}

type CrearPagoRequest struct {
	ExpedienteID int64      `json:"expedienteId" binding:"required"`
	Concepto     string     `json:"concepto" binding:"required"`
	Importe      float64    `json:"importe" binding:"required,gt=0"`
	Vencimiento  *time.Time `json:"vencimiento"`
}

type ActualizarPagoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

type CrearFacturaRequest struct {
	UserID       int64   `json:"userId" binding:"required"`
	ExpedienteID *int64  `json:"expedienteId"`
	Numero       string  `json:"numero" binding:"required"`
	Importe      float64 `json:"importe" binding:"required,gt=0"`
	ContenidoPDF string  `json:"contenidoPdf"`
}
