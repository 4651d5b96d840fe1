package domain

import "time"

type EstadoFacturacion string

const (
	FacturacionPendiente EstadoFacturacion = "pendiente"
	FacturacionParcial   EstadoFacturacion = "parcial"
	FacturacionPagada    EstadoFacturacion = "pagado"
	FacturacionMorosa    EstadoFacturacion = "moroso"
)

type EstadoPago string

const (
	PagoPendiente EstadoPago = "pendiente"
	PagoPagado    EstadoPago = "pagado"
)

type EstadoFactura string

const (
	FacturaEmitida EstadoFactura = "emitida"
	FacturaPagada  EstadoFactura = "pagada"
	FacturaAnulada EstadoFactura = "anulada"
)

// Facturacion is the one-per-expediente billing summary, reconciled
// from its child Pagos.
type Facturacion struct {
	ID                 int64             `gorm:"primaryKey" json:"id"`
	ExpedienteID       int64             `gorm:"uniqueIndex;not null" json:"expedienteId"`
	ImportePresupuesto float64           `gorm:"not null" json:"importePresupuesto"`
	ImporteFacturado   float64           `gorm:"not null;default:0" json:"importeFacturado"`
	Estado             EstadoFacturacion `gorm:"type:varchar(20);not null;default:'pendiente'" json:"estado"`
	MetodoPago         string            `json:"metodoPago,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`

	Pagos []Pago `gorm:"foreignKey:FacturacionID" json:"pagos,omitempty"`
}

func (Facturacion) TableName() string { return "facturaciones" }

type Pago struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	FacturacionID int64      `gorm:"index;not null" json:"facturacionId"`
	Concepto      string     `gorm:"not null" json:"concepto"`
	Importe       float64    `gorm:"not null" json:"importe"`
	Estado        EstadoPago `gorm:"type:varchar(20);not null;default:'pendiente'" json:"estado"`
	Vencimiento   *time.Time `json:"vencimiento,omitempty"`
	FechaPago     *time.Time `json:"fechaPago,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Pago) TableName() string { return "pagos" }

// Factura is a standalone issued invoice; paying one synthesizes or
// updates the expediente's Facturacion.
type Factura struct {
	ID           int64         `gorm:"primaryKey" json:"id"`
	UserID       int64         `gorm:"index;not null" json:"userId"`
	ExpedienteID *int64        `gorm:"index" json:"expedienteId"`
	Numero       string        `gorm:"uniqueIndex;not null" json:"numero"`
	Importe      float64       `gorm:"not null" json:"importe"`
	Estado       EstadoFactura `gorm:"type:varchar(20);not null;default:'emitida'" json:"estado"`
	// ContenidoPDF is the rendered invoice encoded as base64, inline.
	ContenidoPDF string    `gorm:"type:text" json:"contenidoPdf,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Factura) TableName() string { return "facturas" }
