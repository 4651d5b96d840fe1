package domain

import "time"

type EstadoExpediente string

const (
	ExpedienteActivo  EstadoExpediente = "activo"
	ExpedienteCerrado EstadoExpediente = "cerrado"
)

type TipoDeuda string

const (
	DeudaFinanciera  TipoDeuda = "financiera"
	DeudaPublica     TipoDeuda = "publica"
	DeudaProveedores TipoDeuda = "proveedores"
	DeudaOtros       TipoDeuda = "otros"
)

type Expediente struct {
	ID                int64  `gorm:"primaryKey" json:"id"`
	Referencia        string `gorm:"uniqueIndex;not null" json:"referencia"`
	ClienteID         int64  `gorm:"uniqueIndex;not null" json:"clienteId"`
	AbogadoAsignadoID *int64 `gorm:"index" json:"abogadoAsignadoId"`
	Juzgado           string `json:"juzgado,omitempty"`
	TipoProcedimiento string `json:"tipoProcedimiento,omitempty"`
	FaseActual        int    `gorm:"not null;default:1" json:"faseActual"`
	// Progreso starts at 5% on creation; from then on it is derived from
	// the phase by the fase controller (fase/10*100).
	Progreso          int              `gorm:"not null;default:5" json:"progreso"`
	Estado            EstadoExpediente `gorm:"type:varchar(20);not null;default:'activo'" json:"estado"`
	FechaPresentacion *time.Time       `json:"fechaPresentacion,omitempty"`
	FechaCierre       *time.Time       `json:"fechaCierre,omitempty"`
	NotasInternas     string           `json:"notasInternas,omitempty"`
	BuenaFe           bool             `gorm:"default:true" json:"buenaFe"`
	SinAntecedentes   bool             `gorm:"default:true" json:"sinAntecedentes"`
	EstadoCivil       string           `json:"estadoCivil,omitempty"`
	NumeroHijos       int              `gorm:"default:0" json:"numeroHijos"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`

	Cliente *User   `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	Abogado *User   `gorm:"foreignKey:AbogadoAsignadoID" json:"abogado,omitempty"`
	Deudas  []Deuda `gorm:"foreignKey:ExpedienteID" json:"deudas,omitempty"`
}

func (Expediente) TableName() string { return "expedientes" }

type Deuda struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	ExpedienteID int64     `gorm:"index;not null" json:"expedienteId"`
	Tipo         TipoDeuda `gorm:"type:varchar(20);not null" json:"tipo"`
	Importe      float64   `gorm:"not null" json:"importe"`
	Descripcion  string    `json:"descripcion,omitempty"`
	Acreedor     string    `json:"acreedor,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Deuda) TableName() string { return "deudas" }
