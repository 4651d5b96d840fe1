package domain

import "time"

type EstadoDocumento string

const (
	DocumentoPendiente  EstadoDocumento = "pendiente"
	DocumentoSubido     EstadoDocumento = "subido"
	DocumentoRevisado   EstadoDocumento = "revisado"
	DocumentoIncorrecto EstadoDocumento = "incorrecto"
)

type Documento struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	ExpedienteID  *int64          `gorm:"index" json:"expedienteId"`
	Nombre        string          `gorm:"not null" json:"nombre"`
	Tipo          string          `gorm:"not null" json:"tipo"`
	Estado        EstadoDocumento `gorm:"type:varchar(20);not null;default:'pendiente'" json:"estado"`
	Fase          int             `json:"fase,omitempty"`
	SubidoPor     int64           `json:"subidoPor,omitempty"`
	NombreFichero string          `json:"nombreFichero,omitempty"`
	// Contenido holds the raw upload encoded as base64 (or generated
	// text for AI documents). Stored inline in the relational store.
	Contenido string    `gorm:"type:text" json:"contenido,omitempty"`
	Notas     string    `json:"notas,omitempty"`
	Judicial  bool      `gorm:"default:false" json:"judicial"`
	SubidoEn  time.Time `json:"subidoEn"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Documento) TableName() string { return "documentos" }

type ChecklistItem struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	ExpedienteID       int64     `gorm:"index;not null" json:"expedienteId"`
	Nombre             string    `gorm:"not null" json:"nombre"`
	Orden              int       `gorm:"not null" json:"orden"`
	Obligatorio        bool      `gorm:"default:true" json:"obligatorio"`
	NoAplica           bool      `gorm:"default:false" json:"noAplica"`
	DocumentoVinculado *int64    `gorm:"column:documento_vinculado_id" json:"documentoVinculadoId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (ChecklistItem) TableName() string { return "checklist_items" }

// ChecklistPlantilla is the fixed document list seeded for every new
// expediente at onboarding.
var ChecklistPlantilla = []string{
	"DNI o NIE en vigor",
	"Certificado de empadronamiento",
	"Vida laboral actualizada",
	"Declaración de la renta (último ejercicio)",
	"Nóminas de los últimos 3 meses",
	"Certificado de prestaciones o pensiones",
	"Relación de deudas y acreedores",
	"Contratos de préstamo y tarjetas",
	"Escrituras o contrato de alquiler de vivienda",
	"Libro de familia o certificado de nacimiento de hijos",
	"Certificado de antecedentes penales",
}
