package domain

import "time"

// Firma is an append-only evidentiary record; rows are never updated
// or deleted through the API.
type Firma struct {
	ID             int64  `gorm:"primaryKey" json:"id"`
	UUID           string `gorm:"uniqueIndex;not null" json:"uuid"`
	ExpedienteID   int64  `gorm:"index;not null" json:"expedienteId"`
	UserID         int64  `gorm:"not null" json:"userId"`
	Tipo           string `gorm:"not null" json:"tipo"`
	DocumentoLabel string `json:"documentoLabel,omitempty"`
	// FirmaBlob is the captured signature image, base64-encoded inline.
	FirmaBlob  string    `gorm:"type:text" json:"firmaBlob,omitempty"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	Verificada bool      `gorm:"default:false" json:"verificada"`
	FirmadoEn  time.Time `json:"firmadoEn"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Firma) TableName() string { return "firmas" }
