package domain

import "time"

type Mensaje struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	ExpedienteID  int64  `gorm:"index;not null" json:"expedienteId"`
	UserID        int64  `gorm:"not null" json:"userId"`
	RolEmisor     Rol    `gorm:"type:varchar(20);not null" json:"rolEmisor"`
	RolDestino    *Rol   `gorm:"type:varchar(20)" json:"rolDestino"`
	Texto         string `gorm:"type:text;not null" json:"texto"`
	AdjuntoNombre string `json:"adjuntoNombre,omitempty"`
	// AdjuntoContenido is base64, same inline-storage contract as Documento.
	AdjuntoContenido string    `gorm:"type:text" json:"adjuntoContenido,omitempty"`
	Leido            bool      `gorm:"default:false" json:"leido"`
	EnviadoEn        time.Time `json:"enviadoEn"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (Mensaje) TableName() string { return "mensajes" }
