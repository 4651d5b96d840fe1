package domain

import "time"

type AuditLog struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"index" json:"userId"`
	ExpedienteID *int64    `gorm:"index" json:"expedienteId"`
	Accion       string    `gorm:"not null" json:"accion"`
	Descripcion  string    `json:"descripcion,omitempty"`
	Datos        string    `gorm:"type:text" json:"datos,omitempty"`
	IP           string    `json:"ip,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (AuditLog) TableName() string { return "audit_logs" }
