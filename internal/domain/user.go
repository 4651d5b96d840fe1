package domain

import "time"

type Rol string

const (
	RolAdmin   Rol = "admin"
	RolAbogado Rol = "abogado"
	RolCliente Rol = "cliente"
)

func (r Rol) Valida() bool {
	switch r {
	case RolAdmin, RolAbogado, RolCliente:
		return true
	}
	return false
}

type User struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string     `gorm:"not null" json:"-"`
	Nombre         string     `gorm:"not null" json:"nombre"`
	Telefono       string     `json:"telefono,omitempty"`
	NIF            string     `gorm:"column:nif" json:"nif,omitempty"`
	Rol            Rol        `gorm:"type:varchar(20);not null" json:"rol"`
	Activo         bool       `gorm:"default:true" json:"activo"`
	Direccion      string     `json:"direccion,omitempty"`
	UltimoAcceso   *time.Time `json:"ultimoAcceso,omitempty"`
	FailedLogins   int        `gorm:"default:0" json:"-"`
	BloqueadoHasta *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
