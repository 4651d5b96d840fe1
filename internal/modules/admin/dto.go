package admin

import "deudasacero/internal/domain"

type DeudaInput struct {
	Tipo        string  `json:"tipo" binding:"required"`
	Importe     float64 `json:"importe" binding:"required,gt=0"`
	Acreedor    string  `json:"acreedor"`
	Descripcion string  `json:"descripcion"`
}

type CrearUsuarioRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Rol      string `json:"rol" binding:"required"`
	Telefono string `json:"telefono"`
	NIF      string `json:"nif"`
	// CrearExpediente opens a case for a new cliente in the same
	// transaction, with reference, deudas and checklist.
	CrearExpediente bool         `json:"crearExpediente"`
	Deudas          []DeudaInput `json:"deudas"`
}

type ActualizarUsuarioRequest struct {
	Nombre   *string `json:"nombre"`
	Telefono *string `json:"telefono"`
	NIF      *string `json:"nif"`
	Activo   *bool   `json:"activo"`
	Rol      *string `json:"rol"`
}

type CrearUsuarioResponse struct {
	Usuario    *domain.User       `json:"usuario"`
	Expediente *domain.Expediente `json:"expediente,omitempty"`
}

type HealthCheckDatabase struct {
	Connected   bool  `json:"connected"`
	TablesExist bool  `json:"tablesExist"`
	UserCount   int64 `json:"userCount"`
}

type HealthCheckJWT struct {
	Configured bool `json:"configured"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Checks struct {
		Database HealthCheckDatabase `json:"database"`
		JWT      HealthCheckJWT      `json:"jwt"`
	} `json:"checks"`
}
