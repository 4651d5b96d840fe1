package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegistroRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Telefono string `json:"telefono"`
	NIF      string `json:"nif"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Rol      string `json:"rol"`
	Telefono string `json:"telefono,omitempty"`
	NIF      string `json:"nif,omitempty"`
	Activo   bool   `json:"activo"`
}
