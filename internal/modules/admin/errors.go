package admin

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrRolInvalido        = errors.New("rol no válido")
	ErrRolInmutable       = errors.New("el rol de un usuario no se puede cambiar")
	ErrYaTieneExpediente  = errors.New("el cliente ya tiene expediente")
)
