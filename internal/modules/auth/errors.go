package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("credenciales no válidas")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrAccountInactive    = errors.New("la cuenta está desactivada")
	ErrAccountLocked      = errors.New("la cuenta está bloqueada temporalmente")
)
