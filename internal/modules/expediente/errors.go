package expediente

import "errors"

var (
	ErrNotFound        = errors.New("expediente no encontrado")
	ErrForbidden       = errors.New("sin acceso a este expediente")
	ErrSinExpediente   = errors.New("el cliente no tiene expediente")
	ErrAbogadoInvalido = errors.New("el usuario asignado no es abogado")
	ErrNoCerrado       = errors.New("el expediente no está cerrado")
)
