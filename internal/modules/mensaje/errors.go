package mensaje

import "errors"

var (
	ErrNotFound      = errors.New("expediente no encontrado")
	ErrForbidden     = errors.New("sin acceso a este expediente")
	ErrSinExpediente = errors.New("el cliente no tiene expediente")
	ErrTextoVacio    = errors.New("el mensaje no tiene texto")
)
