package documento

import "errors"

var (
	ErrNotFound       = errors.New("documento no encontrado")
	ErrForbidden      = errors.New("sin acceso a este documento")
	ErrSinExpediente  = errors.New("el cliente no tiene expediente")
	ErrEstadoInvalido = errors.New("estado de revisión no válido")
	ErrContenidoVacio = errors.New("el documento no tiene contenido")
)
