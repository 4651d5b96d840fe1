package ia

import "errors"

var (
	ErrNoConfigurado = errors.New("PERPLEXITY_API_KEY no configurada")
	ErrNotFound      = errors.New("expediente no encontrado")
)
