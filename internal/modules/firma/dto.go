package firma

type CrearRequest struct {
	ExpedienteID   *int64 `json:"expedienteId"`
	Tipo           string `json:"tipo" binding:"required"`
	DocumentoLabel string `json:"documentoLabel"`
	// FirmaBlob is the signature capture encoded as base64.
	FirmaBlob string `json:"firmaBlob" binding:"required"`
}
