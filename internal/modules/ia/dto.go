package ia

type GenerarRequest struct {
	ExpedienteID *int64 `json:"expedienteId"`
	// Tipo names the legal document to draft, e.g. "solicitud EPI" or
	// "demanda de concurso consecutivo".
	Tipo          string `json:"tipo" binding:"required"`
	Instrucciones string `json:"instrucciones"`
}
