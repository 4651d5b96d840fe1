package documento

type SubirRequest struct {
	ExpedienteID  *int64 `json:"expedienteId"`
	Nombre        string `json:"nombre" binding:"required"`
	Tipo          string `json:"tipo" binding:"required"`
	NombreFichero string `json:"nombreFichero"`
	// Contenido is the file encoded as base64; it is stored inline.
	Contenido string `json:"contenido" binding:"required"`
	Fase      int    `json:"fase"`
	Judicial  bool   `json:"judicial"`
}

type RevisarRequest struct {
	Estado string `json:"estado" binding:"required"`
	Notas  string `json:"notas"`
}

type ChecklistNoAplicaRequest struct {
	NoAplica bool `json:"noAplica"`
}
