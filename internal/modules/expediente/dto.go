package expediente

import "deudasacero/internal/domain"

type CambiarFaseRequest struct {
	Fase *int `json:"fase" binding:"required"`
}

type AsignarRequest struct {
	AbogadoID *int64 `json:"abogadoId"`
}

// Totales are the computed counters shown next to a case.
type Totales struct {
	TotalDeuda           float64 `json:"totalDeuda"`
	DocumentosPendientes int64   `json:"documentosPendientes"`
	MensajesNoLeidos     int64   `json:"mensajesNoLeidos"`
	ChecklistCompletado  int     `json:"checklistCompletado"`
}

type ExpedienteConTotales struct {
	domain.Expediente
	Totales Totales `json:"totales"`
}

type FaseInfo struct {
	Numero      int    `json:"numero"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Porcentaje  int    `json:"porcentaje"`
}

// ListadoFases is the fixed ten-step ladder, for client rendering.
func ListadoFases() []FaseInfo {
	fases := make([]FaseInfo, 0, 10)
	for n := int(domain.FaseMinima); n <= int(domain.FaseFinal); n++ {
		f := domain.Fase(n)
		fases = append(fases, FaseInfo{
			Numero:      n,
			Nombre:      f.Nombre(),
			Descripcion: f.Descripcion(),
			Porcentaje:  f.Porcentaje(),
		})
	}
	return fases
}
