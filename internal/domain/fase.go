package domain

import (
	"errors"
	"math"
)

// Fase is one of the ten fixed stages of a second-chance proceeding.
// The zero value is not valid; build one through NuevaFase.
type Fase int

var ErrFaseInvalida = errors.New("la fase debe estar entre 1 y 10")

const (
	FaseMinima Fase = 1
	FaseFinal  Fase = 10
)

func NuevaFase(n int) (Fase, error) {
	if n < int(FaseMinima) || n > int(FaseFinal) {
		return 0, ErrFaseInvalida
	}
	return Fase(n), nil
}

// Porcentaje derives the displayed progress for this phase.
func (f Fase) Porcentaje() int {
	return int(math.Round(float64(f) / 10 * 100))
}

func (f Fase) EsFinal() bool { return f == FaseFinal }

var nombresFase = [10]string{
	"Apertura del expediente",
	"Recopilación de documentación",
	"Análisis de deudas",
	"Intento de acuerdo extrajudicial",
	"Preparación de la demanda",
	"Presentación en el juzgado",
	"Admisión a trámite",
	"Liquidación del patrimonio",
	"Solicitud de exoneración (EPI)",
	"Resolución y cierre del procedimiento",
}

var descripcionesFase = [10]string{
	"Se abre el expediente y se asigna letrado.",
	"El cliente aporta la documentación necesaria del checklist.",
	"Estudio y clasificación de las deudas del cliente.",
	"Negociación con los acreedores antes de acudir al juzgado.",
	"Redacción de la demanda de concurso de persona física.",
	"La demanda queda presentada ante el juzgado competente.",
	"El juzgado admite a trámite el concurso.",
	"Fase de liquidación del patrimonio no exento.",
	"Se solicita la exoneración del pasivo insatisfecho.",
	"El procedimiento queda resuelto y el expediente cerrado.",
}

func (f Fase) Nombre() string {
	if f < FaseMinima || f > FaseFinal {
		return ""
	}
	return nombresFase[f-1]
}

func (f Fase) Descripcion() string {
	if f < FaseMinima || f > FaseFinal {
		return ""
	}
	return descripcionesFase[f-1]
}
