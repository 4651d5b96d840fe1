package mensaje

import "deudasacero/internal/domain"

type EnviarRequest struct {
	ExpedienteID *int64 `json:"expedienteId"`
	Texto        string `json:"texto" binding:"required"`
	// RolDestino restricts the message to one role; empty means the
	// whole thread sees it.
	RolDestino       string `json:"rolDestino"`
	AdjuntoNombre    string `json:"adjuntoNombre"`
	AdjuntoContenido string `json:"adjuntoContenido"`
}

type HiloResponse struct {
	ExpedienteID int64            `json:"expedienteId"`
	Mensajes     []domain.Mensaje `json:"mensajes"`
	NoLeidos     int64            `json:"noLeidos"`
}

// WSEvent is the envelope pushed over the websocket.
type WSEvent struct {
	Type    string          `json:"type"`
	Mensaje *domain.Mensaje `json:"mensaje,omitempty"`
}

func NewMensajeEvent(m *domain.Mensaje) WSEvent {
	return WSEvent{Type: "mensaje", Mensaje: m}
}
