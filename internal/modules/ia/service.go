package ia

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deudasacero/internal/domain"
	"deudasacero/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const systemPrompt = "Eres un asistente jurídico especializado en la Ley de Segunda Oportunidad española " +
	"(mecanismo de exoneración del pasivo insatisfecho, TRLC). Redactas borradores de documentos " +
	"legales en castellano formal, listos para revisión por un abogado. Nunca inventes datos del " +
	"cliente que no se te hayan facilitado."

type Service struct {
	client      *Client
	documentos  *repository.DocumentoRepository
	expedientes *repository.ExpedienteRepository
}

func NewService(client *Client, documentos *repository.DocumentoRepository, expedientes *repository.ExpedienteRepository) *Service {
	return &Service{client: client, documentos: documentos, expedientes: expedientes}
}

// GenerarDocumento drafts a legal document through the LLM and stores
// it as a Documento. The caseId is optional: generated drafts can live
// unattached until a lawyer files them.
func (s *Service) GenerarDocumento(ctx context.Context, userID int64, req GenerarRequest) (*domain.Documento, error) {
	if !s.client.Configured() {
		return nil, ErrNoConfigurado
	}

	prompt := fmt.Sprintf("Redacta un borrador de: %s.", req.Tipo)
	if req.ExpedienteID != nil {
		exp, err := s.expedientes.GetByID(ctx, *req.ExpedienteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		prompt += fmt.Sprintf(" Expediente %s, fase %d de 10 (%s).",
			exp.Referencia, exp.FaseActual, domain.Fase(exp.FaseActual).Nombre())
	}
	if req.Instrucciones != "" {
		prompt += " Instrucciones adicionales: " + req.Instrucciones
	}

	texto, err := s.client.Completar(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	doc := &domain.Documento{
		ExpedienteID:  req.ExpedienteID,
		Nombre:        req.Tipo,
		Tipo:          "ia",
		Estado:        domain.DocumentoSubido,
		SubidoPor:     userID,
		NombreFichero: uuid.NewString() + ".md",
		Contenido:     texto,
		SubidoEn:      time.Now(),
	}
	if err := s.documentos.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
