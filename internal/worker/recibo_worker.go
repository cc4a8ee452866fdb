package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibo.
type ReciboJobPayload struct {
	Venda        dto.VendaResponse `json:"venda"`
	ClienteEmail *string           `json:"cliente_email,omitempty"`
}

// ReciboWorker renders the PDF receipt of a finalized sale, stores it and
// queues the customer email when one was given at checkout.
type ReciboWorker struct {
	emails      EmailEnqueuer
	storagePath string
	loja        string
	largura     int
}

// EmailEnqueuer is satisfied by *Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

func NewReciboWorker(emails EmailEnqueuer, storagePath, loja string, largura int) *ReciboWorker {
	return &ReciboWorker{emails: emails, storagePath: storagePath, loja: loja, largura: largura}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("recibo_worker: invalid payload: %w", err)
	}

	pdf, err := infra.RenderRecibo(payload.Venda, w.loja, w.largura)
	if err != nil {
		return err
	}
	path, err := infra.SaveRecibo(w.storagePath, payload.Venda.Numero, pdf)
	if err != nil {
		return err
	}
	log.Info().Int("numero", payload.Venda.Numero).Str("path", path).Msg("recibo_worker: recibo salvo")

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" || w.emails == nil {
		return nil
	}
	return w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: *payload.ClienteEmail,
		Numero:  payload.Venda.Numero,
		PDFPath: path,
	})
}
