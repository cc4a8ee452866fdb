package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Numero  int    `json:"numero"`
	PDFPath string `json:"pdf_path"`
}

// ReciboSender is satisfied by *infra.Mailer.
type ReciboSender interface {
	SendRecibo(to string, numero int, pdfPath string) error
}

// Breaker is satisfied by *infra.CircuitBreaker.
type Breaker interface {
	Execute(fn func() error) error
}

// EmailWorker mails PDF receipts through the SMTP relay.
type EmailWorker struct {
	mailer  ReciboSender
	breaker Breaker
}

func NewEmailWorker(mailer ReciboSender, breaker Breaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Int("numero", payload.Numero).Msg("email_worker: empty to_email, skipping")
		return nil
	}

	send := func() error { return w.mailer.SendRecibo(payload.ToEmail, payload.Numero, payload.PDFPath) }
	var err error
	if w.breaker != nil {
		err = w.breaker.Execute(send)
	} else {
		err = send()
	}
	if err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Int("numero", payload.Numero).Msg("email_worker: recibo enviado")
	return nil
}
