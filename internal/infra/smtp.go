package infra

import (
	"fmt"
	"net/smtp"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending receipts as PDF attachments.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	loja     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		loja:     cfg.StoreName,
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.host != "" }

// NovoRecibo builds the receipt message for sale numero.
func (m *Mailer) NovoRecibo(to string, numero int, pdfPath string) (*email.Email, error) {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.loja, m.user)
	e.To = []string{to}
	e.Subject = fmt.Sprintf("%s - recibo da venda %06d", m.loja, numero)
	e.Text = []byte(fmt.Sprintf("Obrigado pela compra!\nSegue em anexo o recibo da venda %06d.\n", numero))

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return nil, fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}
	return e, nil
}

// SendRecibo mails the PDF receipt of a sale to the customer.
func (m *Mailer) SendRecibo(to string, numero int, pdfPath string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer: SMTP not configured")
	}
	e, err := m.NovoRecibo(to, numero, pdfPath)
	if err != nil {
		return err
	}
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
