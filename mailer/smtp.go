package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/jrsteele09/go-bizcuit-gateway/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SMTP delivers mail through a plain SMTP submission endpoint.
type SMTP struct {
	host     string
	port     string
	account  string
	password string
	from     string
}

// NewSMTP creates a mailer from the SMTP configuration.
func NewSMTP(cfg config.SmtpConfig) *SMTP {
	return &SMTP{
		host:     cfg.GetSmtpHost(),
		port:     cfg.GetSmtpPort(),
		account:  cfg.GetSmtpAccount(),
		password: cfg.GetSmtpPassword(),
		from:     cfg.GetMailFromAddress(),
	}
}

var _ Notifier = &SMTP{}

// Send delivers the message as an HTML mail.
func (m *SMTP) Send(_ context.Context, msg Message) error {
	var body bytes.Buffer
	fmt.Fprintf(&body, "From: %s\r\n", m.from)
	fmt.Fprintf(&body, "To: %s\r\n", msg.To)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	addr := net.JoinHostPort(m.host, m.port)
	auth := smtp.PlainAuth("", m.account, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{msg.To}, body.Bytes()); err != nil {
		log.Err(err).Msg("sendMail")
		return errors.Wrap(err, "[SMTP.Send] smtp.SendMail")
	}

	return nil
}
