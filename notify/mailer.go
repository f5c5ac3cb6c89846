// Package notify sends borrower e-mails. Delivery is best effort: failures
// are logged and never change the outcome of the operation that triggered
// them.
package notify

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"

	"it_inventory/config"
)

var ErrDisabled = errors.New("mail delivery is not configured")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTPMailer delivers through one SMTP relay, dialing per message.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Text)
	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}
	return s.dialer.DialAndSend(msg)
}

// disabledMailer is used when SMTP_HOST is empty.
type disabledMailer struct{}

func (disabledMailer) Send(context.Context, Message) error { return ErrDisabled }

// NewMailer returns an SMTP mailer, or one that always fails with
// ErrDisabled when no relay is configured.
func NewMailer(cfg config.SMTP) Mailer {
	if !cfg.Enabled() {
		return disabledMailer{}
	}
	return NewSMTPMailer(cfg)
}
