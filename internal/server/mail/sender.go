// Package mail delivers verification codes to account holders.
package mail

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"gopkg.in/gomail.v2"
)

// Sender delivers a single plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Settings configure the SMTP relay and the envelope sender.
type Settings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends mail through an SMTP relay with gomail.
type SMTPSender struct {
	dialer dialer
	from   string
}

func NewSMTPSender(s Settings) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(s.Host, s.Port, s.User, s.Password),
		from:   s.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender writes messages to the log instead of mailing them. It backs
// the dry-run mode used in development.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "mail")}
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info(ctx, "mail not sent (dry run)", "to", to, "subject", subject, "body", body)
	return nil
}
