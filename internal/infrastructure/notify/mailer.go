// Package notify delivers notification e-mails and text messages.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jobboard/jobboard-api/internal/api/metrics"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends HTML e-mail through an SMTP relay.
type SMTPMailer struct {
	from   string
	dialer dialer
	log    zerolog.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:    log,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		metrics.NotificationsSentTotal.WithLabelValues("email", "failed").Inc()
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	metrics.NotificationsSentTotal.WithLabelValues("email", "sent").Inc()
	m.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// LogMailer writes e-mails to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	metrics.NotificationsSentTotal.WithLabelValues("email", "logged").Inc()
	m.log.Info().Str("to", to).Str("subject", subject).Int("body_bytes", len(body)).Msg("email (log only)")
	return nil
}

// NewMailer returns an SMTP mailer when a host is configured and a LogMailer otherwise.
func NewMailer(cfg SMTPConfig, log zerolog.Logger) ports.Mailer {
	if cfg.Host == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg, log)
}
