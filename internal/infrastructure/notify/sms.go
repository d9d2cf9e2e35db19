package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/jobboard/jobboard-api/internal/api/metrics"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Configured reports whether every credential is present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// messageCreator is satisfied by the Twilio REST client's Api service.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSMS sends text messages through the Twilio Messages API.
type TwilioSMS struct {
	from string
	api  messageCreator
	log  zerolog.Logger
}

func NewTwilioSMS(cfg TwilioConfig, log zerolog.Logger) *TwilioSMS {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSMS{from: cfg.FromNumber, api: client.Api, log: log}
}

func (s *TwilioSMS) Enabled() bool { return true }

func (s *TwilioSMS) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		metrics.NotificationsSentTotal.WithLabelValues("sms", "failed").Inc()
		return fmt.Errorf("send sms to %s: %w", to, err)
	}
	metrics.NotificationsSentTotal.WithLabelValues("sms", "sent").Inc()

	ev := s.log.Debug().Str("to", to)
	if resp != nil && resp.Sid != nil {
		ev = ev.Str("sid", *resp.Sid)
	}
	ev.Msg("sms sent")
	return nil
}

// DisabledSMS is used when Twilio is not configured.
type DisabledSMS struct{}

func (DisabledSMS) Enabled() bool { return false }

func (DisabledSMS) Send(context.Context, string, string) error { return nil }

// NewSMS returns a Twilio sender when configured and DisabledSMS otherwise.
func NewSMS(cfg TwilioConfig, log zerolog.Logger) ports.SMSSender {
	if !cfg.Configured() {
		return DisabledSMS{}
	}
	return NewTwilioSMS(cfg, log)
}
