package ports

import (
	"context"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// EventPublisher hands committed events to the background dispatcher. It
// never blocks the caller on delivery and reports nothing back.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event)
}

// EventProcessor consumes one event. Returning an error asks the transport to retry.
type EventProcessor interface {
	Process(ctx context.Context, event domain.Event) error
}

// Mailer delivers a notification e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a text message. Enabled is false when no provider is configured.
type SMSSender interface {
	Enabled() bool
	Send(ctx context.Context, to, body string) error
}
