package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// EventService is the background consumer of lifecycle events. Application
// events are recorded in the audit log and delivered by e-mail and SMS; job
// events keep the search index in step with the store.
type EventService struct {
	apps   ports.ApplicationRepository
	jobs   ports.JobRepository
	users  ports.UserRepository
	audit  ports.AuditLog
	index  ports.SearchIndex
	mailer ports.Mailer
	sms    ports.SMSSender
	dedup  ports.Deduplicator
	log    zerolog.Logger
}

// EventDeps groups the collaborators of EventService.
type EventDeps struct {
	Applications ports.ApplicationRepository
	Jobs         ports.JobRepository
	Users        ports.UserRepository
	Audit        ports.AuditLog
	Index        ports.SearchIndex
	Mailer       ports.Mailer
	SMS          ports.SMSSender
	Dedup        ports.Deduplicator
}

func NewEventService(deps EventDeps, log zerolog.Logger) *EventService {
	return &EventService{
		apps:   deps.Applications,
		jobs:   deps.Jobs,
		users:  deps.Users,
		audit:  deps.Audit,
		index:  deps.Index,
		mailer: deps.Mailer,
		sms:    deps.SMS,
		dedup:  deps.Dedup,
		log:    log,
	}
}

// Process handles one event. Already processed events are skipped; an event
// is marked processed only after it succeeds, so a failure is retried.
func (s *EventService) Process(ctx context.Context, ev domain.Event) error {
	// 1. Idempotency check. A dedup outage must not stop delivery.
	seen, err := s.dedup.Seen(ctx, ev.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("dedup check failed, processing anyway")
	} else if seen {
		s.log.Debug().Str("event_id", ev.ID).Str("kind", string(ev.Kind)).Msg("duplicate event skipped")
		return nil
	}

	// 2. Route by kind.
	switch ev.Kind {
	case domain.EventNewApplication, domain.EventStatusUpdate:
		err = s.handleApplicationEvent(ctx, ev)
	case domain.EventJobIndexed:
		err = s.indexJob(ctx, ev.AggregateID)
	case domain.EventJobRemoved:
		err = s.index.DeleteJob(ctx, ev.AggregateID)
	default:
		s.log.Warn().Str("event_id", ev.ID).Str("kind", string(ev.Kind)).Msg("unknown event kind ignored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("process %s event %s: %w", ev.Kind, ev.ID, err)
	}

	// 3. Remember success.
	if err := s.dedup.Mark(ctx, ev.ID); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("failed to set dedup key")
	}

	s.log.Info().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Str("aggregate_id", ev.AggregateID).
		Msg("event processed")
	return nil
}

func (s *EventService) handleApplicationEvent(ctx context.Context, ev domain.Event) error {
	app, err := s.apps.GetApplication(ctx, ev.AggregateID)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Str("application_id", ev.AggregateID).Msg("application gone, notification dropped")
		return nil
	}
	if err != nil {
		return err
	}

	// The audit store upserts by event id, so a retried event is recorded once.
	if err := s.audit.Append(ctx, domain.StatusChange{
		EventID:       ev.ID,
		ApplicationID: app.ID,
		Kind:          ev.Kind,
		Status:        ev.NewStatus,
		OccurredAt:    ev.OccurredAt,
		RecordedAt:    time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	n, err := s.buildNotification(ctx, ev, app)
	if err != nil {
		return err
	}
	if n.email != "" {
		if err := s.mailer.Send(ctx, n.email, n.subject, n.body); err != nil {
			return fmt.Errorf("send email: %w", err)
		}
	}
	if n.phone != "" && s.sms.Enabled() {
		if err := s.sms.Send(ctx, n.phone, n.sms); err != nil {
			s.log.Error().Err(err).Str("application_id", app.ID).Msg("sms notification failed")
		}
	}
	return nil
}

var (
	newApplicationMail = template.Must(template.New("new_application").Parse(
		`<p>{{.Seeker}} applied for <strong>{{.Title}}</strong>.</p><p>{{.CoverLetter}}</p>`))
	statusUpdateMail = template.Must(template.New("status_update").Parse(
		`<p>Hi {{.Seeker}},</p><p>Your application for <strong>{{.Title}}</strong> at {{.Company}} is now <strong>{{.Status}}</strong>.</p>`))
)

type mailData struct {
	Seeker      string
	Title       string
	Company     string
	Status      string
	CoverLetter string
}

// renderMail executes an HTML body template; every field is escaped.
func renderMail(t *template.Template, data mailData) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s mail: %w", t.Name(), err)
	}
	return b.String(), nil
}

type notification struct {
	email   string
	phone   string
	subject string
	body    string
	sms     string
}

func (s *EventService) buildNotification(ctx context.Context, ev domain.Event, app *domain.JobApplication) (notification, error) {
	if app.Job == nil || app.Job.Company == nil || app.JobSeeker == nil {
		return notification{}, fmt.Errorf("application %s is missing its job, company or seeker", app.ID)
	}
	title := app.Job.Title
	seekerName := app.JobSeeker.FullName()

	if ev.Kind == domain.EventNewApplication {
		owner, err := s.users.FindByID(ctx, app.Job.Company.UserID)
		if err != nil {
			return notification{}, fmt.Errorf("load company user: %w", err)
		}
		body, err := renderMail(newApplicationMail, mailData{Seeker: seekerName, Title: title, CoverLetter: app.CoverLetter})
		if err != nil {
			return notification{}, err
		}
		return notification{
			email:   owner.Email,
			phone:   owner.Phone,
			subject: "New Application for " + title,
			body:    body,
			sms:     fmt.Sprintf("New job application received for %s from %s", title, seekerName),
		}, nil
	}

	applicant, err := s.users.FindByID(ctx, app.JobSeeker.UserID)
	if err != nil {
		return notification{}, fmt.Errorf("load applicant user: %w", err)
	}
	phone := applicant.Phone
	if phone == "" {
		phone = app.JobSeeker.Phone
	}
	body, err := renderMail(statusUpdateMail, mailData{
		Seeker:  seekerName,
		Title:   title,
		Company: app.Job.Company.Name,
		Status:  ev.NewStatus,
	})
	if err != nil {
		return notification{}, err
	}
	return notification{
		email:   applicant.Email,
		phone:   phone,
		subject: "Application Status Update for " + title,
		body:    body,
		sms:     fmt.Sprintf("Your application for %s status updated to %s", title, ev.NewStatus),
	}, nil
}

func (s *EventService) indexJob(ctx context.Context, jobID string) error {
	job, err := s.jobs.GetJob(ctx, jobID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.index.DeleteJob(ctx, jobID)
	}
	if err != nil {
		return err
	}
	return s.index.IndexJob(ctx, ports.NewJobDocument(job))
}
