package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// ApplicationService implements the application lifecycle. Status changes are
// written with compare-and-set and their events are published after the write.
type ApplicationService struct {
	apps   ports.ApplicationRepository
	jobs   ports.JobRepository
	audit  ports.AuditLog
	events ports.EventPublisher
	now    func() time.Time
	log    zerolog.Logger
}

func NewApplicationService(
	apps ports.ApplicationRepository,
	jobs ports.JobRepository,
	audit ports.AuditLog,
	events ports.EventPublisher,
	log zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, audit: audit, events: events, now: time.Now, log: log}
}

// Apply submits the acting seeker's application to jobID.
func (s *ApplicationService) Apply(ctx context.Context, actor policy.Actor, jobID, coverLetter string) (*ports.ApplicationView, error) {
	if err := policy.AuthorizeApplication(actor, policy.Create, policy.ApplicationTarget{}); err != nil {
		return nil, err
	}
	seeker, ok := actor.(policy.JobSeeker)
	if !ok || seeker.JobSeekerID == "" {
		return nil, fmt.Errorf("%w: a job seeker profile is required to apply", domain.ErrNotAuthorized)
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	exists, err := s.apps.ApplicationExists(ctx, jobID, seeker.JobSeekerID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	if exists {
		return nil, domain.ErrConflictingApplication
	}

	now := s.now().UTC()
	if !job.AcceptsApplications(now) {
		return nil, fmt.Errorf("%w: job is %s", domain.ErrCannotApply, job.Status)
	}

	app, ev, err := domain.NewApplication(jobID, seeker.JobSeekerID, coverLetter, now)
	if err != nil {
		return nil, err
	}
	if err := s.apps.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	s.events.Publish(ctx, ev)

	s.log.Info().
		Str("application_id", app.ID).
		Str("job_id", jobID).
		Str("job_seeker_id", seeker.JobSeekerID).
		Msg("application submitted")

	app.Job = job
	return s.view(app), nil
}

func (s *ApplicationService) ListApplications(ctx context.Context, actor policy.Actor, in ports.ApplicationListInput) (ports.Page[ports.ApplicationView], error) {
	if err := policy.AuthorizeApplication(actor, policy.Index, policy.ApplicationTarget{}); err != nil {
		return ports.Page[ports.ApplicationView]{}, err
	}

	status := domain.ApplicationStatus(in.Status)
	if status != "" && !status.Valid() {
		return ports.Page[ports.ApplicationView]{}, domain.NewValidationError("status", "status must be one of: pending reviewed shortlisted interviewed accepted rejected withdrawn")
	}

	apps, total, err := s.apps.ListApplications(ctx, ports.ApplicationFilter{
		Scope:       actor.ApplicationScope(),
		JobID:       in.JobID,
		JobSeekerID: in.JobSeekerID,
		CompanyID:   in.CompanyID,
		Status:      status,
		Recent:      in.Recent,
		Pagination:  in.Pagination.Normalize(),
	})
	if err != nil {
		return ports.Page[ports.ApplicationView]{}, fmt.Errorf("list applications: %w", err)
	}

	views := make([]ports.ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, *s.view(&apps[i]))
	}
	return ports.NewPage(views, total, in.Pagination), nil
}

func (s *ApplicationService) GetApplication(ctx context.Context, actor policy.Actor, id string) (*ports.ApplicationView, error) {
	app, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if err := policy.AuthorizeApplication(actor, policy.Show, targetOf(app)); err != nil {
		return nil, err
	}
	return s.view(app), nil
}

// UpdateApplication edits the cover letter and/or status. A status of
// withdrawn follows the withdraw rule.
func (s *ApplicationService) UpdateApplication(ctx context.Context, actor policy.Actor, id string, patch ports.ApplicationPatch) (*ports.ApplicationView, error) {
	changes := policy.ApplicationChanges{CoverLetter: patch.CoverLetter != nil, Status: patch.Status}

	var (
		app *domain.JobApplication
		ev  *domain.Event
	)
	err := retryOnConflict(ctx, func() (bool, error) {
		var err error
		app, err = s.apps.GetApplication(ctx, id)
		if err != nil {
			return false, fmt.Errorf("update application: %w", err)
		}
		if err := policy.AuthorizeApplicationUpdate(actor, targetOf(app), changes); err != nil {
			return false, err
		}

		now := s.now().UTC()
		expected := app.Status
		ev = nil
		dirty := false

		if patch.Status != nil {
			if *patch.Status == domain.AppWithdrawn && app.Status != domain.AppWithdrawn {
				w, err := app.Withdraw(now)
				if err != nil {
					return false, err
				}
				ev = &w
			} else if ev, err = app.ChangeStatus(*patch.Status, now); err != nil {
				return false, err
			}
			dirty = ev != nil
		}
		if patch.CoverLetter != nil && *patch.CoverLetter != app.CoverLetter {
			app.CoverLetter = *patch.CoverLetter
			app.UpdatedAt = now
			dirty = true
		}
		if !dirty {
			return true, nil
		}
		if err := domain.Validate(app); err != nil {
			return false, err
		}
		return s.apps.SaveApplication(ctx, app, expected)
	})
	if err != nil {
		return nil, err
	}

	if ev != nil {
		s.events.Publish(ctx, *ev)
		s.log.Info().Str("application_id", app.ID).Str("status", string(app.Status)).Msg("application status updated")
	}
	return s.view(app), nil
}

// Withdraw moves the application to withdrawn. Destroying an application
// is a withdrawal.
func (s *ApplicationService) Withdraw(ctx context.Context, actor policy.Actor, id string) (*ports.ApplicationView, error) {
	var (
		app *domain.JobApplication
		ev  domain.Event
	)
	err := retryOnConflict(ctx, func() (bool, error) {
		var err error
		app, err = s.apps.GetApplication(ctx, id)
		if err != nil {
			return false, fmt.Errorf("withdraw application: %w", err)
		}
		if err := policy.AuthorizeApplication(actor, policy.Destroy, targetOf(app)); err != nil {
			return false, err
		}

		expected := app.Status
		if ev, err = app.Withdraw(s.now().UTC()); err != nil {
			return false, err
		}
		return s.apps.SaveApplication(ctx, app, expected)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, ev)
	s.log.Info().Str("application_id", app.ID).Msg("application withdrawn")
	return s.view(app), nil
}

// History returns the recorded status changes of a visible application.
func (s *ApplicationService) History(ctx context.Context, actor policy.Actor, id string) ([]domain.StatusChange, error) {
	owner, err := s.apps.ResolveApplicationOwnership(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("application history: %w", err)
	}
	if err := policy.AuthorizeApplication(actor, policy.Show, policy.ApplicationTarget{Owner: owner}); err != nil {
		return nil, err
	}
	changes, err := s.audit.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("application history: %w", err)
	}
	return changes, nil
}

func (s *ApplicationService) view(app *domain.JobApplication) *ports.ApplicationView {
	now := s.now()
	return &ports.ApplicationView{
		Application:         app,
		DaysSinceApplied:    app.DaysSinceApplied(now),
		IsRecentApplication: app.IsRecentApplication(now),
	}
}

func targetOf(app *domain.JobApplication) policy.ApplicationTarget {
	return policy.ApplicationTarget{Owner: domain.ApplicationOwnershipOf(app), Status: app.Status}
}
