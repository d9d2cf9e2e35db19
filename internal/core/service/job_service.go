package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// JobService implements job posting use cases.
type JobService struct {
	jobs   ports.JobRepository
	apps   ports.ApplicationRepository
	events ports.EventPublisher
	now    func() time.Time
	log    zerolog.Logger
}

func NewJobService(jobs ports.JobRepository, apps ports.ApplicationRepository, events ports.EventPublisher, log zerolog.Logger) *JobService {
	return &JobService{jobs: jobs, apps: apps, events: events, now: time.Now, log: log}
}

func (s *JobService) ListJobs(ctx context.Context, actor policy.Actor, in ports.JobListInput) (ports.Page[ports.JobView], error) {
	if err := policy.AuthorizeJob(actor, policy.Index, domain.JobOwnership{}); err != nil {
		return ports.Page[ports.JobView]{}, err
	}

	jobs, total, err := s.jobs.ListJobs(ctx, ports.JobFilter{
		Scope:          actor.JobScope(),
		CompanyID:      in.CompanyID,
		ActiveOnly:     in.ActiveOnly,
		Location:       in.Location,
		EmploymentType: in.EmploymentType,
		Remote:         in.Remote,
		SalaryMin:      in.SalaryMin,
		SalaryMax:      in.SalaryMax,
		Search:         in.Search,
		Pagination:     in.Pagination.Normalize(),
	})
	if err != nil {
		return ports.Page[ports.JobView]{}, fmt.Errorf("list jobs: %w", err)
	}

	now := s.now()
	views := make([]ports.JobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, jobView(&jobs[i], now))
	}
	return ports.NewPage(views, total, in.Pagination), nil
}

func (s *JobService) GetJob(ctx context.Context, actor policy.Actor, id string) (*ports.JobView, error) {
	job, err := s.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if err := policy.AuthorizeJob(actor, policy.Show, domain.JobOwnershipOf(job)); err != nil {
		return nil, err
	}
	return s.detailedView(ctx, job)
}

// CreateJob stores a draft job for the acting company. Admins post on behalf
// of the company named in the input.
func (s *JobService) CreateJob(ctx context.Context, actor policy.Actor, in ports.JobInput) (*ports.JobView, error) {
	if err := policy.AuthorizeJob(actor, policy.Create, domain.JobOwnership{}); err != nil {
		return nil, err
	}

	companyID := strings.TrimSpace(in.CompanyID)
	if c, ok := actor.(policy.Company); ok {
		companyID = c.CompanyID
	}
	if companyID == "" {
		return nil, domain.NewValidationError("company_id", "company_id is required")
	}

	now := s.now().UTC()
	job := &domain.Job{
		ID:                  uuid.NewString(),
		CompanyID:           companyID,
		Title:               strings.TrimSpace(in.Title),
		Description:         strings.TrimSpace(in.Description),
		Requirements:        strings.TrimSpace(in.Requirements),
		Benefits:            strings.TrimSpace(in.Benefits),
		Location:            strings.TrimSpace(in.Location),
		SalaryMin:           in.SalaryMin,
		SalaryMax:           in.SalaryMax,
		EmploymentType:      domain.EmploymentType(in.EmploymentType),
		Remote:              in.Remote,
		Status:              domain.JobDraft,
		ApplicationDeadline: in.ApplicationDeadline,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for _, id := range in.CategoryIDs {
		job.Categories = append(job.Categories, domain.Category{ID: id})
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.events.Publish(ctx, domain.NewEvent(domain.EventJobIndexed, job.ID, string(job.Status), now))

	s.log.Info().Str("job_id", job.ID).Str("company_id", companyID).Msg("job created")

	created, err := s.jobs.GetJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("create job: reload: %w", err)
	}
	v := jobView(created, now)
	return &v, nil
}

func (s *JobService) UpdateJob(ctx context.Context, actor policy.Actor, id string, patch ports.JobPatch) (*ports.JobView, error) {
	var updated *domain.Job
	err := retryOnConflict(ctx, func() (bool, error) {
		job, err := s.jobs.GetJob(ctx, id)
		if err != nil {
			return false, fmt.Errorf("update job: %w", err)
		}
		if err := policy.AuthorizeJob(actor, policy.Update, domain.JobOwnershipOf(job)); err != nil {
			return false, err
		}

		expected := job.Status
		now := s.now().UTC()
		applyJobPatch(job, patch)
		job.UpdatedAt = now
		if patch.Status != nil {
			if _, err := job.Transition(domain.JobStatus(*patch.Status), now); err != nil {
				return false, err
			}
		}
		if err := job.Validate(); err != nil {
			return false, err
		}

		ok, err := s.jobs.UpdateJob(ctx, job, expected)
		if err != nil {
			return false, fmt.Errorf("update job: %w", err)
		}
		updated = job
		return ok, nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, domain.NewEvent(domain.EventJobIndexed, updated.ID, string(updated.Status), s.now()))
	return s.detailedView(ctx, updated)
}

// DeleteJob removes the job together with its applications.
func (s *JobService) DeleteJob(ctx context.Context, actor policy.Actor, id string) error {
	owner, err := s.jobs.ResolveJobOwnership(ctx, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if err := policy.AuthorizeJob(actor, policy.Destroy, owner); err != nil {
		return err
	}
	if err := s.jobs.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	s.events.Publish(ctx, domain.NewEvent(domain.EventJobRemoved, id, "", s.now()))
	s.log.Info().Str("job_id", id).Msg("job deleted")
	return nil
}

// ChangeJobStatus activates, pauses or closes a job.
func (s *JobService) ChangeJobStatus(ctx context.Context, actor policy.Actor, id string, status domain.JobStatus) (*ports.JobView, error) {
	var (
		job     *domain.Job
		changed bool
	)
	err := retryOnConflict(ctx, func() (bool, error) {
		var err error
		job, err = s.jobs.GetJob(ctx, id)
		if err != nil {
			return false, fmt.Errorf("change job status: %w", err)
		}
		if err := policy.AuthorizeJob(actor, policy.Update, domain.JobOwnershipOf(job)); err != nil {
			return false, err
		}

		expected := job.Status
		changed, err = job.Transition(status, s.now().UTC())
		if err != nil || !changed {
			return true, err
		}
		return s.jobs.UpdateJob(ctx, job, expected)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.events.Publish(ctx, domain.NewEvent(domain.EventJobIndexed, job.ID, string(job.Status), s.now()))
		s.log.Info().Str("job_id", job.ID).Str("status", string(job.Status)).Msg("job status changed")
	}
	return s.detailedView(ctx, job)
}

// CanApply reports whether the acting job seeker may apply to the job now.
// Any other actor gets false.
func (s *JobService) CanApply(ctx context.Context, actor policy.Actor, jobID string) (bool, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return false, fmt.Errorf("can apply: %w", err)
	}
	seeker, ok := actor.(policy.JobSeeker)
	if !ok || seeker.JobSeekerID == "" {
		return false, nil
	}
	exists, err := s.apps.ApplicationExists(ctx, jobID, seeker.JobSeekerID)
	if err != nil {
		return false, fmt.Errorf("can apply: %w", err)
	}
	return job.CanApply(s.now(), exists), nil
}

func (s *JobService) detailedView(ctx context.Context, job *domain.Job) (*ports.JobView, error) {
	count, err := s.jobs.CountApplications(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	v := jobView(job, s.now())
	v.TotalApplications = count
	return &v, nil
}

func jobView(job *domain.Job, now time.Time) ports.JobView {
	return ports.JobView{
		Job:             job,
		SalaryRange:     job.SalaryRange(),
		DaysSincePosted: job.DaysSincePosted(now),
		IsRecent:        job.IsRecent(now),
	}
}

func applyJobPatch(job *domain.Job, p ports.JobPatch) {
	if p.Title != nil {
		job.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		job.Description = strings.TrimSpace(*p.Description)
	}
	if p.Requirements != nil {
		job.Requirements = strings.TrimSpace(*p.Requirements)
	}
	if p.Benefits != nil {
		job.Benefits = strings.TrimSpace(*p.Benefits)
	}
	if p.Location != nil {
		job.Location = strings.TrimSpace(*p.Location)
	}
	if p.SalaryMin != nil {
		job.SalaryMin = p.SalaryMin
	}
	if p.SalaryMax != nil {
		job.SalaryMax = p.SalaryMax
	}
	if p.EmploymentType != nil {
		job.EmploymentType = domain.EmploymentType(*p.EmploymentType)
	}
	if p.Remote != nil {
		job.Remote = *p.Remote
	}
	if p.ApplicationDeadline != nil {
		job.ApplicationDeadline = p.ApplicationDeadline
	}
}
