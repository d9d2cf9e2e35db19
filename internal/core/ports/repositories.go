package ports

import (
	"context"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
)

// UserRepository persists accounts together with their role profile.
type UserRepository interface {
	// CreateWithProfile stores the user and its company or seeker profile atomically.
	CreateWithProfile(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID loads the user with its profile.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// JobFilter narrows a job listing. Scope is always applied.
type JobFilter struct {
	Scope          policy.JobScope
	CompanyID      string
	ActiveOnly     bool
	Location       string
	EmploymentType string
	Remote         *bool
	SalaryMin      *int64
	SalaryMax      *int64
	Search         string
	Pagination
}

type JobRepository interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	// GetJob loads the job with its company and categories.
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	// UpdateJob writes the job's mutable fields only if its stored status still
	// equals expected. It reports false when the status moved underneath.
	UpdateJob(ctx context.Context, job *domain.Job, expected domain.JobStatus) (bool, error)
	// DeleteJob removes the job, its applications and category links.
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, int64, error)
	// FindJobsByIDs returns the jobs found, in no particular order.
	FindJobsByIDs(ctx context.Context, ids []string) ([]domain.Job, error)
	ResolveJobOwnership(ctx context.Context, id string) (domain.JobOwnership, error)
	CountApplications(ctx context.Context, jobID string) (int64, error)
}

// ApplicationFilter narrows an application listing. Scope is always applied.
type ApplicationFilter struct {
	Scope       policy.ApplicationScope
	JobID       string
	JobSeekerID string
	CompanyID   string
	Status      domain.ApplicationStatus
	Recent      bool
	Pagination
}

type ApplicationRepository interface {
	// CreateApplication fails with domain.ErrConflictingApplication when the
	// (job, seeker) pair already exists.
	CreateApplication(ctx context.Context, app *domain.JobApplication) error
	// GetApplication loads the application with job, job company and seeker.
	GetApplication(ctx context.Context, id string) (*domain.JobApplication, error)
	ApplicationExists(ctx context.Context, jobID, jobSeekerID string) (bool, error)
	// SaveApplication writes status and cover letter only if the stored status
	// still equals expected.
	SaveApplication(ctx context.Context, app *domain.JobApplication, expected domain.ApplicationStatus) (bool, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]domain.JobApplication, int64, error)
	ResolveApplicationOwnership(ctx context.Context, id string) (domain.ApplicationOwnership, error)
}

type CompanyFilter struct {
	Query    string
	Industry string
	Size     string
	Pagination
}

type CompanyRepository interface {
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, company *domain.Company) error
	SearchCompanies(ctx context.Context, filter CompanyFilter) ([]domain.Company, int64, error)
	CompanyStats(ctx context.Context, id string) (domain.CompanyStats, error)
}

type JobSeekerFilter struct {
	Query         string
	Location      string
	MinExperience *int
	SkillIDs      []string
	Pagination
}

type JobSeekerRepository interface {
	GetJobSeeker(ctx context.Context, id string) (*domain.JobSeeker, error)
	UpdateJobSeeker(ctx context.Context, seeker *domain.JobSeeker) error
	SearchJobSeekers(ctx context.Context, filter JobSeekerFilter) ([]domain.JobSeeker, int64, error)
	JobSeekerStats(ctx context.Context, id string) (domain.JobSeekerStats, error)
	ListSeekerSkills(ctx context.Context, jobSeekerID string) ([]domain.JobSeekerSkill, error)
	// AddSeekerSkill inserts or updates the proficiency for the skill.
	AddSeekerSkill(ctx context.Context, link *domain.JobSeekerSkill) error
	RemoveSeekerSkill(ctx context.Context, jobSeekerID, skillID string) error
}

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListSkills(ctx context.Context, categoryID string) ([]domain.Skill, error)
	GetSkill(ctx context.Context, id string) (*domain.Skill, error)
}

// AuditLog keeps the application status history.
type AuditLog interface {
	Append(ctx context.Context, change domain.StatusChange) error
	History(ctx context.Context, applicationID string) ([]domain.StatusChange, error)
}

// Deduplicator remembers processed event ids for at-least-once delivery.
type Deduplicator interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}
