package ports

import (
	"context"
	"time"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/search"
)

// ── Accounts ────────────────────────────────────────────────────────────────

type CompanyProfileInput struct {
	Name         string
	Description  string
	Website      string
	Industry     string
	Size         string
	FoundedYear  *int
	Headquarters string
}

type JobSeekerProfileInput struct {
	FirstName       string
	LastName        string
	Phone           string
	Location        string
	Bio             string
	ExperienceYears *int
}

// RegisterInput creates an account. The profile matching Role is required.
type RegisterInput struct {
	Email     string
	Password  string
	Role      domain.Role
	Phone     string
	Company   *CompanyProfileInput
	JobSeeker *JobSeekerProfileInput
}

type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// ── Jobs ────────────────────────────────────────────────────────────────────

// JobInput carries the fields of a new job.
type JobInput struct {
	CompanyID           string
	Title               string
	Description         string
	Requirements        string
	Benefits            string
	Location            string
	SalaryMin           *int64
	SalaryMax           *int64
	EmploymentType      string
	Remote              bool
	ApplicationDeadline *time.Time
	CategoryIDs         []string
}

// JobPatch carries optional field updates; nil means unchanged.
type JobPatch struct {
	Title               *string
	Description         *string
	Requirements        *string
	Benefits            *string
	Location            *string
	SalaryMin           *int64
	SalaryMax           *int64
	EmploymentType      *string
	Remote              *bool
	ApplicationDeadline *time.Time
	// Status, when set, is applied through the job state machine in the same write.
	Status *string
}

// JobView is a job with its derived read-only fields.
type JobView struct {
	Job               *domain.Job
	SalaryRange       string
	DaysSincePosted   int
	IsRecent          bool
	TotalApplications int64
	Highlights        map[string][]string
}

type JobListInput struct {
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

type JobService interface {
	ListJobs(ctx context.Context, actor policy.Actor, in JobListInput) (Page[JobView], error)
	GetJob(ctx context.Context, actor policy.Actor, id string) (*JobView, error)
	CreateJob(ctx context.Context, actor policy.Actor, in JobInput) (*JobView, error)
	UpdateJob(ctx context.Context, actor policy.Actor, id string, patch JobPatch) (*JobView, error)
	DeleteJob(ctx context.Context, actor policy.Actor, id string) error
	ChangeJobStatus(ctx context.Context, actor policy.Actor, id string, status domain.JobStatus) (*JobView, error)
	CanApply(ctx context.Context, actor policy.Actor, jobID string) (bool, error)
}

// ── Applications ────────────────────────────────────────────────────────────

// ApplicationView is an application with its derived read-only fields.
type ApplicationView struct {
	Application         *domain.JobApplication
	DaysSinceApplied    int
	IsRecentApplication bool
}

type ApplicationListInput struct {
	JobID       string
	JobSeekerID string
	CompanyID   string
	Status      string
	Recent      bool
	Pagination
}

// ApplicationPatch carries optional updates; nil means unchanged.
type ApplicationPatch struct {
	CoverLetter *string
	Status      *domain.ApplicationStatus
}

type ApplicationService interface {
	Apply(ctx context.Context, actor policy.Actor, jobID, coverLetter string) (*ApplicationView, error)
	ListApplications(ctx context.Context, actor policy.Actor, in ApplicationListInput) (Page[ApplicationView], error)
	GetApplication(ctx context.Context, actor policy.Actor, id string) (*ApplicationView, error)
	UpdateApplication(ctx context.Context, actor policy.Actor, id string, patch ApplicationPatch) (*ApplicationView, error)
	Withdraw(ctx context.Context, actor policy.Actor, id string) (*ApplicationView, error)
	History(ctx context.Context, actor policy.Actor, id string) ([]domain.StatusChange, error)
}

// ── Profiles and catalog ────────────────────────────────────────────────────

type CompanyView struct {
	Company *domain.Company
	Stats   domain.CompanyStats
}

type JobSeekerView struct {
	JobSeeker         *domain.JobSeeker
	Stats             domain.JobSeekerStats
	ProfileCompletion int
}

type ProfileService interface {
	GetCompany(ctx context.Context, actor policy.Actor, id string) (*CompanyView, error)
	UpdateCompany(ctx context.Context, actor policy.Actor, id string, in CompanyProfileInput) (*CompanyView, error)
	GetJobSeeker(ctx context.Context, actor policy.Actor, id string) (*JobSeekerView, error)
	UpdateJobSeeker(ctx context.Context, actor policy.Actor, id string, in JobSeekerProfileInput) (*JobSeekerView, error)
	ListSkills(ctx context.Context, actor policy.Actor, jobSeekerID string) ([]domain.JobSeekerSkill, error)
	AddSkill(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string, level domain.Proficiency) (*domain.JobSeekerSkill, error)
	RemoveSkill(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string) error
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListSkills(ctx context.Context, categoryID string) ([]domain.Skill, error)
	GetSkill(ctx context.Context, id string) (*domain.Skill, error)
}

// ── Search ──────────────────────────────────────────────────────────────────

type JobSearchResult struct {
	Jobs         []JobView
	Total        int64
	Page         int
	PerPage      int
	Aggregations map[string]map[string]int64
	Suggestions  []string
}

type SearchService interface {
	SearchJobs(ctx context.Context, actor policy.Actor, req search.Request) (*JobSearchResult, error)
	SearchCompanies(ctx context.Context, actor policy.Actor, filter CompanyFilter) (Page[domain.Company], error)
	SearchJobSeekers(ctx context.Context, actor policy.Actor, filter JobSeekerFilter) (Page[domain.JobSeeker], error)
}
