package ports

import (
	"context"
	"time"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/search"
)

// SearchHits is the index response: job ids in ranked order.
type SearchHits struct {
	IDs          []string
	Total        int64
	Aggregations map[string]map[string]int64
	Highlights   map[string]map[string][]string
}

// JobDocument is the indexed projection of a job.
type JobDocument struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Requirements    string    `json:"requirements"`
	CompanyName     string    `json:"company_name"`
	CompanyIndustry string    `json:"company_industry"`
	Location        string    `json:"location"`
	EmploymentType  string    `json:"employment_type"`
	Remote          bool      `json:"remote"`
	SalaryMin       *int64    `json:"salary_min,omitempty"`
	SalaryMax       *int64    `json:"salary_max,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewJobDocument projects a job with its company loaded.
func NewJobDocument(j *domain.Job) JobDocument {
	return JobDocument{
		ID:              j.ID,
		Title:           j.Title,
		Description:     j.Description,
		Requirements:    j.Requirements,
		CompanyName:     j.CompanyName(),
		CompanyIndustry: j.CompanyIndustry(),
		Location:        j.Location,
		EmploymentType:  string(j.EmploymentType),
		Remote:          j.Remote,
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		Status:          string(j.Status),
		CreatedAt:       j.CreatedAt,
	}
}

// SearchIndex is the external full-text collaborator.
type SearchIndex interface {
	SearchJobs(ctx context.Context, q *search.Query) (*SearchHits, error)
	Suggest(ctx context.Context, q *search.SuggestQuery) ([]string, error)
	IndexJob(ctx context.Context, doc JobDocument) error
	DeleteJob(ctx context.Context, id string) error
}
