package handler

import (
	"time"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

type createJobRequest struct {
	CompanyID           string     `json:"company_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Requirements        string     `json:"requirements"`
	Benefits            string     `json:"benefits"`
	Location            string     `json:"location"`
	SalaryMin           *int64     `json:"salary_min"`
	SalaryMax           *int64     `json:"salary_max"`
	EmploymentType      string     `json:"employment_type"`
	Remote              bool       `json:"remote"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	CategoryIDs         []string   `json:"category_ids"`
}

func (r createJobRequest) toInput() ports.JobInput {
	return ports.JobInput{
		CompanyID:           r.CompanyID,
		Title:               r.Title,
		Description:         r.Description,
		Requirements:        r.Requirements,
		Benefits:            r.Benefits,
		Location:            r.Location,
		SalaryMin:           r.SalaryMin,
		SalaryMax:           r.SalaryMax,
		EmploymentType:      r.EmploymentType,
		Remote:              r.Remote,
		ApplicationDeadline: r.ApplicationDeadline,
		CategoryIDs:         r.CategoryIDs,
	}
}

// updateJobRequest is a partial update; omitted fields are left unchanged.
type updateJobRequest struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	Requirements        *string    `json:"requirements"`
	Benefits            *string    `json:"benefits"`
	Location            *string    `json:"location"`
	SalaryMin           *int64     `json:"salary_min"`
	SalaryMax           *int64     `json:"salary_max"`
	EmploymentType      *string    `json:"employment_type"`
	Remote              *bool      `json:"remote"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	Status              *string    `json:"status" validate:"omitempty,oneof=draft active paused closed"`
}

func (r updateJobRequest) toPatch() ports.JobPatch {
	return ports.JobPatch{
		Title:               r.Title,
		Description:         r.Description,
		Requirements:        r.Requirements,
		Benefits:            r.Benefits,
		Location:            r.Location,
		SalaryMin:           r.SalaryMin,
		SalaryMax:           r.SalaryMax,
		EmploymentType:      r.EmploymentType,
		Remote:              r.Remote,
		ApplicationDeadline: r.ApplicationDeadline,
		Status:              r.Status,
	}
}

type jobResponse struct {
	*domain.Job
	SalaryRange       string              `json:"salary_range"`
	DaysSincePosted   int                 `json:"days_since_posted"`
	IsRecent          bool                `json:"is_recent"`
	TotalApplications int64               `json:"total_applications"`
	Highlights        map[string][]string `json:"highlights,omitempty"`
}

func toJobResponse(v ports.JobView) jobResponse {
	return jobResponse{
		Job:               v.Job,
		SalaryRange:       v.SalaryRange,
		DaysSincePosted:   v.DaysSincePosted,
		IsRecent:          v.IsRecent,
		TotalApplications: v.TotalApplications,
		Highlights:        v.Highlights,
	}
}

func toJobResponses(views []ports.JobView) []jobResponse {
	out := make([]jobResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toJobResponse(v))
	}
	return out
}

type jobListResponse struct {
	Jobs []jobResponse `json:"jobs"`
	Meta pageMeta      `json:"meta"`
}

type canApplyResponse struct {
	JobID    string `json:"job_id"`
	CanApply bool   `json:"can_apply"`
}
