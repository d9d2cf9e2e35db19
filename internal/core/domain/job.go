package domain

import (
	"fmt"
	"time"
)

// JobStatus represents the publication state of a job posting.
type JobStatus string

const (
	JobDraft  JobStatus = "draft"
	JobActive JobStatus = "active"
	JobPaused JobStatus = "paused"
	JobClosed JobStatus = "closed"
)

type EmploymentType string

const (
	FullTime   EmploymentType = "full_time"
	PartTime   EmploymentType = "part_time"
	Contract   EmploymentType = "contract"
	Freelance  EmploymentType = "freelance"
	Internship EmploymentType = "internship"
)

// jobTransitions defines the allowed job status moves. Closed is terminal.
var jobTransitions = map[JobStatus][]JobStatus{
	JobDraft:  {JobActive, JobClosed},
	JobActive: {JobPaused, JobClosed},
	JobPaused: {JobActive, JobClosed},
}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobDraft, JobActive, JobPaused, JobClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a job may move from s to next.
// Re-applying the current status is always allowed.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Job is a posting owned by a company.
type Job struct {
	ID                  string         `json:"id" gorm:"primaryKey;size:36"`
	CompanyID           string         `json:"company_id" gorm:"size:36;index;not null"`
	Title               string         `json:"title" gorm:"size:100;not null" validate:"required,min=3,max=100"`
	Description         string         `json:"description" gorm:"type:text;not null" validate:"required,min=20,max=5000"`
	Requirements        string         `json:"requirements" gorm:"type:text" validate:"required,min=10,max=2000"`
	Benefits            string         `json:"benefits,omitempty" gorm:"type:text"`
	Location            string         `json:"location" gorm:"size:255;index" validate:"required"`
	SalaryMin           *int64         `json:"salary_min,omitempty" validate:"omitempty,gt=0"`
	SalaryMax           *int64         `json:"salary_max,omitempty" validate:"omitempty,gt=0"`
	EmploymentType      EmploymentType `json:"employment_type" gorm:"size:20;index;not null" validate:"required,oneof=full_time part_time contract freelance internship"`
	Remote              bool           `json:"remote" gorm:"index"`
	Status              JobStatus      `json:"status" gorm:"size:20;index;not null" validate:"required,oneof=draft active paused closed"`
	ApplicationDeadline *time.Time     `json:"application_deadline,omitempty"`
	Company             *Company       `json:"company,omitempty" gorm:"foreignKey:CompanyID" validate:"-"`
	Categories          []Category     `json:"categories,omitempty" gorm:"many2many:job_categories"`
	CreatedAt           time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Validate checks field rules and the salary bounds ordering.
func (j *Job) Validate() error {
	verr := &ValidationError{}
	if err := Validate(j); err != nil {
		ve, ok := err.(*ValidationError)
		if !ok {
			return err
		}
		verr = ve
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMax < *j.SalaryMin {
		verr.Add("salary_max", "salary_max must be greater than or equal to salary_min")
	}
	return verr.orNil()
}

// Transition moves the job to next. It returns false without error when next
// equals the current status.
func (j *Job) Transition(next JobStatus, now time.Time) (bool, error) {
	if !next.Valid() {
		return false, NewValidationError("status", "status must be one of: draft active paused closed")
	}
	if !j.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: job from %s to %s", ErrInvalidTransition, j.Status, next)
	}
	if j.Status == next {
		return false, nil
	}
	j.Status = next
	j.UpdatedAt = now
	return true, nil
}

// AcceptsApplications reports whether the job is active and its deadline,
// if any, has not passed.
func (j *Job) AcceptsApplications(now time.Time) bool {
	if j.Status != JobActive {
		return false
	}
	return j.ApplicationDeadline == nil || !now.After(*j.ApplicationDeadline)
}

// CanApply reports whether a seeker who has or has not already applied may apply.
func (j *Job) CanApply(now time.Time, alreadyApplied bool) bool {
	return j.AcceptsApplications(now) && !alreadyApplied
}

// SalaryRange renders the salary bounds for display.
func (j *Job) SalaryRange() string {
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return fmt.Sprintf("%d - %d", *j.SalaryMin, *j.SalaryMax)
	case j.SalaryMin != nil:
		return fmt.Sprintf("%d", *j.SalaryMin)
	case j.SalaryMax != nil:
		return fmt.Sprintf("Up to %d", *j.SalaryMax)
	default:
		return "Not specified"
	}
}

func (j *Job) DaysSincePosted(now time.Time) int {
	return calendarDaysBetween(j.CreatedAt, now)
}

// IsRecent is true for jobs posted within the last week.
func (j *Job) IsRecent(now time.Time) bool {
	return j.DaysSincePosted(now) <= 7
}

// CompanyName returns the loaded company's name or an empty string.
func (j *Job) CompanyName() string {
	if j.Company == nil {
		return ""
	}
	return j.Company.Name
}

// CompanyIndustry returns the loaded company's industry or an empty string.
func (j *Job) CompanyIndustry() string {
	if j.Company == nil {
		return ""
	}
	return j.Company.Industry
}
