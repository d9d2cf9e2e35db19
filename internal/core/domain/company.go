package domain

import (
	"time"
)

type CompanySize string

const (
	SizeStartup    CompanySize = "startup"
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// Company is the employer profile owned by a company user.
type Company struct {
	ID           string      `json:"id" gorm:"primaryKey;size:36"`
	UserID       string      `json:"user_id" gorm:"uniqueIndex;size:36;not null"`
	Name         string      `json:"name" gorm:"size:100;not null" validate:"required,min=2,max=100"`
	Description  string      `json:"description" gorm:"size:1000" validate:"required,min=10,max=1000"`
	Website      string      `json:"website,omitempty" gorm:"size:255" validate:"omitempty,http_url"`
	Industry     string      `json:"industry" gorm:"size:100;index" validate:"required"`
	Size         CompanySize `json:"size" gorm:"size:20;index" validate:"required,oneof=startup small medium large enterprise"`
	FoundedYear  *int        `json:"founded_year,omitempty" validate:"omitempty,gt=1800"`
	Headquarters string      `json:"headquarters,omitempty" gorm:"size:255"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Validate runs field rules plus the founded-year ceiling, which depends on now.
func (c *Company) Validate(now time.Time) error {
	verr := &ValidationError{}
	if err := Validate(c); err != nil {
		ve, ok := err.(*ValidationError)
		if !ok {
			return err
		}
		verr = ve
	}
	if c.FoundedYear != nil && *c.FoundedYear > now.Year() {
		verr.Add("founded_year", "founded_year cannot be in the future")
	}
	return verr.orNil()
}

// CompanyStats holds counters derived from the company's jobs and applications.
type CompanyStats struct {
	TotalJobs         int64 `json:"total_jobs"`
	ActiveJobs        int64 `json:"active_jobs"`
	TotalApplications int64 `json:"total_applications"`
}
