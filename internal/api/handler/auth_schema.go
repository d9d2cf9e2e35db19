package handler

import (
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type companyProfileRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Website      string `json:"website"`
	Industry     string `json:"industry"`
	Size         string `json:"size"`
	FoundedYear  *int   `json:"founded_year"`
	Headquarters string `json:"headquarters"`
}

func (r *companyProfileRequest) toInput() *ports.CompanyProfileInput {
	if r == nil {
		return nil
	}
	return &ports.CompanyProfileInput{
		Name:         r.Name,
		Description:  r.Description,
		Website:      r.Website,
		Industry:     r.Industry,
		Size:         r.Size,
		FoundedYear:  r.FoundedYear,
		Headquarters: r.Headquarters,
	}
}

type jobSeekerProfileRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	Bio             string `json:"bio"`
	ExperienceYears *int   `json:"experience_years"`
}

func (r *jobSeekerProfileRequest) toInput() *ports.JobSeekerProfileInput {
	if r == nil {
		return nil
	}
	return &ports.JobSeekerProfileInput{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Phone:           r.Phone,
		Location:        r.Location,
		Bio:             r.Bio,
		ExperienceYears: r.ExperienceYears,
	}
}

// registerRequest creates an account; role defaults to job_seeker and the
// matching profile object is required.
type registerRequest struct {
	Email     string                   `json:"email"      validate:"required"`
	Password  string                   `json:"password"   validate:"required"`
	Role      string                   `json:"role"       validate:"omitempty,oneof=company job_seeker"`
	Phone     string                   `json:"phone"`
	Company   *companyProfileRequest   `json:"company,omitempty"`
	JobSeeker *jobSeekerProfileRequest `json:"job_seeker,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	*domain.User
	FullName        string `json:"full_name"`
	ProfileComplete bool   `json:"profile_complete"`
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{User: u, FullName: u.FullName(), ProfileComplete: u.ProfileComplete()}
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}
