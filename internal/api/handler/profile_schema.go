package handler

import (
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

type companyResponse struct {
	*domain.Company
	domain.CompanyStats
}

func toCompanyResponse(v *ports.CompanyView) companyResponse {
	return companyResponse{Company: v.Company, CompanyStats: v.Stats}
}

type companyListResponse struct {
	Companies []domain.Company `json:"companies"`
	Meta      pageMeta         `json:"meta"`
}

type jobSeekerResponse struct {
	*domain.JobSeeker
	domain.JobSeekerStats
	FullName                    string `json:"full_name"`
	ProfileCompletionPercentage int    `json:"profile_completion_percentage"`
}

func toJobSeekerResponse(v *ports.JobSeekerView) jobSeekerResponse {
	return jobSeekerResponse{
		JobSeeker:                   v.JobSeeker,
		JobSeekerStats:              v.Stats,
		FullName:                    v.JobSeeker.FullName(),
		ProfileCompletionPercentage: v.ProfileCompletion,
	}
}

type jobSeekerListResponse struct {
	JobSeekers []domain.JobSeeker `json:"job_seekers"`
	Meta       pageMeta           `json:"meta"`
}

type addSkillRequest struct {
	SkillID          string `json:"skill_id"          validate:"required"`
	ProficiencyLevel string `json:"proficiency_level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

type skillsResponse struct {
	Skills []domain.JobSeekerSkill `json:"skills"`
}
