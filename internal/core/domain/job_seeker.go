package domain

import (
	"math"
	"strings"
	"time"
)

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

// JobSeeker is the candidate profile owned by a job_seeker user.
type JobSeeker struct {
	ID              string           `json:"id" gorm:"primaryKey;size:36"`
	UserID          string           `json:"user_id" gorm:"uniqueIndex;size:36;not null"`
	FirstName       string           `json:"first_name" gorm:"size:50;not null" validate:"required,min=2,max=50"`
	LastName        string           `json:"last_name" gorm:"size:50;not null" validate:"required,min=2,max=50"`
	Phone           string           `json:"phone,omitempty" gorm:"size:20" validate:"omitempty,phone"`
	Location        string           `json:"location" gorm:"size:255;index" validate:"required"`
	Bio             string           `json:"bio,omitempty" gorm:"size:1000" validate:"max=1000"`
	ExperienceYears *int             `json:"experience_years,omitempty" validate:"omitempty,gte=0,lte=99"`
	Skills          []JobSeekerSkill `json:"skills,omitempty" gorm:"foreignKey:JobSeekerID"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// JobSeekerSkill links a seeker to a skill at a proficiency level.
type JobSeekerSkill struct {
	JobSeekerID      string      `json:"job_seeker_id" gorm:"primaryKey;size:36"`
	SkillID          string      `json:"skill_id" gorm:"primaryKey;size:36"`
	ProficiencyLevel Proficiency `json:"proficiency_level" gorm:"size:20" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	Skill            *Skill      `json:"skill,omitempty" gorm:"foreignKey:SkillID" validate:"-"`
	CreatedAt        time.Time   `json:"created_at"`
}

func (s *JobSeeker) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// ProfileCompletion is the rounded percentage of first name, last name,
// location and bio that are filled in.
func (s *JobSeeker) ProfileCompletion() int {
	fields := []string{s.FirstName, s.LastName, s.Location, s.Bio}
	done := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(fields)) * 100))
}

// SkillNames lists the names of the loaded skills.
func (s *JobSeeker) SkillNames() []string {
	names := make([]string, 0, len(s.Skills))
	for _, sk := range s.Skills {
		if sk.Skill != nil {
			names = append(names, sk.Skill.Name)
		}
	}
	return names
}

// JobSeekerStats counts a seeker's applications by outcome.
type JobSeekerStats struct {
	TotalApplications    int64 `json:"total_applications"`
	PendingApplications  int64 `json:"pending_applications"`
	AcceptedApplications int64 `json:"accepted_applications"`
	RejectedApplications int64 `json:"rejected_applications"`
}
