package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// ProfileService manages company and job seeker profiles and seeker skills.
type ProfileService struct {
	companies ports.CompanyRepository
	seekers   ports.JobSeekerRepository
	catalog   ports.CatalogRepository
	jobs      ports.JobRepository
	events    ports.EventPublisher
	now       func() time.Time
	log       zerolog.Logger
}

func NewProfileService(
	companies ports.CompanyRepository,
	seekers ports.JobSeekerRepository,
	catalog ports.CatalogRepository,
	jobs ports.JobRepository,
	events ports.EventPublisher,
	log zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		companies: companies,
		seekers:   seekers,
		catalog:   catalog,
		jobs:      jobs,
		events:    events,
		now:       time.Now,
		log:       log,
	}
}

func (s *ProfileService) GetCompany(ctx context.Context, actor policy.Actor, id string) (*ports.CompanyView, error) {
	company, err := s.companies.GetCompany(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if err := policy.AuthorizeProfile(actor, policy.Show, company.UserID); err != nil {
		return nil, err
	}
	return s.companyView(ctx, company)
}

// UpdateCompany applies the non-empty fields of in. Jobs of the company are
// re-indexed because their documents embed the company name and industry.
func (s *ProfileService) UpdateCompany(ctx context.Context, actor policy.Actor, id string, in ports.CompanyProfileInput) (*ports.CompanyView, error) {
	company, err := s.companies.GetCompany(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	if err := policy.AuthorizeProfile(actor, policy.Update, company.UserID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	setIfPresent(&company.Name, in.Name)
	setIfPresent(&company.Description, in.Description)
	setIfPresent(&company.Website, in.Website)
	setIfPresent(&company.Industry, in.Industry)
	setIfPresent(&company.Headquarters, in.Headquarters)
	if in.Size != "" {
		company.Size = domain.CompanySize(in.Size)
	}
	if in.FoundedYear != nil {
		company.FoundedYear = in.FoundedYear
	}
	company.UpdatedAt = now
	if err := company.Validate(now); err != nil {
		return nil, err
	}

	if err := s.companies.UpdateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	s.reindexCompanyJobs(ctx, company.ID)
	return s.companyView(ctx, company)
}

func (s *ProfileService) GetJobSeeker(ctx context.Context, actor policy.Actor, id string) (*ports.JobSeekerView, error) {
	seeker, err := s.seekers.GetJobSeeker(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job seeker: %w", err)
	}
	if err := policy.AuthorizeProfile(actor, policy.Show, seeker.UserID); err != nil {
		return nil, err
	}
	return s.seekerView(ctx, seeker)
}

func (s *ProfileService) UpdateJobSeeker(ctx context.Context, actor policy.Actor, id string, in ports.JobSeekerProfileInput) (*ports.JobSeekerView, error) {
	seeker, err := s.seekers.GetJobSeeker(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update job seeker: %w", err)
	}
	if err := policy.AuthorizeProfile(actor, policy.Update, seeker.UserID); err != nil {
		return nil, err
	}

	setIfPresent(&seeker.FirstName, in.FirstName)
	setIfPresent(&seeker.LastName, in.LastName)
	setIfPresent(&seeker.Phone, in.Phone)
	setIfPresent(&seeker.Location, in.Location)
	setIfPresent(&seeker.Bio, in.Bio)
	if in.ExperienceYears != nil {
		seeker.ExperienceYears = in.ExperienceYears
	}
	seeker.UpdatedAt = s.now().UTC()
	if err := domain.Validate(seeker); err != nil {
		return nil, err
	}

	if err := s.seekers.UpdateJobSeeker(ctx, seeker); err != nil {
		return nil, fmt.Errorf("update job seeker: %w", err)
	}
	return s.seekerView(ctx, seeker)
}

func (s *ProfileService) ListSkills(ctx context.Context, actor policy.Actor, jobSeekerID string) ([]domain.JobSeekerSkill, error) {
	seeker, err := s.seekers.GetJobSeeker(ctx, jobSeekerID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	if err := policy.AuthorizeProfile(actor, policy.Show, seeker.UserID); err != nil {
		return nil, err
	}
	skills, err := s.seekers.ListSeekerSkills(ctx, jobSeekerID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

// AddSkill links a skill to the seeker, updating the level if already linked.
// An empty level defaults to intermediate.
func (s *ProfileService) AddSkill(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string, level domain.Proficiency) (*domain.JobSeekerSkill, error) {
	seeker, err := s.seekers.GetJobSeeker(ctx, jobSeekerID)
	if err != nil {
		return nil, fmt.Errorf("add skill: %w", err)
	}
	if err := policy.AuthorizeProfile(actor, policy.Update, seeker.UserID); err != nil {
		return nil, err
	}
	skill, err := s.catalog.GetSkill(ctx, skillID)
	if err != nil {
		return nil, fmt.Errorf("add skill: %w", err)
	}

	if level == "" {
		level = domain.ProficiencyIntermediate
	}
	link := &domain.JobSeekerSkill{
		JobSeekerID:      seeker.ID,
		SkillID:          skill.ID,
		ProficiencyLevel: level,
		CreatedAt:        s.now().UTC(),
	}
	if err := domain.Validate(link); err != nil {
		return nil, err
	}
	if err := s.seekers.AddSeekerSkill(ctx, link); err != nil {
		return nil, fmt.Errorf("add skill: %w", err)
	}
	link.Skill = skill
	return link, nil
}

func (s *ProfileService) RemoveSkill(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string) error {
	seeker, err := s.seekers.GetJobSeeker(ctx, jobSeekerID)
	if err != nil {
		return fmt.Errorf("remove skill: %w", err)
	}
	if err := policy.AuthorizeProfile(actor, policy.Update, seeker.UserID); err != nil {
		return err
	}
	if err := s.seekers.RemoveSeekerSkill(ctx, jobSeekerID, skillID); err != nil {
		return fmt.Errorf("remove skill: %w", err)
	}
	return nil
}

func (s *ProfileService) companyView(ctx context.Context, c *domain.Company) (*ports.CompanyView, error) {
	stats, err := s.companies.CompanyStats(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("company stats: %w", err)
	}
	return &ports.CompanyView{Company: c, Stats: stats}, nil
}

func (s *ProfileService) seekerView(ctx context.Context, js *domain.JobSeeker) (*ports.JobSeekerView, error) {
	stats, err := s.seekers.JobSeekerStats(ctx, js.ID)
	if err != nil {
		return nil, fmt.Errorf("job seeker stats: %w", err)
	}
	return &ports.JobSeekerView{JobSeeker: js, Stats: stats, ProfileCompletion: js.ProfileCompletion()}, nil
}

func (s *ProfileService) reindexCompanyJobs(ctx context.Context, companyID string) {
	page := ports.Pagination{Page: 1, PerPage: 100}
	for {
		jobs, total, err := s.jobs.ListJobs(ctx, ports.JobFilter{
			Scope:      policy.JobScope{Kind: policy.ScopeCompany, CompanyID: companyID},
			Pagination: page,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("company_id", companyID).Msg("failed to list jobs for re-index")
			return
		}
		now := s.now()
		for _, j := range jobs {
			s.events.Publish(ctx, domain.NewEvent(domain.EventJobIndexed, j.ID, string(j.Status), now))
		}
		if int64(page.Page*page.PerPage) >= total || len(jobs) == 0 {
			return
		}
		page.Page++
	}
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
