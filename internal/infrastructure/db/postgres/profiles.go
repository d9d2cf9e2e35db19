package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

func (s *Store) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	var c domain.Company
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) UpdateCompany(ctx context.Context, c *domain.Company) error {
	res := s.db.WithContext(ctx).Model(&domain.Company{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"name":         c.Name,
			"description":  c.Description,
			"website":      c.Website,
			"industry":     c.Industry,
			"size":         c.Size,
			"founded_year": c.FoundedYear,
			"headquarters": c.Headquarters,
			"updated_at":   c.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) SearchCompanies(ctx context.Context, f ports.CompanyFilter) ([]domain.Company, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.Company{})
	if f.Query != "" {
		q = containsAny(q, likePattern(f.Query), "name", "description")
	}
	if f.Industry != "" {
		q = q.Where("industry = ?", f.Industry)
	}
	if f.Size != "" {
		q = q.Where("size = ?", f.Size)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Company
	if err := q.Order("name").Scopes(paginate(f.Pagination)).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) CompanyStats(ctx context.Context, id string) (domain.CompanyStats, error) {
	var st domain.CompanyStats
	db := s.db.WithContext(ctx)
	if err := db.Model(&domain.Job{}).Where("company_id = ?", id).Count(&st.TotalJobs).Error; err != nil {
		return st, err
	}
	if err := db.Model(&domain.Job{}).Where("company_id = ? AND status = ?", id, domain.JobActive).Count(&st.ActiveJobs).Error; err != nil {
		return st, err
	}
	err := db.Model(&domain.JobApplication{}).Where("job_id IN (?)", s.companyJobs(id)).Count(&st.TotalApplications).Error
	return st, err
}

func (s *Store) GetJobSeeker(ctx context.Context, id string) (*domain.JobSeeker, error) {
	var js domain.JobSeeker
	if err := s.db.WithContext(ctx).Preload("Skills.Skill").First(&js, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &js, nil
}

func (s *Store) UpdateJobSeeker(ctx context.Context, js *domain.JobSeeker) error {
	res := s.db.WithContext(ctx).Model(&domain.JobSeeker{}).
		Where("id = ?", js.ID).
		Updates(map[string]any{
			"first_name":       js.FirstName,
			"last_name":        js.LastName,
			"phone":            js.Phone,
			"location":         js.Location,
			"bio":              js.Bio,
			"experience_years": js.ExperienceYears,
			"updated_at":       js.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) SearchJobSeekers(ctx context.Context, f ports.JobSeekerFilter) ([]domain.JobSeeker, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.JobSeeker{})
	if f.Query != "" {
		q = containsAny(q, likePattern(f.Query), "first_name", "last_name", "bio")
	}
	if f.Location != "" {
		q = containsAny(q, likePattern(f.Location), "location")
	}
	if f.MinExperience != nil {
		q = q.Where("experience_years >= ?", *f.MinExperience)
	}
	if len(f.SkillIDs) > 0 {
		sub := s.db.Session(&gorm.Session{NewDB: true}).Model(&domain.JobSeekerSkill{}).
			Select("job_seeker_id").Where("skill_id IN ?", f.SkillIDs)
		q = q.Where("id IN (?)", sub)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.JobSeeker
	err := q.Preload("Skills.Skill").
		Order("last_name").
		Order("first_name").
		Scopes(paginate(f.Pagination)).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) JobSeekerStats(ctx context.Context, id string) (domain.JobSeekerStats, error) {
	var rows []struct {
		Status domain.ApplicationStatus
		N      int64
	}
	err := s.db.WithContext(ctx).Model(&domain.JobApplication{}).
		Select("status, COUNT(*) AS n").
		Where("job_seeker_id = ?", id).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return domain.JobSeekerStats{}, err
	}

	var st domain.JobSeekerStats
	for _, r := range rows {
		st.TotalApplications += r.N
		switch r.Status {
		case domain.AppPending:
			st.PendingApplications = r.N
		case domain.AppAccepted:
			st.AcceptedApplications = r.N
		case domain.AppRejected:
			st.RejectedApplications = r.N
		}
	}
	return st, nil
}

func (s *Store) ListSeekerSkills(ctx context.Context, jobSeekerID string) ([]domain.JobSeekerSkill, error) {
	var out []domain.JobSeekerSkill
	err := s.db.WithContext(ctx).Preload("Skill").Where("job_seeker_id = ?", jobSeekerID).Order("created_at").Find(&out).Error
	return out, err
}

// AddSeekerSkill upserts on (job_seeker_id, skill_id), updating the level.
func (s *Store) AddSeekerSkill(ctx context.Context, link *domain.JobSeekerSkill) error {
	return s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_seeker_id"}, {Name: "skill_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proficiency_level"}),
		}).
		Create(link).Error
}

func (s *Store) RemoveSeekerSkill(ctx context.Context, jobSeekerID, skillID string) error {
	res := s.db.WithContext(ctx).
		Where("job_seeker_id = ? AND skill_id = ?", jobSeekerID, skillID).
		Delete(&domain.JobSeekerSkill{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
