package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// CreateJob inserts the job and links the categories that exist; unknown
// category ids are skipped.
func (s *Store) CreateJob(ctx context.Context, job *domain.Job) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Company{}).Where("id = ?", job.CompanyID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.NewValidationError("company_id", "company does not exist")
		}
		if err := tx.Omit(clause.Associations).Create(job).Error; err != nil {
			return err
		}
		return linkCategories(tx, job)
	})
	return err
}

func linkCategories(tx *gorm.DB, job *domain.Job) error {
	if len(job.Categories) == 0 {
		return nil
	}
	ids := make([]string, 0, len(job.Categories))
	for _, c := range job.Categories {
		ids = append(ids, c.ID)
	}
	var found []string
	if err := tx.Model(&domain.Category{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) == 0 {
		return nil
	}
	links := make([]domain.JobCategory, 0, len(found))
	for _, id := range found {
		links = append(links, domain.JobCategory{JobID: job.ID, CategoryID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (s *Store) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	var j domain.Job
	err := s.db.WithContext(ctx).
		Preload("Company").
		Preload("Categories").
		First(&j, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

// UpdateJob is a compare-and-set on the stored status.
func (s *Store) UpdateJob(ctx context.Context, job *domain.Job, expected domain.JobStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&domain.Job{}).
		Where("id = ? AND status = ?", job.ID, expected).
		Updates(map[string]any{
			"title":                job.Title,
			"description":          job.Description,
			"requirements":         job.Requirements,
			"benefits":             job.Benefits,
			"location":             job.Location,
			"salary_min":           job.SalaryMin,
			"salary_max":           job.SalaryMax,
			"employment_type":      job.EmploymentType,
			"remote":               job.Remote,
			"status":               job.Status,
			"application_deadline": job.ApplicationDeadline,
			"updated_at":           job.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteJob removes the job with its applications and category links.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&domain.JobApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&domain.JobCategory{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Job{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func jobScope(scope policy.JobScope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch scope.Kind {
		case policy.ScopeAll:
			return db
		case policy.ScopeCompany:
			return db.Where("jobs.company_id = ?", scope.CompanyID)
		case policy.ScopeActiveOnly:
			return db.Where("jobs.status = ?", domain.JobActive)
		default:
			return db.Where("1 = 0")
		}
	}
}

func (s *Store) ListJobs(ctx context.Context, f ports.JobFilter) ([]domain.Job, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.Job{}).Scopes(jobScope(f.Scope))
	if f.CompanyID != "" {
		q = q.Where("jobs.company_id = ?", f.CompanyID)
	}
	if f.ActiveOnly {
		q = q.Where("jobs.status = ?", domain.JobActive)
	}
	if f.Location != "" {
		q = containsAny(q, likePattern(f.Location), "jobs.location")
	}
	if f.EmploymentType != "" {
		q = q.Where("jobs.employment_type = ?", f.EmploymentType)
	}
	if f.Remote != nil {
		q = q.Where("jobs.remote = ?", *f.Remote)
	}
	if f.SalaryMin != nil {
		q = q.Where("jobs.salary_min >= ?", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		q = q.Where("jobs.salary_max <= ?", *f.SalaryMax)
	}
	if f.Search != "" {
		q = containsAny(q, likePattern(f.Search), "jobs.title", "jobs.description")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var jobs []domain.Job
	err := q.Preload("Company").
		Order("jobs.created_at DESC").
		Scopes(paginate(f.Pagination)).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (s *Store) FindJobsByIDs(ctx context.Context, ids []string) ([]domain.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var jobs []domain.Job
	err := s.db.WithContext(ctx).Preload("Company").Where("id IN ?", ids).Find(&jobs).Error
	return jobs, err
}

func (s *Store) ResolveJobOwnership(ctx context.Context, id string) (domain.JobOwnership, error) {
	var row struct {
		JobID       string
		CompanyID   string
		OwnerUserID string
	}
	err := s.db.WithContext(ctx).Table("jobs").
		Select("jobs.id AS job_id, jobs.company_id AS company_id, companies.user_id AS owner_user_id").
		Joins("LEFT JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.id = ?", id).
		Take(&row).Error
	if err != nil {
		return domain.JobOwnership{}, notFound(err)
	}
	return domain.JobOwnership{JobID: row.JobID, CompanyID: row.CompanyID, OwnerUserID: row.OwnerUserID}, nil
}

func (s *Store) CountApplications(ctx context.Context, jobID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.JobApplication{}).Where("job_id = ?", jobID).Count(&n).Error
	return n, err
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
