package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// recentApplicationDays matches domain.JobApplication.IsRecentApplication.
const recentApplicationDays = 3

// CreateApplication relies on the (job_id, job_seeker_id) unique index.
func (s *Store) CreateApplication(ctx context.Context, app *domain.JobApplication) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error
	if isDuplicate(err) {
		return domain.ErrConflictingApplication
	}
	return err
}

func (s *Store) GetApplication(ctx context.Context, id string) (*domain.JobApplication, error) {
	var a domain.JobApplication
	err := s.db.WithContext(ctx).
		Preload("Job.Company").
		Preload("JobSeeker").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *Store) ApplicationExists(ctx context.Context, jobID, jobSeekerID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.JobApplication{}).
		Where("job_id = ? AND job_seeker_id = ?", jobID, jobSeekerID).
		Count(&n).Error
	return n > 0, err
}

// SaveApplication is a compare-and-set on the stored status.
func (s *Store) SaveApplication(ctx context.Context, app *domain.JobApplication, expected domain.ApplicationStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&domain.JobApplication{}).
		Where("id = ? AND status = ?", app.ID, expected).
		Updates(map[string]any{
			"status":       app.Status,
			"cover_letter": app.CoverLetter,
			"updated_at":   app.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// companyJobs selects the ids of the company's jobs for use as a subquery.
func (s *Store) companyJobs(companyID string) *gorm.DB {
	return s.db.Session(&gorm.Session{NewDB: true}).Model(&domain.Job{}).Select("id").Where("company_id = ?", companyID)
}

func (s *Store) applicationScope(scope policy.ApplicationScope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch scope.Kind {
		case policy.ScopeAll:
			return db
		case policy.ScopeCompany:
			return db.Where("job_id IN (?)", s.companyJobs(scope.CompanyID))
		case policy.ScopeJobSeeker:
			return db.Where("job_seeker_id = ?", scope.JobSeekerID)
		default:
			return db.Where("1 = 0")
		}
	}
}

func (s *Store) ListApplications(ctx context.Context, f ports.ApplicationFilter) ([]domain.JobApplication, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.JobApplication{}).Scopes(s.applicationScope(f.Scope))
	if f.JobID != "" {
		q = q.Where("job_id = ?", f.JobID)
	}
	if f.JobSeekerID != "" {
		q = q.Where("job_seeker_id = ?", f.JobSeekerID)
	}
	if f.CompanyID != "" {
		q = q.Where("job_id IN (?)", s.companyJobs(f.CompanyID))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Recent {
		y, m, d := time.Now().UTC().Date()
		since := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -recentApplicationDays)
		q = q.Where("applied_at >= ?", since)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var apps []domain.JobApplication
	err := q.Preload("Job.Company").
		Preload("JobSeeker").
		Order("applied_at DESC").
		Order("id").
		Scopes(paginate(f.Pagination)).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (s *Store) ResolveApplicationOwnership(ctx context.Context, id string) (domain.ApplicationOwnership, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return domain.ApplicationOwnership{}, err
	}
	return domain.ApplicationOwnershipOf(app), nil
}
