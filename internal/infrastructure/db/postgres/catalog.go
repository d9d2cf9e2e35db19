package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := s.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) ListSkills(ctx context.Context, categoryID string) ([]domain.Skill, error) {
	var out []domain.Skill
	err := s.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("name").Find(&out).Error
	return out, err
}

func (s *Store) GetSkill(ctx context.Context, id string) (*domain.Skill, error) {
	var sk domain.Skill
	if err := s.db.WithContext(ctx).First(&sk, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sk, nil
}

// DefaultCatalog is the reference data loaded on first start.
var DefaultCatalog = map[string][]string{
	"Technology":      {"Go", "Ruby", "JavaScript", "Python", "SQL", "Kubernetes"},
	"Design":          {"Figma", "UX Research", "Illustration"},
	"Marketing":       {"SEO", "Content Writing", "Social Media"},
	"Sales":           {"Negotiation", "CRM", "Lead Generation"},
	"Finance":         {"Accounting", "Financial Modeling", "Excel"},
	"Human Resources": {"Recruiting", "Onboarding", "Payroll"},
}

// SeedCatalog inserts missing categories and skills; existing rows are kept.
func (s *Store) SeedCatalog(ctx context.Context, catalog map[string][]string) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, skills := range catalog {
			cat := domain.Category{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
			if err := tx.Where(domain.Category{Name: name}).FirstOrCreate(&cat).Error; err != nil {
				return err
			}
			for _, skill := range skills {
				sk := domain.Skill{ID: uuid.NewString(), CategoryID: cat.ID, Name: skill, CreatedAt: now, UpdatedAt: now}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sk).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
