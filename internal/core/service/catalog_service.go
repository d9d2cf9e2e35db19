package service

import (
	"context"
	"fmt"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// CatalogService serves the category and skill reference data.
type CatalogService struct {
	repo ports.CatalogRepository
}

func NewCatalogService(repo ports.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	out, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return out, nil
}

// ListSkills returns the skills of a category, failing when the category does not exist.
func (s *CatalogService) ListSkills(ctx context.Context, categoryID string) ([]domain.Skill, error) {
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	out, err := s.repo.ListSkills(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return out, nil
}

func (s *CatalogService) GetSkill(ctx context.Context, id string) (*domain.Skill, error) {
	out, err := s.repo.GetSkill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}
	return out, nil
}
