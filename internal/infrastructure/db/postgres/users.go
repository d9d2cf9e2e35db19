package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// CreateWithProfile inserts the user and its role profile in one transaction.
func (s *Store) CreateWithProfile(ctx context.Context, user *domain.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		if user.Company != nil {
			if err := tx.Omit(clause.Associations).Create(user.Company).Error; err != nil {
				return err
			}
		}
		if user.JobSeeker != nil {
			if err := tx.Omit(clause.Associations).Create(user.JobSeeker).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrUserExists
	}
	return err
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).
		Preload("Company").
		Preload("JobSeeker").
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).
		Preload("Company").
		Preload("JobSeeker").
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
