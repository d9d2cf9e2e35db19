package domain

import "time"

// Category groups jobs and skills.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:50;not null" validate:"required,min=2,max=50"`
	Description string    `json:"description,omitempty" gorm:"size:500" validate:"max=500"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Skill is reference data; its name is unique within its category.
type Skill struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	CategoryID  string    `json:"category_id" gorm:"size:36;uniqueIndex:idx_skill_category_name;not null"`
	Name        string    `json:"name" gorm:"size:50;uniqueIndex:idx_skill_category_name;not null" validate:"required,min=2,max=50"`
	Description string    `json:"description,omitempty" gorm:"size:500" validate:"max=500"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobCategory is the join between jobs and categories.
type JobCategory struct {
	JobID      string `gorm:"primaryKey;size:36"`
	CategoryID string `gorm:"primaryKey;size:36"`
}
