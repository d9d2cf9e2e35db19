package domain

import "time"

// Role determines which profile a user owns and what they may do.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCompany   Role = "company"
	RoleJobSeeker Role = "job_seeker"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCompany, RoleJobSeeker:
		return true
	}
	return false
}

// User models an authenticated account. Its role is fixed at registration.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null" validate:"required,email"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"size:20;not null" validate:"required,oneof=admin company job_seeker"`
	Phone        string     `json:"phone,omitempty" gorm:"size:20" validate:"omitempty,phone"`
	Company      *Company   `json:"company,omitempty" gorm:"foreignKey:UserID" validate:"-"`
	JobSeeker    *JobSeeker `json:"job_seeker,omitempty" gorm:"foreignKey:UserID" validate:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullName picks the most descriptive display name available for the account.
func (u *User) FullName() string {
	switch {
	case u.JobSeeker != nil && u.JobSeeker.FullName() != "":
		return u.JobSeeker.FullName()
	case u.Company != nil && u.Company.Name != "":
		return u.Company.Name
	default:
		return u.Email
	}
}

// ProfileComplete reports whether the role-specific profile carries its identifying fields.
func (u *User) ProfileComplete() bool {
	switch u.Role {
	case RoleCompany:
		return u.Company != nil && u.Company.Name != ""
	case RoleJobSeeker:
		return u.JobSeeker != nil && u.JobSeeker.FirstName != "" && u.JobSeeker.LastName != ""
	default:
		return true
	}
}
