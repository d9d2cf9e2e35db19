package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents the review state of a job application.
type ApplicationStatus string

const (
	AppPending     ApplicationStatus = "pending"
	AppReviewed    ApplicationStatus = "reviewed"
	AppShortlisted ApplicationStatus = "shortlisted"
	AppInterviewed ApplicationStatus = "interviewed"
	AppAccepted    ApplicationStatus = "accepted"
	AppRejected    ApplicationStatus = "rejected"
	AppWithdrawn   ApplicationStatus = "withdrawn"
)

const recentApplicationDays = 3

// ApplicationStatuses lists every status in lifecycle order.
var ApplicationStatuses = []ApplicationStatus{
	AppPending, AppReviewed, AppShortlisted, AppInterviewed, AppAccepted, AppRejected, AppWithdrawn,
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransition reports whether an application in current may be set to requested.
// Withdrawn admits nothing. Accepted and rejected admit only themselves.
func CanTransition(current, requested ApplicationStatus) bool {
	switch current {
	case AppWithdrawn:
		return false
	case AppAccepted, AppRejected:
		return requested == current
	default:
		return true
	}
}

// Withdrawable reports whether an application in s may still be withdrawn.
func (s ApplicationStatus) Withdrawable() bool {
	return s == AppPending || s == AppReviewed || s == AppShortlisted
}

// JobApplication is a seeker's application to a job. At most one exists per
// (job, seeker) pair.
type JobApplication struct {
	ID          string            `json:"id" gorm:"primaryKey;size:36"`
	JobID       string            `json:"job_id" gorm:"size:36;not null;uniqueIndex:idx_application_job_seeker"`
	JobSeekerID string            `json:"job_seeker_id" gorm:"size:36;not null;uniqueIndex:idx_application_job_seeker;index"`
	CoverLetter string            `json:"cover_letter,omitempty" gorm:"type:text" validate:"max=2000"`
	Status      ApplicationStatus `json:"status" gorm:"size:20;index;not null" validate:"required,oneof=pending reviewed shortlisted interviewed accepted rejected withdrawn"`
	AppliedAt   time.Time         `json:"applied_at"`
	Job         *Job              `json:"job,omitempty" gorm:"foreignKey:JobID" validate:"-"`
	JobSeeker   *JobSeeker        `json:"job_seeker,omitempty" gorm:"foreignKey:JobSeekerID" validate:"-"`
	CreatedAt   time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewApplication builds a pending application and the new_application event
// that must be published once it is stored.
func NewApplication(jobID, jobSeekerID, coverLetter string, now time.Time) (*JobApplication, Event, error) {
	app := &JobApplication{
		ID:          uuid.NewString(),
		JobID:       jobID,
		JobSeekerID: jobSeekerID,
		CoverLetter: coverLetter,
		Status:      AppPending,
		AppliedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := Validate(app); err != nil {
		return nil, Event{}, err
	}
	return app, NewEvent(EventNewApplication, app.ID, string(app.Status), now), nil
}

// CanWithdraw reports whether the application is still early enough to withdraw.
func (a *JobApplication) CanWithdraw() bool {
	return a.Status.Withdrawable()
}

// ChangeStatus applies next and returns the status_update event. A request for
// the current status is a no-op and yields no event.
func (a *JobApplication) ChangeStatus(next ApplicationStatus, now time.Time) (*Event, error) {
	if !next.Valid() {
		return nil, NewValidationError("status", "status must be one of: pending reviewed shortlisted interviewed accepted rejected withdrawn")
	}
	if !CanTransition(a.Status, next) {
		return nil, fmt.Errorf("%w: application from %s to %s", ErrInvalidTransition, a.Status, next)
	}
	if a.Status == next {
		return nil, nil
	}
	a.Status = next
	a.UpdatedAt = now
	ev := NewEvent(EventStatusUpdate, a.ID, string(next), now)
	return &ev, nil
}

// Withdraw moves a pending, reviewed or shortlisted application to withdrawn.
func (a *JobApplication) Withdraw(now time.Time) (Event, error) {
	if !a.CanWithdraw() {
		return Event{}, fmt.Errorf("%w: cannot withdraw an application that is %s", ErrInvalidTransition, a.Status)
	}
	a.Status = AppWithdrawn
	a.UpdatedAt = now
	return NewEvent(EventStatusUpdate, a.ID, string(AppWithdrawn), now), nil
}

// DaysSinceApplied counts calendar days (UTC) between applied_at and now.
func (a *JobApplication) DaysSinceApplied(now time.Time) int {
	return calendarDaysBetween(a.AppliedAt, now)
}

func (a *JobApplication) IsRecentApplication(now time.Time) bool {
	return a.DaysSinceApplied(now) <= recentApplicationDays
}

func calendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.UTC().Date()
	ty, tm, td := to.UTC().Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
