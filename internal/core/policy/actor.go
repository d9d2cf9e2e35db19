// Package policy decides what an acting user may do to jobs, applications and
// profiles, and which records a list request may return.
package policy

import (
	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// Action is one of the capabilities checked by the engine.
type Action string

const (
	Index   Action = "index"
	Show    Action = "show"
	Create  Action = "create"
	Update  Action = "update"
	Destroy Action = "destroy"
)

// ApplicationTarget is what the engine needs to know about an application
// instance. Index and Create checks pass the zero value.
type ApplicationTarget struct {
	Owner  domain.ApplicationOwnership
	Status domain.ApplicationStatus
}

// ApplicationChanges describes which fields an update touches.
type ApplicationChanges struct {
	CoverLetter bool
	Status      *domain.ApplicationStatus
}

// Actor is the closed set of principals: Anonymous, Admin, Company and JobSeeker.
// Every variant answers the same capability questions.
type Actor interface {
	UserID() string
	Role() domain.Role

	Job(action Action, owner domain.JobOwnership) bool
	Application(action Action, target ApplicationTarget) bool
	ApplicationFields(changes ApplicationChanges) bool
	Profile(action Action, ownerUserID string) bool

	JobScope() JobScope
	ApplicationScope() ApplicationScope

	sealed()
}

// FromClaims builds the actor for an authenticated identity. An empty or
// unknown role yields Anonymous.
func FromClaims(role domain.Role, userID, companyID, jobSeekerID string) Actor {
	if userID == "" {
		return Anonymous{}
	}
	switch role {
	case domain.RoleAdmin:
		return Admin{ID: userID}
	case domain.RoleCompany:
		return Company{ID: userID, CompanyID: companyID}
	case domain.RoleJobSeeker:
		return JobSeeker{ID: userID, JobSeekerID: jobSeekerID}
	default:
		return Anonymous{}
	}
}

// Anonymous is an unauthenticated caller. It may browse active jobs only.
type Anonymous struct{}

func (Anonymous) UserID() string    { return "" }
func (Anonymous) Role() domain.Role { return "" }

func (Anonymous) Job(action Action, _ domain.JobOwnership) bool {
	return action == Index || action == Show
}

func (Anonymous) Application(Action, ApplicationTarget) bool { return false }
func (Anonymous) ApplicationFields(ApplicationChanges) bool  { return false }
func (Anonymous) Profile(Action, string) bool                { return false }
func (Anonymous) JobScope() JobScope                         { return JobScope{Kind: ScopeActiveOnly} }
func (Anonymous) ApplicationScope() ApplicationScope         { return ApplicationScope{Kind: ScopeNone} }
func (Anonymous) sealed()                                    {}

// Admin may do everything.
type Admin struct {
	ID string
}

func (a Admin) UserID() string                           { return a.ID }
func (Admin) Role() domain.Role                          { return domain.RoleAdmin }
func (Admin) Job(Action, domain.JobOwnership) bool       { return true }
func (Admin) Application(Action, ApplicationTarget) bool { return true }
func (Admin) ApplicationFields(ApplicationChanges) bool  { return true }
func (Admin) Profile(Action, string) bool                { return true }
func (Admin) JobScope() JobScope                         { return JobScope{Kind: ScopeAll} }
func (Admin) ApplicationScope() ApplicationScope         { return ApplicationScope{Kind: ScopeAll} }
func (Admin) sealed()                                    {}

// Company is a company user acting through their company profile.
type Company struct {
	ID        string
	CompanyID string
}

func (c Company) UserID() string  { return c.ID }
func (Company) Role() domain.Role { return domain.RoleCompany }

func (c Company) Job(action Action, owner domain.JobOwnership) bool {
	switch action {
	case Index, Show, Create:
		return true
	case Update, Destroy:
		return owner.OwnedBy(c.ID)
	}
	return false
}

func (c Company) Application(action Action, t ApplicationTarget) bool {
	switch action {
	case Index:
		return true
	case Show, Update:
		return t.Owner.EmployerIs(c.ID)
	}
	return false
}

// ApplicationFields lets employers move the status forward but not withdraw
// on the applicant's behalf or edit the cover letter.
func (Company) ApplicationFields(ch ApplicationChanges) bool {
	if ch.CoverLetter {
		return false
	}
	return ch.Status == nil || *ch.Status != domain.AppWithdrawn
}

func (c Company) Profile(action Action, ownerUserID string) bool {
	return profileRule(c.ID, action, ownerUserID)
}

func (c Company) JobScope() JobScope {
	return JobScope{Kind: ScopeCompany, CompanyID: c.CompanyID}
}

func (c Company) ApplicationScope() ApplicationScope {
	return ApplicationScope{Kind: ScopeCompany, CompanyID: c.CompanyID}
}

func (Company) sealed() {}

// JobSeeker is a candidate acting through their seeker profile.
type JobSeeker struct {
	ID          string
	JobSeekerID string
}

func (s JobSeeker) UserID() string  { return s.ID }
func (JobSeeker) Role() domain.Role { return domain.RoleJobSeeker }

func (JobSeeker) Job(action Action, _ domain.JobOwnership) bool {
	return action == Index || action == Show
}

func (s JobSeeker) Application(action Action, t ApplicationTarget) bool {
	switch action {
	case Index, Create:
		return true
	case Show:
		return t.Owner.ApplicantIs(s.ID)
	case Update, Destroy:
		return t.Owner.ApplicantIs(s.ID) && t.Status.Withdrawable()
	}
	return false
}

// ApplicationFields lets applicants edit their cover letter and withdraw.
func (JobSeeker) ApplicationFields(ch ApplicationChanges) bool {
	return ch.Status == nil || *ch.Status == domain.AppWithdrawn
}

func (s JobSeeker) Profile(action Action, ownerUserID string) bool {
	return profileRule(s.ID, action, ownerUserID)
}

func (JobSeeker) JobScope() JobScope { return JobScope{Kind: ScopeActiveOnly} }

func (s JobSeeker) ApplicationScope() ApplicationScope {
	return ApplicationScope{Kind: ScopeJobSeeker, JobSeekerID: s.JobSeekerID}
}

func (JobSeeker) sealed() {}

// profileRule: any signed-in user may browse profiles, only the owner may
// change one, and profiles are created at registration.
func profileRule(userID string, action Action, ownerUserID string) bool {
	switch action {
	case Index, Show:
		return true
	case Update, Destroy:
		return ownerUserID != "" && ownerUserID == userID
	}
	return false
}
