package policy

import "github.com/jobboard/jobboard-api/internal/core/domain"

// ScopeKind selects how a list query is restricted.
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeAll
	ScopeActiveOnly
	ScopeCompany
	ScopeJobSeeker
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "all"
	case ScopeActiveOnly:
		return "active_only"
	case ScopeCompany:
		return "company"
	case ScopeJobSeeker:
		return "job_seeker"
	default:
		return "none"
	}
}

// JobScope is the subset of jobs an actor may list. Repositories translate it
// into query conditions; Permits evaluates it in memory.
type JobScope struct {
	Kind      ScopeKind
	CompanyID string
}

func (s JobScope) Permits(j *domain.Job) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeCompany:
		return s.CompanyID != "" && j.CompanyID == s.CompanyID
	case ScopeActiveOnly:
		return j.Status == domain.JobActive
	default:
		return false
	}
}

// ApplicationScope is the subset of applications an actor may list.
type ApplicationScope struct {
	Kind        ScopeKind
	CompanyID   string
	JobSeekerID string
}

func (s ApplicationScope) Permits(o domain.ApplicationOwnership) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeCompany:
		return s.CompanyID != "" && o.Job.CompanyID == s.CompanyID
	case ScopeJobSeeker:
		return s.JobSeekerID != "" && o.JobSeekerID == s.JobSeekerID
	default:
		return false
	}
}
