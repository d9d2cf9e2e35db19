package policy

import (
	"fmt"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

func AuthorizeJob(a Actor, action Action, owner domain.JobOwnership) error {
	if a.Job(action, owner) {
		return nil
	}
	return denied(a, action, "job")
}

func AuthorizeApplication(a Actor, action Action, target ApplicationTarget) error {
	if a.Application(action, target) {
		return nil
	}
	return denied(a, action, "job application")
}

// AuthorizeApplicationUpdate checks both the update capability on the instance
// and the actor's right to touch the requested fields.
func AuthorizeApplicationUpdate(a Actor, target ApplicationTarget, changes ApplicationChanges) error {
	if err := AuthorizeApplication(a, Update, target); err != nil {
		return err
	}
	if !a.ApplicationFields(changes) {
		return fmt.Errorf("%w: %s may not change these application fields", domain.ErrNotAuthorized, label(a))
	}
	return nil
}

func AuthorizeProfile(a Actor, action Action, ownerUserID string) error {
	if a.Profile(action, ownerUserID) {
		return nil
	}
	return denied(a, action, "profile")
}

func denied(a Actor, action Action, resource string) error {
	return fmt.Errorf("%w: %s may not %s %s", domain.ErrNotAuthorized, label(a), action, resource)
}

func label(a Actor) string {
	if a.Role() == "" {
		return "anonymous user"
	}
	return string(a.Role())
}
