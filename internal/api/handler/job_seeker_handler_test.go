package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

func TestJobSeekerHandler_Get(t *testing.T) {
	h := NewJobSeekerHandler(&stubProfileService{
		getJobSeekerFn: func(ctx context.Context, actor policy.Actor, id string) (*ports.JobSeekerView, error) {
			return &ports.JobSeekerView{
				JobSeeker:         &domain.JobSeeker{ID: id, FirstName: "Ana", LastName: "Lima"},
				ProfileCompletion: 60,
			}, nil
		},
	}, &stubSearchService{})

	c, rec := newContext(http.MethodGet, "/api/v1/job_seekers/seeker-1", nil, &companyClaims)
	c.SetParamNames("id")
	c.SetParamValues("seeker-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"full_name":"Ana Lima"`) || !strings.Contains(body, `"profile_completion_percentage":60`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestJobSeekerHandler_AddSkill(t *testing.T) {
	h := NewJobSeekerHandler(&stubProfileService{
		addSkillFn: func(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string, level domain.Proficiency) (*domain.JobSeekerSkill, error) {
			if jobSeekerID != "seeker-1" || skillID != "sk-go" || level != domain.ProficiencyExpert {
				t.Fatalf("unexpected args %q %q %q", jobSeekerID, skillID, level)
			}
			return &domain.JobSeekerSkill{JobSeekerID: jobSeekerID, SkillID: skillID, ProficiencyLevel: level}, nil
		},
	}, &stubSearchService{})

	c, rec := newContext(http.MethodPost, "/api/v1/job_seekers/seeker-1/skills", strings.NewReader(`{"skill_id":"sk-go","proficiency_level":"expert"}`), &jobSeekerClaims)
	c.SetParamNames("id")
	c.SetParamValues("seeker-1")
	if err := h.AddSkill(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPost, "/api/v1/job_seekers/seeker-1/skills", strings.NewReader(`{"skill_id":"sk-go","proficiency_level":"guru"}`), &jobSeekerClaims)
	c.SetParamNames("id")
	c.SetParamValues("seeker-1")
	var verr *domain.ValidationError
	if err := h.AddSkill(c); !errors.As(err, &verr) || verr.Fields["proficiency_level"] == "" {
		t.Fatalf("expected proficiency_level validation error, got %v", err)
	}
}

func TestJobSeekerHandler_RemoveSkill_NotAuthorized(t *testing.T) {
	h := NewJobSeekerHandler(&stubProfileService{
		removeSkillFn: func(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string) error {
			if actor.Profile(policy.Update, "user-owner") {
				return nil
			}
			return domain.ErrNotAuthorized
		},
	}, &stubSearchService{})

	c, _ := newContext(http.MethodDelete, "/api/v1/job_seekers/seeker-1/skills/sk-go", nil, &jobSeekerClaims)
	c.SetParamNames("id", "skill_id")
	c.SetParamValues("seeker-1", "sk-go")
	if err := h.RemoveSkill(c); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}
