package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

func newProfileSvc(store *memStore) (*ProfileService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewProfileService(store, store, store, store, pub, zerolog.Nop())
	svc.now = fixedClock
	return svc, pub
}

func TestProfileService_UpdateCompany_ReindexesJobs(t *testing.T) {
	store := seededStore()
	store.seedJob("j-1", "c-acme", domain.JobActive, fixedNow)
	store.seedJob("j-2", "c-acme", domain.JobDraft, fixedNow)
	store.seedJob("j-3", "c-globex", domain.JobActive, fixedNow)
	svc, pub := newProfileSvc(store)

	view, err := svc.UpdateCompany(context.Background(), acmeActor, "c-acme", ports.CompanyProfileInput{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Company.Name != "Acme Corp" || store.companies["c-acme"].Name != "Acme Corp" {
		t.Fatal("name was not updated")
	}
	if view.Stats.TotalJobs != 2 || view.Stats.ActiveJobs != 1 {
		t.Errorf("unexpected stats %+v", view.Stats)
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected both Acme jobs re-indexed, got %d events", len(pub.events))
	}
}

func TestProfileService_UpdateCompany_NotOwner(t *testing.T) {
	svc, _ := newProfileSvc(seededStore())

	_, err := svc.UpdateCompany(context.Background(), globexActor, "c-acme", ports.CompanyProfileInput{Name: "Hijacked"})
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestProfileService_UpdateCompany_FutureFoundedYear(t *testing.T) {
	svc, _ := newProfileSvc(seededStore())
	year := fixedNow.Year() + 1

	_, err := svc.UpdateCompany(context.Background(), acmeActor, "c-acme", ports.CompanyProfileInput{FoundedYear: &year})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProfileService_GetJobSeeker(t *testing.T) {
	store := seededStore()
	store.seedJob("j-1", "c-acme", domain.JobActive, fixedNow)
	store.seedApplication("a-1", "j-1", "s-ada", domain.AppAccepted, fixedNow)
	svc, _ := newProfileSvc(store)

	if _, err := svc.GetJobSeeker(context.Background(), policy.Anonymous{}, "s-ada"); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("anonymous: expected ErrNotAuthorized, got %v", err)
	}

	view, err := svc.GetJobSeeker(context.Background(), acmeActor, "s-ada")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Stats.AcceptedApplications != 1 {
		t.Errorf("unexpected stats %+v", view.Stats)
	}
	// first name, last name and location are set; bio is not.
	if view.ProfileCompletion != 75 {
		t.Errorf("expected 75%% completion, got %d", view.ProfileCompletion)
	}
}

func TestProfileService_Skills(t *testing.T) {
	store := seededStore()
	store.skills["sk-go"] = &domain.Skill{ID: "sk-go", CategoryID: "cat-eng", Name: "Go"}
	svc, _ := newProfileSvc(store)
	ctx := context.Background()

	link, err := svc.AddSkill(ctx, adaActor, "s-ada", "sk-go", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.ProficiencyLevel != domain.ProficiencyIntermediate {
		t.Fatalf("expected default intermediate, got %s", link.ProficiencyLevel)
	}

	if _, err := svc.AddSkill(ctx, adaActor, "s-ada", "sk-go", domain.ProficiencyExpert); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	skills, err := svc.ListSkills(ctx, graceActor, "s-ada")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(skills) != 1 || skills[0].ProficiencyLevel != domain.ProficiencyExpert {
		t.Fatalf("expected one expert skill, got %+v", skills)
	}

	if _, err := svc.AddSkill(ctx, graceActor, "s-ada", "sk-go", ""); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := svc.AddSkill(ctx, adaActor, "s-ada", "sk-missing", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AddSkill(ctx, adaActor, "s-ada", "sk-go", "guru"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if err := svc.RemoveSkill(ctx, adaActor, "s-ada", "sk-go"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveSkill(ctx, adaActor, "s-ada", "sk-go"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
