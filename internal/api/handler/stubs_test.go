package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/api/middleware"
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/core/search"
)

type claims struct {
	userID, role, companyID, jobSeekerID string
}

var (
	companyClaims   = claims{userID: "user-c", role: "company", companyID: "company-1"}
	jobSeekerClaims = claims{userID: "user-s", role: "job_seeker", jobSeekerID: "seeker-1"}
)

// newContext builds an echo context with a validator and, when cl is set,
// the claims the Auth middleware would have injected.
func newContext(method, target string, body io.Reader, cl *claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if cl != nil {
		c.Set(middleware.KeyUserID, cl.userID)
		c.Set(middleware.KeyRole, cl.role)
		c.Set(middleware.KeyCompanyID, cl.companyID)
		c.Set(middleware.KeyJobSeekerID, cl.jobSeekerID)
	}
	return c, rec
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	profileFn  func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

type stubJobService struct {
	listFn     func(ctx context.Context, actor policy.Actor, in ports.JobListInput) (ports.Page[ports.JobView], error)
	getFn      func(ctx context.Context, actor policy.Actor, id string) (*ports.JobView, error)
	createFn   func(ctx context.Context, actor policy.Actor, in ports.JobInput) (*ports.JobView, error)
	updateFn   func(ctx context.Context, actor policy.Actor, id string, patch ports.JobPatch) (*ports.JobView, error)
	deleteFn   func(ctx context.Context, actor policy.Actor, id string) error
	statusFn   func(ctx context.Context, actor policy.Actor, id string, status domain.JobStatus) (*ports.JobView, error)
	canApplyFn func(ctx context.Context, actor policy.Actor, jobID string) (bool, error)
}

func (s *stubJobService) ListJobs(ctx context.Context, actor policy.Actor, in ports.JobListInput) (ports.Page[ports.JobView], error) {
	return s.listFn(ctx, actor, in)
}

func (s *stubJobService) GetJob(ctx context.Context, actor policy.Actor, id string) (*ports.JobView, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubJobService) CreateJob(ctx context.Context, actor policy.Actor, in ports.JobInput) (*ports.JobView, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubJobService) UpdateJob(ctx context.Context, actor policy.Actor, id string, patch ports.JobPatch) (*ports.JobView, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubJobService) DeleteJob(ctx context.Context, actor policy.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubJobService) ChangeJobStatus(ctx context.Context, actor policy.Actor, id string, status domain.JobStatus) (*ports.JobView, error) {
	return s.statusFn(ctx, actor, id, status)
}

func (s *stubJobService) CanApply(ctx context.Context, actor policy.Actor, jobID string) (bool, error) {
	return s.canApplyFn(ctx, actor, jobID)
}

type stubApplicationService struct {
	applyFn    func(ctx context.Context, actor policy.Actor, jobID, coverLetter string) (*ports.ApplicationView, error)
	listFn     func(ctx context.Context, actor policy.Actor, in ports.ApplicationListInput) (ports.Page[ports.ApplicationView], error)
	getFn      func(ctx context.Context, actor policy.Actor, id string) (*ports.ApplicationView, error)
	updateFn   func(ctx context.Context, actor policy.Actor, id string, patch ports.ApplicationPatch) (*ports.ApplicationView, error)
	withdrawFn func(ctx context.Context, actor policy.Actor, id string) (*ports.ApplicationView, error)
	historyFn  func(ctx context.Context, actor policy.Actor, id string) ([]domain.StatusChange, error)
}

func (s *stubApplicationService) Apply(ctx context.Context, actor policy.Actor, jobID, coverLetter string) (*ports.ApplicationView, error) {
	return s.applyFn(ctx, actor, jobID, coverLetter)
}

func (s *stubApplicationService) ListApplications(ctx context.Context, actor policy.Actor, in ports.ApplicationListInput) (ports.Page[ports.ApplicationView], error) {
	return s.listFn(ctx, actor, in)
}

func (s *stubApplicationService) GetApplication(ctx context.Context, actor policy.Actor, id string) (*ports.ApplicationView, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubApplicationService) UpdateApplication(ctx context.Context, actor policy.Actor, id string, patch ports.ApplicationPatch) (*ports.ApplicationView, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubApplicationService) Withdraw(ctx context.Context, actor policy.Actor, id string) (*ports.ApplicationView, error) {
	return s.withdrawFn(ctx, actor, id)
}

func (s *stubApplicationService) History(ctx context.Context, actor policy.Actor, id string) ([]domain.StatusChange, error) {
	return s.historyFn(ctx, actor, id)
}

type stubCatalogService struct {
	categories []domain.Category
	skills     []domain.Skill
}

func (s *stubCatalogService) ListCategories(context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubCatalogService) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalogService) ListSkills(_ context.Context, categoryID string) ([]domain.Skill, error) {
	var out []domain.Skill
	for _, sk := range s.skills {
		if sk.CategoryID == categoryID {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (s *stubCatalogService) GetSkill(_ context.Context, id string) (*domain.Skill, error) {
	for i := range s.skills {
		if s.skills[i].ID == id {
			return &s.skills[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubSearchService struct {
	jobsFn       func(ctx context.Context, actor policy.Actor, req search.Request) (*ports.JobSearchResult, error)
	companiesFn  func(ctx context.Context, actor policy.Actor, filter ports.CompanyFilter) (ports.Page[domain.Company], error)
	jobSeekersFn func(ctx context.Context, actor policy.Actor, filter ports.JobSeekerFilter) (ports.Page[domain.JobSeeker], error)
}

func (s *stubSearchService) SearchJobs(ctx context.Context, actor policy.Actor, req search.Request) (*ports.JobSearchResult, error) {
	return s.jobsFn(ctx, actor, req)
}

func (s *stubSearchService) SearchCompanies(ctx context.Context, actor policy.Actor, filter ports.CompanyFilter) (ports.Page[domain.Company], error) {
	return s.companiesFn(ctx, actor, filter)
}

func (s *stubSearchService) SearchJobSeekers(ctx context.Context, actor policy.Actor, filter ports.JobSeekerFilter) (ports.Page[domain.JobSeeker], error) {
	return s.jobSeekersFn(ctx, actor, filter)
}

type stubProfileService struct {
	getCompanyFn      func(ctx context.Context, actor policy.Actor, id string) (*ports.CompanyView, error)
	updateCompanyFn   func(ctx context.Context, actor policy.Actor, id string, in ports.CompanyProfileInput) (*ports.CompanyView, error)
	getJobSeekerFn    func(ctx context.Context, actor policy.Actor, id string) (*ports.JobSeekerView, error)
	updateJobSeekerFn func(ctx context.Context, actor policy.Actor, id string, in ports.JobSeekerProfileInput) (*ports.JobSeekerView, error)
	listSkillsFn      func(ctx context.Context, actor policy.Actor, jobSeekerID string) ([]domain.JobSeekerSkill, error)
	addSkillFn        func(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string, level domain.Proficiency) (*domain.JobSeekerSkill, error)
	removeSkillFn     func(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string) error
}

func (s *stubProfileService) GetCompany(ctx context.Context, actor policy.Actor, id string) (*ports.CompanyView, error) {
	return s.getCompanyFn(ctx, actor, id)
}

func (s *stubProfileService) UpdateCompany(ctx context.Context, actor policy.Actor, id string, in ports.CompanyProfileInput) (*ports.CompanyView, error) {
	return s.updateCompanyFn(ctx, actor, id, in)
}

func (s *stubProfileService) GetJobSeeker(ctx context.Context, actor policy.Actor, id string) (*ports.JobSeekerView, error) {
	return s.getJobSeekerFn(ctx, actor, id)
}

func (s *stubProfileService) UpdateJobSeeker(ctx context.Context, actor policy.Actor, id string, in ports.JobSeekerProfileInput) (*ports.JobSeekerView, error) {
	return s.updateJobSeekerFn(ctx, actor, id, in)
}

func (s *stubProfileService) ListSkills(ctx context.Context, actor policy.Actor, jobSeekerID string) ([]domain.JobSeekerSkill, error) {
	return s.listSkillsFn(ctx, actor, jobSeekerID)
}

func (s *stubProfileService) AddSkill(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string, level domain.Proficiency) (*domain.JobSeekerSkill, error) {
	return s.addSkillFn(ctx, actor, jobSeekerID, skillID, level)
}

func (s *stubProfileService) RemoveSkill(ctx context.Context, actor policy.Actor, jobSeekerID, skillID string) error {
	return s.removeSkillFn(ctx, actor, jobSeekerID, skillID)
}
