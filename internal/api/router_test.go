package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/infrastructure/http/handlers"
)

const testSecret = "router-test-secret"

// Unimplemented methods panic through the nil embedded interface; Recover
// turns that into a 500 so a wrongly wired route fails loudly.
type routerJobs struct{ ports.JobService }

func (routerJobs) GetJob(_ context.Context, actor policy.Actor, id string) (*ports.JobView, error) {
	if id != "job-1" {
		return nil, domain.ErrNotFound
	}
	return &ports.JobView{Job: &domain.Job{ID: id, Status: domain.JobActive}}, nil
}

func (routerJobs) CreateJob(context.Context, policy.Actor, ports.JobInput) (*ports.JobView, error) {
	verr := domain.NewValidationError("title", "title is required")
	verr.Add("location", "location is required")
	return nil, verr
}

func (routerJobs) ChangeJobStatus(context.Context, policy.Actor, string, domain.JobStatus) (*ports.JobView, error) {
	return nil, errors.Join(errors.New("activate job"), domain.ErrInvalidTransition)
}

type routerApplications struct{ ports.ApplicationService }

func (routerApplications) Apply(context.Context, policy.Actor, string, string) (*ports.ApplicationView, error) {
	return nil, domain.ErrConflictingApplication
}

type routerCatalog struct{ ports.CatalogService }

func (routerCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return nil, errors.New("connection reset")
}

func newTestRouter(t *testing.T, readiness map[string]handlers.Pinger) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRouter(Options{
		JWTSecret:  testSecret,
		Log:        zerolog.Nop(),
		Readiness:  readiness,
		Registerer: reg,
		Gatherer:   reg,
	}, Services{
		Jobs:         routerJobs{},
		Applications: routerApplications{},
		Catalog:      routerCatalog{},
	})
}

func token(t *testing.T, role domain.Role) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "user-" + string(role),
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	switch role {
	case domain.RoleCompany:
		claims["company_id"] = "company-1"
	case domain.RoleJobSeeker:
		claims["job_seeker_id"] = "seeker-1"
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, h http.Handler, method, target, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_StatusMapping(t *testing.T) {
	r := newTestRouter(t, nil)
	company := token(t, domain.RoleCompany)
	seeker := token(t, domain.RoleJobSeeker)

	cases := []struct {
		name     string
		method   string
		target   string
		body     string
		bearer   string
		wantCode int
		wantBody string
	}{
		{"anonymous job read", http.MethodGet, "/api/v1/jobs/job-1", "", "", http.StatusOK, `"id":"job-1"`},
		{"unknown job", http.MethodGet, "/api/v1/jobs/missing", "", "", http.StatusNotFound, `"error":"record not found"`},
		{"bad token on optional auth", http.MethodGet, "/api/v1/jobs/job-1", "", "garbage", http.StatusUnauthorized, "invalid token"},
		{"create without token", http.MethodPost, "/api/v1/jobs", `{}`, "", http.StatusUnauthorized, "missing authorization header"},
		{"create as job seeker", http.MethodPost, "/api/v1/jobs", `{}`, seeker, http.StatusForbidden, ""},
		{"create with field errors", http.MethodPost, "/api/v1/jobs", `{}`, company, http.StatusUnprocessableEntity, `"location":"location is required"`},
		{"illegal transition", http.MethodPost, "/api/v1/jobs/job-1/activate", "", company, http.StatusUnprocessableEntity, "invalid status transition"},
		{"apply as company", http.MethodPost, "/api/v1/jobs/job-1/applications", `{}`, company, http.StatusForbidden, ""},
		{"duplicate application", http.MethodPost, "/api/v1/jobs/job-1/applications", `{}`, seeker, http.StatusConflict, "application already exists"},
		{"unexpected error", http.MethodGet, "/api/v1/categories", "", "", http.StatusInternalServerError, `"error":"internal server error"`},
		{"unknown route", http.MethodGet, "/api/v1/nothing", "", "", http.StatusNotFound, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.method, tc.target, tc.body, tc.bearer)
			assert.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			if tc.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestRouter_InternalErrorDoesNotLeak(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/api/v1/categories", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	readiness := map[string]handlers.Pinger{
		"postgres": handlers.PingFunc(func(context.Context) error { return nil }),
	}
	r := newTestRouter(t, readiness)

	rec := do(t, r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "postgres")

	// one request through the instrumented stack so the histogram has samples
	do(t, r, http.MethodGet, "/api/v1/jobs/job-1", "", "")
	rec = do(t, r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jobboard_http_requests_total")
}

func TestRouter_ReadinessDegraded(t *testing.T) {
	readiness := map[string]handlers.Pinger{
		"postgres": handlers.PingFunc(func(context.Context) error { return nil }),
		"redis":    handlers.PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
	}
	rec := do(t, newTestRouter(t, readiness), http.MethodGet, "/health/ready", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}
