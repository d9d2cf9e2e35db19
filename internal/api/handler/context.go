package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/api/middleware"
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// ctxActor builds the acting principal from the claims injected by the Auth
// or OptionalAuth middleware. A request without claims is Anonymous.
func ctxActor(c echo.Context) policy.Actor {
	userID, _ := c.Get(middleware.KeyUserID).(string)
	role, _ := c.Get(middleware.KeyRole).(string)
	companyID, _ := c.Get(middleware.KeyCompanyID).(string)
	jobSeekerID, _ := c.Get(middleware.KeyJobSeekerID).(string)
	return policy.FromClaims(domain.Role(role), userID, companyID, jobSeekerID)
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

func pagination(c echo.Context) (ports.Pagination, error) {
	var p ports.Pagination
	err := echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("per_page", &p.PerPage).
		BindError()
	if err != nil {
		return p, echo.NewHTTPError(http.StatusBadRequest, "page and per_page must be integers")
	}
	return p.Normalize(), nil
}

// optionalBool parses "true"/"false"; absence yields nil.
func optionalBool(c echo.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be true or false")
	}
	return &v, nil
}

func optionalInt64(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return &v, nil
}

func optionalInt(c echo.Context, name string) (*int, error) {
	v, err := optionalInt64(c, name)
	if err != nil || v == nil {
		return nil, err
	}
	n := int(*v)
	return &n, nil
}

// splitList reads a comma separated query value, also accepting repeated keys.
func splitList(c echo.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryParams()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// pageMeta is the pagination block of every list response.
type pageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
}

func metaOf[T any](p ports.Page[T]) pageMeta {
	return pageMeta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		TotalPages:  p.TotalPages,
		TotalCount:  p.Total,
	}
}
