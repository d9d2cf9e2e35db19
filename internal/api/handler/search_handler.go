package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jobboard/jobboard-api/internal/api/metrics"
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/core/search"
)

// SearchHandler serves full-text job search and profile search.
type SearchHandler struct {
	service ports.SearchService
}

func NewSearchHandler(service ports.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

type jobSearchResponse struct {
	Jobs         []jobResponse               `json:"jobs"`
	Total        int64                       `json:"total"`
	Page         int                         `json:"page"`
	PerPage      int                         `json:"per_page"`
	Aggregations map[string]map[string]int64 `json:"aggregations"`
	Suggestions  []string                    `json:"suggestions"`
}

// Jobs handles GET /api/v1/search/jobs.
//
// @Summary      Full-text job search
// @Tags         search
// @Produce      json
// @Param        q                 query     string  false  "Search text"
// @Param        location          query     string  false  "Location substring"
// @Param        employment_type   query     string  false  "Employment type"
// @Param        remote            query     bool    false  "Remote flag"
// @Param        salary_min        query     int     false  "Lower bound on minimum salary"
// @Param        salary_max        query     int     false  "Upper bound on minimum salary"
// @Param        company_industry  query     string  false  "Industry"
// @Param        page              query     int     false  "Page (1-based)"
// @Param        per_page          query     int     false  "Page size"
// @Success      200               {object}  jobSearchResponse
// @Failure      400               {object}  errorResponse
// @Failure      422               {object}  errorResponse
// @Router       /api/v1/search/jobs [get]
func (h *SearchHandler) Jobs(c echo.Context) error {
	req, err := searchRequest(c)
	if err != nil {
		return err
	}

	timer := prometheus.NewTimer(metrics.SearchDuration)
	res, err := h.service.SearchJobs(c.Request().Context(), ctxActor(c), req)
	timer.ObserveDuration()
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(searchResult(err)).Inc()
		return err
	}
	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()

	aggs := res.Aggregations
	if aggs == nil {
		aggs = map[string]map[string]int64{}
	}
	return c.JSON(http.StatusOK, jobSearchResponse{
		Jobs:         toJobResponses(res.Jobs),
		Total:        res.Total,
		Page:         res.Page,
		PerPage:      res.PerPage,
		Aggregations: aggs,
		Suggestions:  res.Suggestions,
	})
}

func searchResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingQuery):
		return "missing_query"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

func searchRequest(c echo.Context) (search.Request, error) {
	var req search.Request
	err := echo.QueryParamsBinder(c).
		Int("page", &req.Page).
		Int("per_page", &req.PerPage).
		BindError()
	if err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "page and per_page must be integers")
	}
	if req.Filters.Remote, err = optionalBool(c, "remote"); err != nil {
		return req, err
	}
	if req.Filters.SalaryMin, err = optionalInt64(c, "salary_min"); err != nil {
		return req, err
	}
	if req.Filters.SalaryMax, err = optionalInt64(c, "salary_max"); err != nil {
		return req, err
	}
	req.Text = c.QueryParam("q")
	req.Filters.Location = c.QueryParam("location")
	req.Filters.EmploymentType = c.QueryParam("employment_type")
	req.Filters.CompanyIndustry = c.QueryParam("company_industry")
	return req, nil
}

// Companies handles GET /api/v1/search/companies.
//
// @Summary      Search companies
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        q         query     string  false  "Name or description substring"
// @Param        industry  query     string  false  "Industry"
// @Param        size      query     string  false  "Company size"
// @Success      200       {object}  companyListResponse
// @Router       /api/v1/search/companies [get]
func (h *SearchHandler) Companies(c echo.Context) error {
	filter, err := companyFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.SearchCompanies(c.Request().Context(), ctxActor(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companyListResponse{Companies: page.Items, Meta: metaOf(page)})
}

// JobSeekers handles GET /api/v1/search/job_seekers.
//
// @Summary      Search job seekers
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        q                 query     string  false  "Name or bio substring"
// @Param        location          query     string  false  "Location substring"
// @Param        experience_years  query     int     false  "Minimum years of experience"
// @Param        skill_ids         query     string  false  "Comma separated skill ids, any of"
// @Success      200               {object}  jobSeekerListResponse
// @Router       /api/v1/search/job_seekers [get]
func (h *SearchHandler) JobSeekers(c echo.Context) error {
	filter, err := jobSeekerFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.SearchJobSeekers(c.Request().Context(), ctxActor(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobSeekerListResponse{JobSeekers: page.Items, Meta: metaOf(page)})
}
