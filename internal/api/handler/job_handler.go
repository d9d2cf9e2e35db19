package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// JobHandler handles HTTP requests for job postings.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// List handles GET /api/v1/jobs.
//
// @Summary      List jobs visible to the caller
// @Tags         jobs
// @Produce      json
// @Param        active_only      query     bool    false  "Only active jobs"
// @Param        location         query     string  false  "Location substring"
// @Param        employment_type  query     string  false  "full_time, part_time, contract, freelance or internship"
// @Param        remote           query     bool    false  "Remote flag"
// @Param        salary_min       query     int     false  "Lower salary bound"
// @Param        salary_max       query     int     false  "Upper salary bound"
// @Param        search           query     string  false  "Title or description substring"
// @Param        page             query     int     false  "Page (1-based)"
// @Param        per_page         query     int     false  "Page size"
// @Success      200              {object}  jobListResponse
// @Router       /api/v1/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	in, err := jobListInput(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListJobs(c.Request().Context(), ctxActor(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobListResponse{Jobs: toJobResponses(page.Items), Meta: metaOf(page)})
}

// ListForCompany handles GET /api/v1/companies/:id/jobs.
//
// @Summary      List a company's jobs
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Company ID"
// @Success      200 {object}  jobListResponse
// @Router       /api/v1/companies/{id}/jobs [get]
func (h *JobHandler) ListForCompany(c echo.Context) error {
	in, err := jobListInput(c)
	if err != nil {
		return err
	}
	in.CompanyID = c.Param("id")
	page, err := h.service.ListJobs(c.Request().Context(), ctxActor(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobListResponse{Jobs: toJobResponses(page.Items), Meta: metaOf(page)})
}

func jobListInput(c echo.Context) (ports.JobListInput, error) {
	p, err := pagination(c)
	if err != nil {
		return ports.JobListInput{}, err
	}
	activeOnly, err := optionalBool(c, "active_only")
	if err != nil {
		return ports.JobListInput{}, err
	}
	remote, err := optionalBool(c, "remote")
	if err != nil {
		return ports.JobListInput{}, err
	}
	salaryMin, err := optionalInt64(c, "salary_min")
	if err != nil {
		return ports.JobListInput{}, err
	}
	salaryMax, err := optionalInt64(c, "salary_max")
	if err != nil {
		return ports.JobListInput{}, err
	}
	return ports.JobListInput{
		ActiveOnly:     activeOnly != nil && *activeOnly,
		Location:       c.QueryParam("location"),
		EmploymentType: c.QueryParam("employment_type"),
		Remote:         remote,
		SalaryMin:      salaryMin,
		SalaryMax:      salaryMax,
		Search:         c.QueryParam("search"),
		Pagination:     p,
	}, nil
}

// Get handles GET /api/v1/jobs/:id.
//
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  jobResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	view, err := h.service.GetJob(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(*view))
}

// Create handles POST /api/v1/jobs. New jobs start as drafts.
//
// @Summary      Create a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createJobRequest  true  "Job details"
// @Success      201   {object}  jobResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	var req createJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.service.CreateJob(c.Request().Context(), ctxActor(c), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toJobResponse(*view))
}

// Update handles PATCH /api/v1/jobs/:id. A status in the body goes through
// the job status machine after the field update.
//
// @Summary      Update a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Job ID"
// @Param        body  body      updateJobRequest  true  "Fields to change"
// @Success      200   {object}  jobResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/jobs/{id} [patch]
func (h *JobHandler) Update(c echo.Context) error {
	var req updateJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.service.UpdateJob(c.Request().Context(), ctxActor(c), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(*view))
}

// Delete handles DELETE /api/v1/jobs/:id.
//
// @Summary      Delete a job with its applications
// @Tags         jobs
// @Security     BearerAuth
// @Param        id  path  string  true  "Job ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/jobs/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteJob(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Activate handles POST /api/v1/jobs/:id/activate.
//
// @Summary      Publish a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job ID"
// @Success      200 {object}  jobResponse
// @Failure      422 {object}  errorResponse
// @Router       /api/v1/jobs/{id}/activate [post]
func (h *JobHandler) Activate(c echo.Context) error {
	return h.changeStatus(c, domain.JobActive)
}

// Pause handles POST /api/v1/jobs/:id/pause.
//
// @Summary      Pause a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job ID"
// @Success      200 {object}  jobResponse
// @Failure      422 {object}  errorResponse
// @Router       /api/v1/jobs/{id}/pause [post]
func (h *JobHandler) Pause(c echo.Context) error {
	return h.changeStatus(c, domain.JobPaused)
}

// Close handles POST /api/v1/jobs/:id/close.
//
// @Summary      Close a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job ID"
// @Success      200 {object}  jobResponse
// @Failure      422 {object}  errorResponse
// @Router       /api/v1/jobs/{id}/close [post]
func (h *JobHandler) Close(c echo.Context) error {
	return h.changeStatus(c, domain.JobClosed)
}

func (h *JobHandler) changeStatus(c echo.Context, status domain.JobStatus) error {
	view, err := h.service.ChangeJobStatus(c.Request().Context(), ctxActor(c), c.Param("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(*view))
}

// CanApply handles GET /api/v1/jobs/:id/can_apply.
//
// @Summary      Whether the caller may apply to the job now
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job ID"
// @Success      200 {object}  canApplyResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/v1/jobs/{id}/can_apply [get]
func (h *JobHandler) CanApply(c echo.Context) error {
	id := c.Param("id")
	ok, err := h.service.CanApply(c.Request().Context(), ctxActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, canApplyResponse{JobID: id, CanApply: ok})
}
