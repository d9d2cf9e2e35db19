package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// ApplicationHandler handles HTTP requests for job applications.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Apply handles POST /api/v1/jobs/:id/applications.
//
// @Summary      Apply to a job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Job ID"
// @Param        body  body      applyRequest  false "Cover letter"
// @Success      201   {object}  applicationResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/jobs/{id}/applications [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	var req applyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.service.Apply(c.Request().Context(), ctxActor(c), c.Param("id"), req.CoverLetter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toApplicationResponse(*view))
}

// List handles GET /api/v1/job_applications.
//
// @Summary      List applications visible to the caller
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        job_id         query     string  false  "Job filter"
// @Param        job_seeker_id  query     string  false  "Applicant filter"
// @Param        status         query     string  false  "Status filter"
// @Param        recent         query     bool    false  "Applied within the last days"
// @Param        page           query     int     false  "Page (1-based)"
// @Param        per_page       query     int     false  "Page size"
// @Success      200            {object}  applicationListResponse
// @Failure      422            {object}  errorResponse
// @Router       /api/v1/job_applications [get]
func (h *ApplicationHandler) List(c echo.Context) error {
	return h.list(c, func(in *ports.ApplicationListInput) {
		in.JobID = c.QueryParam("job_id")
		in.JobSeekerID = c.QueryParam("job_seeker_id")
		in.CompanyID = c.QueryParam("company_id")
	})
}

// ListForJob handles GET /api/v1/jobs/:id/applications.
//
// @Summary      List a job's applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job ID"
// @Success      200 {object}  applicationListResponse
// @Router       /api/v1/jobs/{id}/applications [get]
func (h *ApplicationHandler) ListForJob(c echo.Context) error {
	return h.list(c, func(in *ports.ApplicationListInput) { in.JobID = c.Param("id") })
}

// ListForCompany handles GET /api/v1/companies/:id/applications.
//
// @Summary      List applications to a company's jobs
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Company ID"
// @Success      200 {object}  applicationListResponse
// @Router       /api/v1/companies/{id}/applications [get]
func (h *ApplicationHandler) ListForCompany(c echo.Context) error {
	return h.list(c, func(in *ports.ApplicationListInput) { in.CompanyID = c.Param("id") })
}

// ListForJobSeeker handles GET /api/v1/job_seekers/:id/applications.
//
// @Summary      List a job seeker's applications
// @Tags         job_seekers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job seeker ID"
// @Success      200 {object}  applicationListResponse
// @Router       /api/v1/job_seekers/{id}/applications [get]
func (h *ApplicationHandler) ListForJobSeeker(c echo.Context) error {
	return h.list(c, func(in *ports.ApplicationListInput) { in.JobSeekerID = c.Param("id") })
}

func (h *ApplicationHandler) list(c echo.Context, scope func(*ports.ApplicationListInput)) error {
	p, err := pagination(c)
	if err != nil {
		return err
	}
	recent, err := optionalBool(c, "recent")
	if err != nil {
		return err
	}
	in := ports.ApplicationListInput{
		Status:     c.QueryParam("status"),
		Recent:     recent != nil && *recent,
		Pagination: p,
	}
	scope(&in)

	page, err := h.service.ListApplications(c.Request().Context(), ctxActor(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationList(page))
}

// Get handles GET /api/v1/job_applications/:id.
//
// @Summary      Get an application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Application ID"
// @Success      200 {object}  applicationResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/v1/job_applications/{id} [get]
func (h *ApplicationHandler) Get(c echo.Context) error {
	view, err := h.service.GetApplication(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(*view))
}

// Update handles PATCH /api/v1/job_applications/:id.
//
// @Summary      Update cover letter or status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Application ID"
// @Param        body  body      updateApplicationRequest  true  "Fields to change"
// @Success      200   {object}  applicationResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/job_applications/{id} [patch]
func (h *ApplicationHandler) Update(c echo.Context) error {
	var req updateApplicationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.service.UpdateApplication(c.Request().Context(), ctxActor(c), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(*view))
}

// UpdateStatus handles PATCH /api/v1/job_applications/:id/update_status.
//
// @Summary      Move an application through the hiring pipeline
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Application ID"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  applicationResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/job_applications/{id}/update_status [patch]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	status := domain.ApplicationStatus(req.Status)
	view, err := h.service.UpdateApplication(c.Request().Context(), ctxActor(c), c.Param("id"), ports.ApplicationPatch{Status: &status})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(*view))
}

// Withdraw handles POST /api/v1/job_applications/:id/withdraw.
//
// @Summary      Withdraw an application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Application ID"
// @Success      200 {object}  applicationResponse
// @Failure      403 {object}  errorResponse
// @Failure      422 {object}  errorResponse
// @Router       /api/v1/job_applications/{id}/withdraw [post]
func (h *ApplicationHandler) Withdraw(c echo.Context) error {
	view, err := h.service.Withdraw(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(*view))
}

// Delete handles DELETE /api/v1/job_applications/:id. Applications are never
// removed; deleting one withdraws it.
//
// @Summary      Withdraw an application
// @Tags         applications
// @Security     BearerAuth
// @Param        id  path  string  true  "Application ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/v1/job_applications/{id} [delete]
func (h *ApplicationHandler) Delete(c echo.Context) error {
	if _, err := h.service.Withdraw(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// History handles GET /api/v1/job_applications/:id/history.
//
// @Summary      Status history of an application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Application ID"
// @Success      200 {object}  historyResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/v1/job_applications/{id}/history [get]
func (h *ApplicationHandler) History(c echo.Context) error {
	id := c.Param("id")
	changes, err := h.service.History(c.Request().Context(), ctxActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, historyResponse{ApplicationID: id, History: changes})
}
