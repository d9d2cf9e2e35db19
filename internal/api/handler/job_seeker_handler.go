package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// JobSeekerHandler serves job seeker profiles and their skills.
type JobSeekerHandler struct {
	profiles ports.ProfileService
	search   ports.SearchService
}

func NewJobSeekerHandler(profiles ports.ProfileService, search ports.SearchService) *JobSeekerHandler {
	return &JobSeekerHandler{profiles: profiles, search: search}
}

// List handles GET /api/v1/job_seekers.
//
// @Summary      List job seekers
// @Tags         job_seekers
// @Produce      json
// @Security     BearerAuth
// @Param        q                 query     string  false  "Name or bio substring"
// @Param        location          query     string  false  "Location substring"
// @Param        experience_years  query     int     false  "Minimum years of experience"
// @Param        skill_ids         query     string  false  "Comma separated skill ids, any of"
// @Success      200               {object}  jobSeekerListResponse
// @Router       /api/v1/job_seekers [get]
func (h *JobSeekerHandler) List(c echo.Context) error {
	filter, err := jobSeekerFilter(c)
	if err != nil {
		return err
	}
	page, err := h.search.SearchJobSeekers(c.Request().Context(), ctxActor(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobSeekerListResponse{JobSeekers: page.Items, Meta: metaOf(page)})
}

func jobSeekerFilter(c echo.Context) (ports.JobSeekerFilter, error) {
	p, err := pagination(c)
	if err != nil {
		return ports.JobSeekerFilter{}, err
	}
	minExp, err := optionalInt(c, "experience_years")
	if err != nil {
		return ports.JobSeekerFilter{}, err
	}
	return ports.JobSeekerFilter{
		Query:         c.QueryParam("q"),
		Location:      c.QueryParam("location"),
		MinExperience: minExp,
		SkillIDs:      splitList(c, "skill_ids"),
		Pagination:    p,
	}, nil
}

// Get handles GET /api/v1/job_seekers/:id.
//
// @Summary      Get a job seeker with counters and profile completion
// @Tags         job_seekers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job seeker ID"
// @Success      200 {object}  jobSeekerResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/v1/job_seekers/{id} [get]
func (h *JobSeekerHandler) Get(c echo.Context) error {
	view, err := h.profiles.GetJobSeeker(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobSeekerResponse(view))
}

// Update handles PATCH /api/v1/job_seekers/:id.
//
// @Summary      Update a job seeker profile
// @Tags         job_seekers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Job seeker ID"
// @Param        body  body      jobSeekerProfileRequest  true  "Fields to change"
// @Success      200   {object}  jobSeekerResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/job_seekers/{id} [patch]
func (h *JobSeekerHandler) Update(c echo.Context) error {
	var req jobSeekerProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.profiles.UpdateJobSeeker(c.Request().Context(), ctxActor(c), c.Param("id"), *req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobSeekerResponse(view))
}

// Skills handles GET /api/v1/job_seekers/:id/skills.
//
// @Summary      List a job seeker's skills
// @Tags         job_seekers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Job seeker ID"
// @Success      200 {object}  skillsResponse
// @Router       /api/v1/job_seekers/{id}/skills [get]
func (h *JobSeekerHandler) Skills(c echo.Context) error {
	skills, err := h.profiles.ListSkills(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, skillsResponse{Skills: skills})
}

// AddSkill handles POST /api/v1/job_seekers/:id/skills. Adding a skill the
// seeker already has updates its proficiency.
//
// @Summary      Add a skill
// @Tags         job_seekers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Job seeker ID"
// @Param        body  body      addSkillRequest  true  "Skill and proficiency"
// @Success      201   {object}  domain.JobSeekerSkill
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/job_seekers/{id}/skills [post]
func (h *JobSeekerHandler) AddSkill(c echo.Context) error {
	var req addSkillRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	link, err := h.profiles.AddSkill(c.Request().Context(), ctxActor(c), c.Param("id"), req.SkillID, domain.Proficiency(req.ProficiencyLevel))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, link)
}

// RemoveSkill handles DELETE /api/v1/job_seekers/:id/skills/:skill_id.
//
// @Summary      Remove a skill
// @Tags         job_seekers
// @Security     BearerAuth
// @Param        id        path  string  true  "Job seeker ID"
// @Param        skill_id  path  string  true  "Skill ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/job_seekers/{id}/skills/{skill_id} [delete]
func (h *JobSeekerHandler) RemoveSkill(c echo.Context) error {
	if err := h.profiles.RemoveSkill(c.Request().Context(), ctxActor(c), c.Param("id"), c.Param("skill_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
