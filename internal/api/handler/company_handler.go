package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// CompanyHandler serves company profiles.
type CompanyHandler struct {
	profiles ports.ProfileService
	search   ports.SearchService
}

func NewCompanyHandler(profiles ports.ProfileService, search ports.SearchService) *CompanyHandler {
	return &CompanyHandler{profiles: profiles, search: search}
}

// List handles GET /api/v1/companies.
//
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        q         query     string  false  "Name or description substring"
// @Param        industry  query     string  false  "Industry"
// @Param        size      query     string  false  "Company size"
// @Success      200       {object}  companyListResponse
// @Router       /api/v1/companies [get]
func (h *CompanyHandler) List(c echo.Context) error {
	filter, err := companyFilter(c)
	if err != nil {
		return err
	}
	page, err := h.search.SearchCompanies(c.Request().Context(), ctxActor(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companyListResponse{Companies: page.Items, Meta: metaOf(page)})
}

func companyFilter(c echo.Context) (ports.CompanyFilter, error) {
	p, err := pagination(c)
	if err != nil {
		return ports.CompanyFilter{}, err
	}
	return ports.CompanyFilter{
		Query:      c.QueryParam("q"),
		Industry:   c.QueryParam("industry"),
		Size:       c.QueryParam("size"),
		Pagination: p,
	}, nil
}

// Get handles GET /api/v1/companies/:id.
//
// @Summary      Get a company with its counters
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Company ID"
// @Success      200 {object}  companyResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/v1/companies/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	view, err := h.profiles.GetCompany(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponse(view))
}

// Update handles PATCH /api/v1/companies/:id.
//
// @Summary      Update a company profile
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Company ID"
// @Param        body  body      companyProfileRequest  true  "Fields to change"
// @Success      200   {object}  companyResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/companies/{id} [patch]
func (h *CompanyHandler) Update(c echo.Context) error {
	var req companyProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.profiles.UpdateCompany(c.Request().Context(), ctxActor(c), c.Param("id"), *req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponse(view))
}
