package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// CatalogHandler serves the read-only category and skill catalog.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type categoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

type categorySkillsResponse struct {
	CategoryID string         `json:"category_id"`
	Skills     []domain.Skill `json:"skills"`
}

// ListCategories handles GET /api/v1/categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: cats})
}

// GetCategory handles GET /api/v1/categories/:id.
//
// @Summary      Get a category
// @Tags         catalog
// @Produce      json
// @Param        id  path      string  true  "Category ID"
// @Success      200 {object}  domain.Category
// @Failure      404 {object}  errorResponse
// @Router       /api/v1/categories/{id} [get]
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	cat, err := h.service.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

// ListSkills handles GET /api/v1/categories/:id/skills.
//
// @Summary      List the skills of a category
// @Tags         catalog
// @Produce      json
// @Param        id  path      string  true  "Category ID"
// @Success      200 {object}  categorySkillsResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/v1/categories/{id}/skills [get]
func (h *CatalogHandler) ListSkills(c echo.Context) error {
	id := c.Param("id")
	skills, err := h.service.ListSkills(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categorySkillsResponse{CategoryID: id, Skills: skills})
}

// GetSkill handles GET /api/v1/categories/:id/skills/:skill_id.
//
// @Summary      Get a skill of a category
// @Tags         catalog
// @Produce      json
// @Param        id        path      string  true  "Category ID"
// @Param        skill_id  path      string  true  "Skill ID"
// @Success      200       {object}  domain.Skill
// @Failure      404       {object}  errorResponse
// @Router       /api/v1/categories/{id}/skills/{skill_id} [get]
func (h *CatalogHandler) GetSkill(c echo.Context) error {
	skill, err := h.service.GetSkill(c.Request().Context(), c.Param("skill_id"))
	if err != nil {
		return err
	}
	if skill.CategoryID != c.Param("id") {
		return fmt.Errorf("skill %s in category %s: %w", skill.ID, c.Param("id"), domain.ErrNotFound)
	}
	return c.JSON(http.StatusOK, skill)
}
