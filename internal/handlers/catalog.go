package handlers

import (
	"net/http"
	"strconv"

	"github.com/GunarsK-portfolio/review-service/internal/policy"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"github.com/GunarsK-portfolio/review-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// CatalogHandler serves categories, genres and titles.
type CatalogHandler struct {
	catalog  service.CatalogService
	pageSize int
	log      hclog.Logger
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(catalog service.CatalogService, pageSize int, log hclog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, pageSize: pageSize, log: log}
}

// GroupRequest is the payload for a new category or genre. A missing slug
// is derived from the name.
type GroupRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"omitempty,max=50,slug"`
}

// TitleRequest is the payload for title writes. Genre and category are
// referenced by slug; an empty category clears it.
type TitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" binding:"omitempty,max=50"`
	Genre       *[]string `json:"genre"`
}

func (r TitleRequest) input() service.TitleInput {
	return service.TitleInput{
		Name:        r.Name,
		Year:        r.Year,
		Description: r.Description,
		Category:    r.Category,
		Genres:      r.Genre,
	}
}

// ============================================================================
// Categories
// ============================================================================

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param search query string false "Name or slug contains"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} PageResponse[GroupView]
// @Router /categories/ [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	page, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}

	categories, total, err := h.catalog.ListCategories(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, mapViews(categories, categoryView), total, page))
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body GroupRequest true "Category"
// @Success 201 {object} GroupView
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /categories/ [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	if !authorize(c, policy.ResourceCategory, nil) {
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), service.GroupInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, categoryView(*category))
}

// DeleteCategory godoc
// @Summary Delete a category; its titles keep existing without one
// @Tags categories
// @Security BearerAuth
// @Param slug path string true "Category slug"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /categories/{slug}/ [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if !authorize(c, policy.ResourceCategory, nil) {
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// Genres
// ============================================================================

// ListGenres godoc
// @Summary List genres
// @Tags genres
// @Produce json
// @Param search query string false "Name or slug contains"
// @Success 200 {object} PageResponse[GroupView]
// @Router /genres/ [get]
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	page, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}

	genres, total, err := h.catalog.ListGenres(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, mapViews(genres, genreView), total, page))
}

// CreateGenre godoc
// @Summary Create a genre
// @Tags genres
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body GroupRequest true "Genre"
// @Success 201 {object} GroupView
// @Router /genres/ [post]
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	if !authorize(c, policy.ResourceGenre, nil) {
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	genre, err := h.catalog.CreateGenre(c.Request.Context(), service.GroupInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, genreView(*genre))
}

// DeleteGenre godoc
// @Summary Delete a genre; titles only lose the association
// @Tags genres
// @Security BearerAuth
// @Param slug path string true "Genre slug"
// @Success 204
// @Router /genres/{slug}/ [delete]
func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	if !authorize(c, policy.ResourceGenre, nil) {
		return
	}

	if err := h.catalog.DeleteGenre(c.Request.Context(), c.Param("slug")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// Titles
// ============================================================================

// ListTitles godoc
// @Summary List titles
// @Tags titles
// @Produce json
// @Param genre query string false "Genre slug"
// @Param category query string false "Category slug"
// @Param name query string false "Name contains"
// @Param year query int false "Release year"
// @Success 200 {object} PageResponse[TitleReadView]
// @Router /titles/ [get]
func (h *CatalogHandler) ListTitles(c *gin.Context) {
	page, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}

	filter := repository.TitleFilter{
		Genre:    c.Query("genre"),
		Category: c.Query("category"),
		Name:     c.Query("name"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "year must be an integer")
			return
		}
		filter.Year = year
	}

	titles, total, err := h.catalog.ListTitles(c.Request.Context(), filter, page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, mapViews(titles, titleReadView), total, page))
}

// GetTitle godoc
// @Summary Get a title with its rating
// @Tags titles
// @Produce json
// @Param title_id path int true "Title ID"
// @Success 200 {object} TitleReadView
// @Failure 404 {object} ErrorResponse
// @Router /titles/{title_id}/ [get]
func (h *CatalogHandler) GetTitle(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.catalog.GetTitle(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, titleView(*title, policy.ActionRetrieve))
}

// CreateTitle godoc
// @Summary Create a title
// @Tags titles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body TitleRequest true "Title"
// @Success 201 {object} TitleWriteView
// @Failure 400 {object} ErrorResponse
// @Router /titles/ [post]
func (h *CatalogHandler) CreateTitle(c *gin.Context) {
	if !authorize(c, policy.ResourceTitle, nil) {
		return
	}

	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	title, err := h.catalog.CreateTitle(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, titleView(*title, policy.ActionCreate))
}

// UpdateTitle godoc
// @Summary Partially update a title
// @Tags titles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param title_id path int true "Title ID"
// @Param request body TitleRequest true "Fields to change"
// @Success 200 {object} TitleWriteView
// @Router /titles/{title_id}/ [patch]
func (h *CatalogHandler) UpdateTitle(c *gin.Context) {
	if !authorize(c, policy.ResourceTitle, nil) {
		return
	}
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	title, err := h.catalog.UpdateTitle(c.Request.Context(), id, req.input())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, titleView(*title, policy.ActionUpdate))
}

// DeleteTitle godoc
// @Summary Delete a title with its reviews and comments
// @Tags titles
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Success 204
// @Router /titles/{title_id}/ [delete]
func (h *CatalogHandler) DeleteTitle(c *gin.Context) {
	if !authorize(c, policy.ResourceTitle, nil) {
		return
	}
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteTitle(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
