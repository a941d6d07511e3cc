package controllers

import (
	"net/http"
	"strconv"

	"blogicum/config"
	"blogicum/forms"
	"blogicum/models"
	"blogicum/pagination"
	"blogicum/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminController is the staff-only management API for categories,
// locations and posts.
type AdminController struct {
	categoryService *services.CategoryService
	locationService *services.LocationService
	postService     *services.PostService
	pageSize        int
	log             *zap.Logger
}

func NewAdminController(db *gorm.DB, cfg *config.Config, log *zap.Logger) *AdminController {
	return &AdminController{
		categoryService: services.NewCategoryService(db),
		locationService: services.NewLocationService(db),
		postService:     services.NewPostService(db),
		pageSize:        cfg.AdminPageSize,
		log:             log,
	}
}

func idParam(c *gin.Context) (uint, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		badRequest(c, "Invalid ID")
	}
	return id, ok
}

// @Summary List categories
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DataResponse{data=[]models.Category}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/categories [get]
func (ac *AdminController) ListCategories(c *gin.Context) {
	cats, err := ac.categoryService.List(c.Request.Context())
	if err != nil {
		internalError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: cats})
}

// @Summary Create a category
// @Description A blank slug is derived from the title.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body models.CreateCategoryRequest true "Category"
// @Success 201 {object} DataResponse{data=models.Category}
// @Failure 400 {object} ErrorResponse
// @Router /admin/categories [post]
func (ac *AdminController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, forms.FromBindError(err))
		return
	}

	cat, err := ac.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		apiFail(c, ac.log, err)
		return
	}
	c.JSON(http.StatusCreated, DataResponse{Data: cat})
}

// @Summary Update a category
// @Description An empty slug is derived again from the title.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param category body models.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} DataResponse{data=models.Category}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/categories/{id} [put]
func (ac *AdminController) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, forms.FromBindError(err))
		return
	}

	cat, err := ac.categoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		apiFail(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: cat})
}

// @Summary Delete a category
// @Description Posts in the category keep existing without one.
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /admin/categories/{id} [delete]
func (ac *AdminController) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ac.categoryService.Delete(c.Request.Context(), id); err != nil {
		apiFail(c, ac.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List locations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DataResponse{data=[]models.Location}
// @Router /admin/locations [get]
func (ac *AdminController) ListLocations(c *gin.Context) {
	locs, err := ac.locationService.List(c.Request.Context())
	if err != nil {
		internalError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: locs})
}

// @Summary Create a location
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param location body models.CreateLocationRequest true "Location"
// @Success 201 {object} DataResponse{data=models.Location}
// @Failure 400 {object} ErrorResponse
// @Router /admin/locations [post]
func (ac *AdminController) CreateLocation(c *gin.Context) {
	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, forms.FromBindError(err))
		return
	}

	loc, err := ac.locationService.Create(c.Request.Context(), &req)
	if err != nil {
		apiFail(c, ac.log, err)
		return
	}
	c.JSON(http.StatusCreated, DataResponse{Data: loc})
}

// @Summary Update a location
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Param location body models.UpdateLocationRequest true "Fields to change"
// @Success 200 {object} DataResponse{data=models.Location}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/locations/{id} [put]
func (ac *AdminController) UpdateLocation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, forms.FromBindError(err))
		return
	}

	loc, err := ac.locationService.Update(c.Request.Context(), id, &req)
	if err != nil {
		apiFail(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: loc})
}

// @Summary Delete a location
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /admin/locations/{id} [delete]
func (ac *AdminController) DeleteLocation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ac.locationService.Delete(c.Request.Context(), id); err != nil {
		apiFail(c, ac.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// @Summary List posts
// @Description Every post regardless of visibility, newest first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param category query int false "Category ID"
// @Param location query int false "Location ID"
// @Param search query string false "Title contains"
// @Param page query int false "Page number"
// @Success 200 {object} PagedResponse{data=[]models.Post}
// @Failure 400 {object} ErrorResponse
// @Router /admin/posts [get]
func (ac *AdminController) ListPosts(c *gin.Context) {
	var filter services.AdminFilter
	var ok bool
	if filter.CategoryID, ok = queryID(c, "category"); !ok {
		badRequest(c, "Invalid category")
		return
	}
	if filter.LocationID, ok = queryID(c, "location"); !ok {
		badRequest(c, "Invalid location")
		return
	}
	filter.Search = c.Query("search")

	page, err := ac.postService.ListAdmin(c.Request.Context(), filter, pagination.ParsePage(c.Query("page")), ac.pageSize)
	if err != nil {
		internalError(c, ac.log, err)
		return
	}
	paged(c, page)
}

// @Summary Publish or hide a post
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param status body models.UpdatePostStatusRequest true "Publication flag"
// @Success 200 {object} DataResponse{data=models.Post}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/posts/{id} [patch]
func (ac *AdminController) SetPostStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.UpdatePostStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, forms.FromBindError(err))
		return
	}

	post, err := ac.postService.SetPublished(c.Request.Context(), id, *req.IsPublished)
	if err != nil {
		apiFail(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: post})
}
