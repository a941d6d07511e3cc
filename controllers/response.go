package controllers

import (
	"errors"
	"net/http"

	"blogicum/forms"
	"blogicum/middleware"
	"blogicum/pagination"
	"blogicum/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed API call. Fields is set for
// validation failures.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type DataResponse struct {
	Data interface{} `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

type PagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func paged[T any](c *gin.Context, page pagination.Page[T]) {
	c.JSON(http.StatusOK, PagedResponse{
		Data: page.Items,
		Pagination: Pagination{
			Total:       page.Total,
			CurrentPage: page.Number,
			TotalPage:   page.TotalPages,
			Size:        page.Size,
			HasNextPage: page.HasNext(),
		},
	})
}

func validationError(c *gin.Context, errs forms.Errors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: errs})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func notFoundJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
}

func internalError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("api request failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// apiFail maps a service error onto the JSON error responses.
func apiFail(c *gin.Context, log *zap.Logger, err error) {
	if errs, ok := forms.AsErrors(err); ok {
		validationError(c, errs)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		notFoundJSON(c)
		return
	}
	internalError(c, log, err)
}
