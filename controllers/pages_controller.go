package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesController serves the static pages and the error pages.
type PagesController struct{}

func NewPagesController() *PagesController {
	return &PagesController{}
}

func (pc *PagesController) About(c *gin.Context) {
	render(c, http.StatusOK, "about.html", nil)
}

func (pc *PagesController) Rules(c *gin.Context) {
	render(c, http.StatusOK, "rules.html", nil)
}

func (pc *PagesController) NotFound(c *gin.Context) {
	notFound(c)
}

func (pc *PagesController) Forbidden(c *gin.Context) {
	render(c, http.StatusForbidden, "403.html", nil)
}

func (pc *PagesController) RequestTooLarge(c *gin.Context) {
	render(c, http.StatusRequestEntityTooLarge, "413.html", nil)
}

func (pc *PagesController) ServerError(c *gin.Context) {
	render(c, http.StatusInternalServerError, "500.html", nil)
}
