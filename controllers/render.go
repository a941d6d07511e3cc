package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"blogicum/forms"
	"blogicum/middleware"
	"blogicum/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// render fills in what every page needs (current user, csrf token, an error
// map) and writes the template.
func render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.User(c)
	data["CSRFToken"] = middleware.CSRFToken(c)
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	c.HTML(status, page, data)
}

func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", nil)
	c.Abort()
}

func serverError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("request failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
	_ = c.Error(err)
	render(c, http.StatusInternalServerError, "500.html", nil)
	c.Abort()
}

// fail renders the page matching a service error.
func fail(c *gin.Context, log *zap.Logger, err error) {
	if errors.Is(err, services.ErrNotFound) {
		notFound(c)
		return
	}
	serverError(c, log, err)
}

// seeOther is the redirect after a successful form submission.
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}
