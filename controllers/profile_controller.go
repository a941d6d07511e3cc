package controllers

import (
	"net/http"

	"blogicum/config"
	"blogicum/forms"
	"blogicum/middleware"
	"blogicum/pagination"
	"blogicum/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileController struct {
	userService *services.UserService
	postService *services.PostService
	perPage     int
	log         *zap.Logger
}

func NewProfileController(db *gorm.DB, cfg *config.Config, log *zap.Logger) *ProfileController {
	return &ProfileController{
		userService: services.NewUserService(db),
		postService: services.NewPostService(db),
		perPage:     cfg.PostsPerPage,
		log:         log,
	}
}

// Profile lists a user's posts: all of them for the owner, the public
// subset for everyone else.
func (pc *ProfileController) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := pc.userService.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		fail(c, pc.log, err)
		return
	}

	isOwner := middleware.UserID(c) == profile.ID
	page, err := pc.postService.ListByAuthor(ctx, profile.ID, isOwner, pagination.ParsePage(c.Query("page")), pc.perPage)
	if err != nil {
		serverError(c, pc.log, err)
		return
	}

	render(c, http.StatusOK, "profile.html", gin.H{
		"Profile": profile,
		"IsOwner": isOwner,
		"Page":    page,
	})
}

func (pc *ProfileController) EditForm(c *gin.Context) {
	render(c, http.StatusOK, "profile_edit.html", gin.H{
		"Form": forms.ProfileFormFrom(middleware.User(c)),
	})
}

func (pc *ProfileController) Edit(c *gin.Context) {
	user := middleware.User(c)

	var form forms.ProfileForm
	var errs forms.Errors
	if err := c.ShouldBind(&form); err != nil {
		errs = forms.FromBindError(err)
	} else {
		errs = form.Validate()
	}

	if errs.Valid() {
		err := pc.userService.UpdateProfile(c.Request.Context(), user, &form)
		if err == nil {
			seeOther(c, profileURL(user.Username))
			return
		}
		fieldErrs, ok := forms.AsErrors(err)
		if !ok {
			serverError(c, pc.log, err)
			return
		}
		errs = fieldErrs
	}

	render(c, http.StatusOK, "profile_edit.html", gin.H{
		"Form":   form,
		"Errors": errs,
	})
}
