package controllers

import (
	"errors"
	"net/http"
	"strings"

	"blogicum/config"
	"blogicum/forms"
	"blogicum/middleware"
	"blogicum/models"
	"blogicum/services"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgBadLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type AuthController struct {
	userService   *services.UserService
	jwt           *utils.JWTManager
	secureCookies bool
	log           *zap.Logger
}

func NewAuthController(db *gorm.DB, cfg *config.Config, jwt *utils.JWTManager, log *zap.Logger) *AuthController {
	return &AuthController{
		userService:   services.NewUserService(db),
		jwt:           jwt,
		secureCookies: cfg.SecureCookies,
		log:           log,
	}
}

// signIn issues a token and stores it in the session cookie.
func (ac *AuthController) signIn(c *gin.Context, user *models.User) error {
	token, err := ac.jwt.GenerateJWT(user.ID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(ac.jwt.TTL().Seconds()), "/", "", ac.secureCookies, true)
	return nil
}

// safeNext only follows local paths so the login form cannot be used as an
// open redirect.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}

func (ac *AuthController) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "registration.html", gin.H{"Form": forms.RegistrationForm{}})
}

func (ac *AuthController) Register(c *gin.Context) {
	var form forms.RegistrationForm
	var errs forms.Errors
	if err := c.ShouldBind(&form); err != nil {
		errs = forms.FromBindError(err)
	} else {
		errs = form.Validate()
	}

	if errs.Valid() {
		user, err := ac.userService.CreateUser(c.Request.Context(), &form)
		if err == nil {
			if err := ac.signIn(c, user); err != nil {
				serverError(c, ac.log, err)
				return
			}
			ac.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
			seeOther(c, "/")
			return
		}
		fieldErrs, ok := forms.AsErrors(err)
		if !ok {
			serverError(c, ac.log, err)
			return
		}
		errs = fieldErrs
	}

	form.Password1, form.Password2 = "", ""
	render(c, http.StatusOK, "registration.html", gin.H{"Form": form, "Errors": errs})
}

func (ac *AuthController) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Form": forms.LoginForm{Next: c.Query("next")},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var form forms.LoginForm
	var errs forms.Errors
	if err := c.ShouldBind(&form); err != nil {
		errs = forms.FromBindError(err)
	} else {
		errs = form.Validate()
	}

	if errs.Valid() {
		user, err := ac.userService.Authenticate(c.Request.Context(), form.Username, form.Password)
		switch {
		case err == nil:
			if err := ac.signIn(c, user); err != nil {
				serverError(c, ac.log, err)
				return
			}
			seeOther(c, safeNext(form.Next))
			return
		case errors.Is(err, services.ErrInvalidCredentials):
			errs.Add(forms.NonField, msgBadLogin)
		default:
			serverError(c, ac.log, err)
			return
		}
	}

	form.Password = ""
	render(c, http.StatusOK, "login.html", gin.H{"Form": form, "Errors": errs})
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", ac.secureCookies, true)
	seeOther(c, "/")
}

// APILogin exchanges credentials for a bearer token.
// @Summary Obtain a token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) APILogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, forms.FromBindError(err))
		return
	}

	user, err := ac.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
			return
		}
		internalError(c, ac.log, err)
		return
	}

	token, err := ac.jwt.GenerateJWT(user.ID)
	if err != nil {
		internalError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token, User: *user})
}

// Me returns the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DataResponse{data=models.User}
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, DataResponse{Data: middleware.User(c)})
}
