package controllers

import (
	"net/http"

	"blogicum/middleware"
	"blogicum/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserController struct {
	userService *services.UserService
	log         *zap.Logger
}

func NewUserController(db *gorm.DB, log *zap.Logger) *UserController {
	return &UserController{
		userService: services.NewUserService(db),
		log:         log,
	}
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DataResponse{data=[]models.User}
// @Router /admin/users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		internalError(c, uc.log, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: users})
}

// @Summary Get a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} DataResponse{data=models.User}
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := uc.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		apiFail(c, uc.log, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: user})
}

// @Summary Delete a user
// @Description Removes the user's posts and every comment by them or under their posts.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [delete]
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if id == middleware.UserID(c) {
		badRequest(c, "You cannot delete your own account")
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), id); err != nil {
		apiFail(c, uc.log, err)
		return
	}

	uc.log.Info("user deleted", zap.Uint("user_id", id), zap.Uint("by", middleware.UserID(c)))
	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}
