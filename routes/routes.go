package routes

import (
	"net/http"
	"strings"

	"blogicum/controllers"
	"blogicum/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "blogicum/docs"
)

// Controllers bundles every handler set the route table needs.
type Controllers struct {
	Blog    *controllers.BlogController
	Post    *controllers.PostController
	Comment *controllers.CommentController
	Profile *controllers.ProfileController
	Auth    *controllers.AuthController
	Pages   *controllers.PagesController
	Admin   *controllers.AdminController
	User    *controllers.UserController
}

func SetupRoutes(r *gin.Engine, ctl Controllers, metrics *middleware.Metrics, mediaRoot string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/media", mediaRoot)

	r.GET("/", ctl.Blog.Index)
	r.GET("/category/:slug/", ctl.Blog.CategoryPosts)
	r.GET("/profile/:username/", ctl.Profile.Profile)

	posts := r.Group("/posts")
	{
		posts.GET("/:id/", ctl.Blog.PostDetail)

		authored := posts.Group("", middleware.LoginRequired())
		authored.GET("/create/", ctl.Post.CreateForm)
		authored.POST("/create/", ctl.Post.Create)
		authored.GET("/:id/edit/", ctl.Post.EditForm)
		authored.POST("/:id/edit/", ctl.Post.Edit)
		authored.GET("/:id/delete/", ctl.Post.DeleteForm)
		authored.POST("/:id/delete/", ctl.Post.Delete)

		authored.POST("/:id/comment/", ctl.Comment.Add)
		authored.GET("/:id/comment/:cid/edit/", ctl.Comment.EditForm)
		authored.POST("/:id/comment/:cid/edit/", ctl.Comment.Edit)
		authored.GET("/:id/comment/:cid/delete/", ctl.Comment.DeleteForm)
		authored.POST("/:id/comment/:cid/delete/", ctl.Comment.Delete)
	}

	profile := r.Group("/profile/edit", middleware.LoginRequired())
	{
		profile.GET("/", ctl.Profile.EditForm)
		profile.POST("/", ctl.Profile.Edit)
	}

	auth := r.Group("/auth")
	{
		auth.GET("/registration/", ctl.Auth.RegisterForm)
		auth.POST("/registration/", ctl.Auth.Register)
		auth.GET("/login/", ctl.Auth.LoginForm)
		auth.POST("/login/", ctl.Auth.Login)
		auth.POST("/logout/", ctl.Auth.Logout)
	}

	pages := r.Group("/pages")
	{
		pages.GET("/about/", ctl.Pages.About)
		pages.GET("/rules/", ctl.Pages.Rules)
	}

	api := r.Group("/api/v1")
	{
		apiAuth := api.Group("/auth")
		{
			apiAuth.POST("/login", ctl.Auth.APILogin)
			apiAuth.GET("/me", middleware.AuthRequired(), ctl.Auth.Me)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.StaffRequired())
		{
			admin.GET("/categories", ctl.Admin.ListCategories)
			admin.POST("/categories", ctl.Admin.CreateCategory)
			admin.PUT("/categories/:id", ctl.Admin.UpdateCategory)
			admin.DELETE("/categories/:id", ctl.Admin.DeleteCategory)

			admin.GET("/locations", ctl.Admin.ListLocations)
			admin.POST("/locations", ctl.Admin.CreateLocation)
			admin.PUT("/locations/:id", ctl.Admin.UpdateLocation)
			admin.DELETE("/locations/:id", ctl.Admin.DeleteLocation)

			admin.GET("/posts", ctl.Admin.ListPosts)
			admin.PATCH("/posts/:id", ctl.Admin.SetPostStatus)

			admin.GET("/users", ctl.User.GetUsers)
			admin.GET("/users/:id", ctl.User.GetUser)
			admin.DELETE("/users/:id", ctl.User.DeleteUser)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		ctl.Pages.NotFound(c)
	})
}
