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

// BlogController serves the public reading pages.
type BlogController struct {
	postService     *services.PostService
	commentService  *services.CommentService
	categoryService *services.CategoryService
	perPage         int
	log             *zap.Logger
}

func NewBlogController(db *gorm.DB, cfg *config.Config, log *zap.Logger) *BlogController {
	return &BlogController{
		postService:     services.NewPostService(db),
		commentService:  services.NewCommentService(db),
		categoryService: services.NewCategoryService(db),
		perPage:         cfg.PostsPerPage,
		log:             log,
	}
}

func (bc *BlogController) Index(c *gin.Context) {
	page, err := bc.postService.ListPublished(c.Request.Context(), pagination.ParsePage(c.Query("page")), bc.perPage)
	if err != nil {
		serverError(c, bc.log, err)
		return
	}
	render(c, http.StatusOK, "index.html", gin.H{"Page": page})
}

func (bc *BlogController) PostDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c)
		return
	}

	userID := middleware.UserID(c)
	post, err := bc.postService.GetVisible(c.Request.Context(), id, userID)
	if err != nil {
		fail(c, bc.log, err)
		return
	}

	comments, err := bc.commentService.ListForPost(c.Request.Context(), post.ID)
	if err != nil {
		serverError(c, bc.log, err)
		return
	}

	render(c, http.StatusOK, "detail.html", gin.H{
		"Post":        post,
		"Comments":    comments,
		"CommentForm": forms.CommentForm{},
		"CanEdit":     post.IsAuthor(userID),
	})
}

func (bc *BlogController) CategoryPosts(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := bc.categoryService.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		fail(c, bc.log, err)
		return
	}

	page, err := bc.postService.ListByCategory(ctx, category.ID, pagination.ParsePage(c.Query("page")), bc.perPage)
	if err != nil {
		serverError(c, bc.log, err)
		return
	}

	render(c, http.StatusOK, "category.html", gin.H{
		"Category": category,
		"Page":     page,
	})
}
