package controllers

import (
	"net/http"

	"blogicum/forms"
	"blogicum/middleware"
	"blogicum/models"
	"blogicum/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentController struct {
	postService    *services.PostService
	commentService *services.CommentService
	log            *zap.Logger
}

func NewCommentController(db *gorm.DB, log *zap.Logger) *CommentController {
	return &CommentController{
		postService:    services.NewPostService(db),
		commentService: services.NewCommentService(db),
		log:            log,
	}
}

// Add is POST only. An invalid comment re-renders the post page with the
// error next to the comment box.
func (cc *CommentController) Add(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c)
		return
	}

	ctx := c.Request.Context()
	user := middleware.User(c)

	post, err := cc.postService.GetVisible(ctx, id, user.ID)
	if err != nil {
		fail(c, cc.log, err)
		return
	}

	var form forms.CommentForm
	errs := bindComment(c, &form)
	if errs.Valid() {
		if _, err := cc.commentService.Create(ctx, post.ID, user.ID, &form); err != nil {
			fail(c, cc.log, err)
			return
		}
		seeOther(c, post.URL())
		return
	}

	comments, err := cc.commentService.ListForPost(ctx, post.ID)
	if err != nil {
		serverError(c, cc.log, err)
		return
	}
	render(c, http.StatusOK, "detail.html", gin.H{
		"Post":        post,
		"Comments":    comments,
		"CommentForm": form,
		"Errors":      errs,
		"CanEdit":     post.IsAuthor(user.ID),
	})
}

func bindComment(c *gin.Context, form *forms.CommentForm) forms.Errors {
	if err := c.ShouldBind(form); err != nil {
		return forms.FromBindError(err)
	}
	return form.Validate()
}

// ownedComment resolves the comment in the path for its author. For anyone
// else it does not exist.
func (cc *CommentController) ownedComment(c *gin.Context) (*models.Post, *models.Comment, bool) {
	postID, ok := paramID(c, "id")
	if !ok {
		notFound(c)
		return nil, nil, false
	}
	commentID, ok := paramID(c, "cid")
	if !ok {
		notFound(c)
		return nil, nil, false
	}

	ctx := c.Request.Context()
	comment, err := cc.commentService.GetOwned(ctx, postID, commentID, middleware.UserID(c))
	if err != nil {
		fail(c, cc.log, err)
		return nil, nil, false
	}
	post, err := cc.postService.Get(ctx, postID)
	if err != nil {
		fail(c, cc.log, err)
		return nil, nil, false
	}
	return post, comment, true
}

func (cc *CommentController) EditForm(c *gin.Context) {
	post, comment, ok := cc.ownedComment(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "comment_form.html", gin.H{
		"Post":    post,
		"Comment": comment,
		"Form":    forms.CommentForm{Text: comment.Text},
	})
}

func (cc *CommentController) Edit(c *gin.Context) {
	post, comment, ok := cc.ownedComment(c)
	if !ok {
		return
	}

	var form forms.CommentForm
	if errs := bindComment(c, &form); !errs.Valid() {
		render(c, http.StatusOK, "comment_form.html", gin.H{
			"Post":    post,
			"Comment": comment,
			"Form":    form,
			"Errors":  errs,
		})
		return
	}

	if err := cc.commentService.Update(c.Request.Context(), comment, &form); err != nil {
		serverError(c, cc.log, err)
		return
	}
	seeOther(c, post.URL())
}

func (cc *CommentController) DeleteForm(c *gin.Context) {
	post, comment, ok := cc.ownedComment(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "comment_delete.html", gin.H{
		"Post":    post,
		"Comment": comment,
	})
}

func (cc *CommentController) Delete(c *gin.Context) {
	post, comment, ok := cc.ownedComment(c)
	if !ok {
		return
	}
	if err := cc.commentService.Delete(c.Request.Context(), comment); err != nil {
		serverError(c, cc.log, err)
		return
	}
	seeOther(c, post.URL())
}
