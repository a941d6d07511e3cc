package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"blogicum/config"
	"blogicum/forms"
	"blogicum/middleware"
	"blogicum/models"
	"blogicum/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// imageDir is where uploads land, relative to the media root.
const imageDir = "post_images"

// PostController handles writing, editing and deleting posts.
type PostController struct {
	postService     *services.PostService
	categoryService *services.CategoryService
	locationService *services.LocationService
	mediaRoot       string
	maxUpload       int64
	log             *zap.Logger
}

func NewPostController(db *gorm.DB, cfg *config.Config, log *zap.Logger) *PostController {
	return &PostController{
		postService:     services.NewPostService(db),
		categoryService: services.NewCategoryService(db),
		locationService: services.NewLocationService(db),
		mediaRoot:       cfg.MediaRoot,
		maxUpload:       cfg.MaxUploadMB << 20,
		log:             log,
	}
}

func (pc *PostController) renderForm(c *gin.Context, post *models.Post, form forms.PostForm, errs forms.Errors) {
	ctx := c.Request.Context()

	categories, err := pc.categoryService.List(ctx)
	if err != nil {
		serverError(c, pc.log, err)
		return
	}
	locations, err := pc.locationService.List(ctx)
	if err != nil {
		serverError(c, pc.log, err)
		return
	}

	render(c, http.StatusOK, "post_form.html", gin.H{
		"Post":       post,
		"Form":       form,
		"Errors":     errs,
		"Categories": categories,
		"Locations":  locations,
	})
}

// bindForm reads and validates the submitted post form.
func (pc *PostController) bindForm(c *gin.Context) (forms.PostForm, forms.Errors) {
	var form forms.PostForm
	if err := c.ShouldBind(&form); err != nil {
		errs := forms.FromBindError(err)
		return form, errs
	}

	errs := form.Validate()
	if form.Image != nil && pc.maxUpload > 0 && form.Image.Size > pc.maxUpload {
		errs.Add("image", fmt.Sprintf("The image must not exceed %d MB.", pc.maxUpload>>20))
	}
	return form, errs
}

// saveImage stores the upload under a random name and returns its path
// relative to the media root.
func (pc *PostController) saveImage(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}

	rel := path.Join(imageDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	dst := filepath.Join(pc.mediaRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating media dir: %w", err)
	}
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", fmt.Errorf("saving upload: %w", err)
	}
	return rel, nil
}

// ownedPost loads the post in the path for its author. Anyone else is sent
// back to the detail page and the handler stops.
func (pc *PostController) ownedPost(c *gin.Context) (*models.Post, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c)
		return nil, false
	}

	post, err := pc.postService.GetOwned(c.Request.Context(), id, middleware.UserID(c))
	switch {
	case errors.Is(err, services.ErrForbidden):
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", id))
		c.Abort()
		return nil, false
	case err != nil:
		fail(c, pc.log, err)
		return nil, false
	}
	return post, true
}

// handleWriteError re-renders the form for field errors and fails otherwise.
func (pc *PostController) handleWriteError(c *gin.Context, post *models.Post, form forms.PostForm, err error) {
	if errs, ok := forms.AsErrors(err); ok {
		pc.renderForm(c, post, form, errs)
		return
	}
	serverError(c, pc.log, err)
}

func (pc *PostController) CreateForm(c *gin.Context) {
	form := forms.PostForm{PubDate: time.Now().UTC().Format(forms.DateTimeInputLayout)}
	pc.renderForm(c, nil, form, forms.Errors{})
}

func (pc *PostController) Create(c *gin.Context) {
	form, errs := pc.bindForm(c)
	if !errs.Valid() {
		pc.renderForm(c, nil, form, errs)
		return
	}

	image, err := pc.saveImage(c, form.Image)
	if err != nil {
		serverError(c, pc.log, err)
		return
	}

	user := middleware.User(c)
	if _, err := pc.postService.Create(c.Request.Context(), user.ID, &form, image); err != nil {
		pc.removeImage(image)
		pc.handleWriteError(c, nil, form, err)
		return
	}

	seeOther(c, profileURL(user.Username))
}

func (pc *PostController) EditForm(c *gin.Context) {
	post, ok := pc.ownedPost(c)
	if !ok {
		return
	}
	pc.renderForm(c, post, forms.PostFormFrom(post), forms.Errors{})
}

func (pc *PostController) Edit(c *gin.Context) {
	post, ok := pc.ownedPost(c)
	if !ok {
		return
	}

	form, errs := pc.bindForm(c)
	if !errs.Valid() {
		pc.renderForm(c, post, form, errs)
		return
	}

	image, err := pc.saveImage(c, form.Image)
	if err != nil {
		serverError(c, pc.log, err)
		return
	}

	previous := post.Image
	if err := pc.postService.Update(c.Request.Context(), post, &form, image); err != nil {
		pc.removeImage(image)
		pc.handleWriteError(c, post, form, err)
		return
	}
	if image != "" && previous != image {
		pc.removeImage(previous)
	}

	seeOther(c, post.URL())
}

func (pc *PostController) DeleteForm(c *gin.Context) {
	post, ok := pc.ownedPost(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "post_delete.html", gin.H{"Post": post})
}

func (pc *PostController) Delete(c *gin.Context) {
	post, ok := pc.ownedPost(c)
	if !ok {
		return
	}

	if err := pc.postService.Delete(c.Request.Context(), post.ID); err != nil {
		fail(c, pc.log, err)
		return
	}
	pc.removeImage(post.Image)

	seeOther(c, profileURL(middleware.User(c).Username))
}

// removeImage drops an upload that no stored post refers to anymore.
func (pc *PostController) removeImage(rel string) {
	if rel == "" {
		return
	}
	if err := os.Remove(filepath.Join(pc.mediaRoot, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		pc.log.Warn("removing orphaned upload", zap.String("image", rel), zap.Error(err))
	}
}
