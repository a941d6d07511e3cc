package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogicum/forms"
	"blogicum/models"
	"blogicum/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const withCommentCount = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

const postOrder = "posts.pub_date DESC, posts.id DESC"

type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db, now: time.Now}
}

// IsPubliclyVisible is the in-memory form of the listing filter: the post and
// its category are published and the publication date has passed. The
// category must be loaded; a post without one is never public.
func IsPubliclyVisible(p *models.Post, now time.Time) bool {
	return p.IsPublished &&
		p.Category != nil && p.Category.IsPublished &&
		!p.PubDate.After(now)
}

// CanView adds the author override to IsPubliclyVisible.
func CanView(p *models.Post, viewerID uint, now time.Time) bool {
	return IsPubliclyVisible(p, now) || p.IsAuthor(viewerID)
}

// publicScope restricts a posts query to publicly visible rows.
func publicScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ? AND categories.is_published = ? AND posts.pub_date <= ?",
				true, true, now.UTC())
	}
}

func (s *PostService) listing(scopes ...func(*gorm.DB) *gorm.DB) (count, list *gorm.DB) {
	count = s.db.Model(&models.Post{}).Scopes(scopes...)
	list = s.db.Model(&models.Post{}).Scopes(scopes...).
		Select(withCommentCount).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order(postOrder)
	return count, list
}

// ListPublished pages through every publicly visible post.
func (s *PostService) ListPublished(ctx context.Context, page, size int) (pagination.Page[models.Post], error) {
	count, list := s.listing(publicScope(s.now()))
	return pagination.Paginate[models.Post](ctx, count, list, page, size)
}

// ListByCategory pages through the publicly visible posts of one category.
func (s *PostService) ListByCategory(ctx context.Context, categoryID uint, page, size int) (pagination.Page[models.Post], error) {
	inCategory := func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.category_id = ?", categoryID)
	}
	count, list := s.listing(publicScope(s.now()), inCategory)
	return pagination.Paginate[models.Post](ctx, count, list, page, size)
}

// ListByAuthor pages through an author's posts. Owners see everything they
// wrote, other viewers only the public subset.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, includeHidden bool, page, size int) (pagination.Page[models.Post], error) {
	scopes := []func(*gorm.DB) *gorm.DB{
		func(db *gorm.DB) *gorm.DB { return db.Where("posts.author_id = ?", authorID) },
	}
	if !includeHidden {
		scopes = append(scopes, publicScope(s.now()))
	}
	count, list := s.listing(scopes...)
	return pagination.Paginate[models.Post](ctx, count, list, page, size)
}

// AdminFilter narrows the management listing.
type AdminFilter struct {
	CategoryID uint
	LocationID uint
	Search     string
}

func (s *PostService) ListAdmin(ctx context.Context, f AdminFilter, page, size int) (pagination.Page[models.Post], error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if f.CategoryID != 0 {
			db = db.Where("posts.category_id = ?", f.CategoryID)
		}
		if f.LocationID != 0 {
			db = db.Where("posts.location_id = ?", f.LocationID)
		}
		if f.Search != "" {
			db = db.Where("LOWER(posts.title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
		}
		return db
	}
	count, list := s.listing(filter)
	return pagination.Paginate[models.Post](ctx, count, list, page, size)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetVisible loads a post for the detail page: public posts for everyone,
// anything else only for its author.
func (s *PostService) GetVisible(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(post, viewerID, s.now()) {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetOwned loads a post the requester wants to change. A missing post yields
// ErrNotFound, somebody else's post ErrForbidden.
func (s *PostService) GetOwned(ctx context.Context, id, userID uint) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthor(userID) {
		return nil, ErrForbidden
	}
	return post, nil
}

// checkRefs makes sure the chosen category and location exist.
func (s *PostService) checkRefs(ctx context.Context, categoryID uint, locationID *uint) error {
	errs := forms.Errors{}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", categoryID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		errs.Add("category", forms.MsgInvalidChoice)
	}

	if locationID != nil {
		if err := s.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", *locationID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			errs.Add("location", forms.MsgInvalidChoice)
		}
	}

	if !errs.Valid() {
		return errs
	}
	return nil
}

// Create stores a new published post for authorID. image is the stored
// reference of an uploaded file, or empty.
func (s *PostService) Create(ctx context.Context, authorID uint, f *forms.PostForm, image string) (*models.Post, error) {
	if err := s.checkRefs(ctx, f.CategoryID, f.LocationID); err != nil {
		return nil, err
	}

	categoryID := f.CategoryID
	post := &models.Post{
		Title:          f.Title,
		Text:           f.Text,
		PubDate:        f.PubDateTime.UTC(),
		Image:          image,
		AuthorID:       authorID,
		CategoryID:     &categoryID,
		LocationID:     f.LocationID,
		PublishedModel: models.PublishedModel{IsPublished: true},
	}

	if err := createWithSlug(ctx, s.db, post, post.Title, &post.Slug, "post"); err != nil {
		return nil, err
	}
	return post, nil
}

// Insert stores a fully built post, deriving the slug when it is blank.
func (s *PostService) Insert(ctx context.Context, post *models.Post) error {
	post.PubDate = post.PubDate.UTC()
	return createWithSlug(ctx, s.db, post, post.Title, &post.Slug, "post")
}

// Update applies the authoring form. The slug stays as it is; image is kept
// unless a new reference is given.
func (s *PostService) Update(ctx context.Context, post *models.Post, f *forms.PostForm, image string) error {
	if err := s.checkRefs(ctx, f.CategoryID, f.LocationID); err != nil {
		return err
	}

	categoryID := f.CategoryID
	post.Title = f.Title
	post.Text = f.Text
	post.PubDate = f.PubDateTime.UTC()
	post.CategoryID = &categoryID
	post.LocationID = f.LocationID
	if image != "" {
		post.Image = image
	}

	err := s.db.WithContext(ctx).Model(post).Omit(clause.Associations).Select(
		"Title", "Text", "PubDate", "CategoryID", "LocationID", "Image",
	).Updates(post).Error
	if err != nil {
		return fmt.Errorf("updating post %d: %w", post.ID, err)
	}

	// Drop stale associations so callers re-reading the struct see the new refs.
	post.Category, post.Location = nil, nil
	return nil
}

func (s *PostService) SetPublished(ctx context.Context, id uint, published bool) (*models.Post, error) {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("is_published", published)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the post together with its comments.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
