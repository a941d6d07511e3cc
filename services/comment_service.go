package services

import (
	"context"

	"blogicum/forms"
	"blogicum/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListForPost returns a post's comments oldest first, as the detail page shows them.
func (s *CommentService) ListForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// Create attaches a published comment by authorID to an existing post.
func (s *CommentService) Create(ctx context.Context, postID, authorID uint, f *forms.CommentForm) (*models.Comment, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	comment := &models.Comment{
		Text:           f.Text,
		PostID:         postID,
		AuthorID:       authorID,
		PublishedModel: models.PublishedModel{IsPublished: true},
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// GetOwned looks a comment up by post, id and author together, so a comment
// written by someone else is indistinguishable from a missing one.
func (s *CommentService) GetOwned(ctx context.Context, postID, commentID, authorID uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND post_id = ? AND author_id = ?", commentID, postID, authorID).
		First(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *CommentService) Update(ctx context.Context, comment *models.Comment, f *forms.CommentForm) error {
	comment.Text = f.Text
	return s.db.WithContext(ctx).Model(comment).Update("text", comment.Text).Error
}

func (s *CommentService) Delete(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Delete(&models.Comment{}, comment.ID).Error
}
