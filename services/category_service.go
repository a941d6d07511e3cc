package services

import (
	"context"

	"blogicum/forms"
	"blogicum/models"

	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	return cats, s.db.WithContext(ctx).Order("title ASC, id ASC").Find(&cats).Error
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := s.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

// GetPublishedBySlug treats an unpublished category exactly like a missing one.
func (s *CategoryService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&cat).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

func (s *CategoryService) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	cat := &models.Category{
		Title:          req.Title,
		Description:    req.Description,
		Slug:           req.Slug,
		PublishedModel: models.PublishedModel{IsPublished: true},
	}
	if req.IsPublished != nil {
		cat.IsPublished = *req.IsPublished
	}

	if err := createWithSlug(ctx, s.db, cat, cat.Title, &cat.Slug, "category"); err != nil {
		return nil, err
	}
	return cat, nil
}

// Update applies a partial change. An explicitly empty slug is derived again
// from the (possibly new) title.
func (s *CategoryService) Update(ctx context.Context, id uint, req *models.UpdateCategoryRequest) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cat, id).Error; err != nil {
			return translate(err)
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			cat.Title = *req.Title
			updates["title"] = cat.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.IsPublished != nil {
			updates["is_published"] = *req.IsPublished
		}
		if req.Slug != nil {
			slug := *req.Slug
			if slug == "" {
				derived, err := uniqueSlug(tx, &models.Category{}, baseSlug(cat.Title, "category"), cat.ID)
				if err != nil {
					return err
				}
				slug = derived
			} else {
				taken, err := slugTaken(tx, &models.Category{}, slug, cat.ID)
				if err != nil {
					return err
				}
				if taken {
					return forms.Field("slug", msgSlugTaken)
				}
			}
			updates["slug"] = slug
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&cat).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&cat, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Delete detaches the category from its posts, then removes it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
