package services

import (
	"context"

	"blogicum/models"

	"gorm.io/gorm"
)

type LocationService struct {
	db *gorm.DB
}

func NewLocationService(db *gorm.DB) *LocationService {
	return &LocationService{db: db}
}

func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	var locs []models.Location
	return locs, s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&locs).Error
}

func (s *LocationService) Get(ctx context.Context, id uint) (*models.Location, error) {
	var loc models.Location
	if err := s.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &loc, nil
}

func (s *LocationService) Create(ctx context.Context, req *models.CreateLocationRequest) (*models.Location, error) {
	loc := &models.Location{
		Name:           req.Name,
		PublishedModel: models.PublishedModel{IsPublished: true},
	}
	if req.IsPublished != nil {
		loc.IsPublished = *req.IsPublished
	}
	if err := s.db.WithContext(ctx).Create(loc).Error; err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *LocationService) Update(ctx context.Context, id uint, req *models.UpdateLocationRequest) (*models.Location, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(loc).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete detaches the location from its posts, then removes it.
func (s *LocationService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("location_id = ?", id).Update("location_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Location{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
