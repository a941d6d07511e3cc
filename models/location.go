package models

type Location struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	PublishedModel
}

type CreateLocationRequest struct {
	Name        string `json:"name" binding:"required,max=256"`
	IsPublished *bool  `json:"is_published"`
}

type UpdateLocationRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=256"`
	IsPublished *bool   `json:"is_published"`
}
