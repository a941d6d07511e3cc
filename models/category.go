package models

const (
	TitleLength = 256
	SlugLength  = 300
)

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:256;not null"`
	Description string `json:"description" gorm:"type:text"`
	Slug        string `json:"slug" gorm:"size:300;uniqueIndex;not null"`
	PublishedModel
}

type CreateCategoryRequest struct {
	Title       string `json:"title" binding:"required,max=256"`
	Description string `json:"description" binding:"required"`
	Slug        string `json:"slug" binding:"omitempty,max=300,slug"`
	IsPublished *bool  `json:"is_published"`
}

type UpdateCategoryRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=256"`
	Description *string `json:"description"`
	Slug        *string `json:"slug" binding:"omitempty,max=300,slug"`
	IsPublished *bool   `json:"is_published"`
}
