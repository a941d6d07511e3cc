package models

import "time"

// Publishable is implemented by every model that embeds PublishedModel.
type Publishable interface {
	Published() bool
	Created() time.Time
}

// PublishedModel carries the publication flag and insertion time shared by
// categories, locations, posts and comments.
type PublishedModel struct {
	IsPublished bool      `json:"is_published" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m PublishedModel) Published() bool { return m.IsPublished }

func (m PublishedModel) Created() time.Time { return m.CreatedAt }

var (
	_ Publishable = Category{}
	_ Publishable = Location{}
	_ Publishable = Post{}
	_ Publishable = Comment{}
)
