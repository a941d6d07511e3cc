package models

import (
	"fmt"
	"time"
)

type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:256;not null"`
	Slug       string    `json:"slug" gorm:"size:300;uniqueIndex;not null"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	PubDate    time.Time `json:"pub_date" gorm:"not null;index"`
	Image      string    `json:"image,omitempty" gorm:"size:255"`
	AuthorID   uint      `json:"author_id" gorm:"not null;index"`
	Author     User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	LocationID *uint     `json:"location_id" gorm:"index"`
	Location   *Location `json:"location,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CategoryID *uint     `json:"category_id" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	PublishedModel

	// CommentCount is computed at query time, never stored.
	CommentCount int64 `json:"comment_count" gorm:"->;-:migration"`
}

func (p *Post) URL() string {
	return fmt.Sprintf("/posts/%d/", p.ID)
}

// IsAuthor reports whether the user with the given id wrote the post.
func (p *Post) IsAuthor(userID uint) bool {
	return userID != 0 && p.AuthorID == userID
}

type UpdatePostStatusRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}
