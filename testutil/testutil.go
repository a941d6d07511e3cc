// Package testutil builds throwaway sqlite databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"blogicum/database"
	"blogicum/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const Password = "correct-horse-battery"

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateStaff(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := CreateUser(t, db, username)
	require.NoError(t, db.Model(user).Update("is_staff", true).Error)
	user.IsStaff = true
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, title string, published bool) *models.Category {
	t.Helper()
	cat := &models.Category{
		Title:          title,
		Description:    title + " description",
		Slug:           "cat-" + uuid.NewString()[:8],
		PublishedModel: models.PublishedModel{IsPublished: published},
	}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func CreateLocation(t *testing.T, db *gorm.DB, name string, published bool) *models.Location {
	t.Helper()
	loc := &models.Location{
		Name:           name,
		PublishedModel: models.PublishedModel{IsPublished: published},
	}
	require.NoError(t, db.Create(loc).Error)
	return loc
}

// PostOpts describes a fixture post. Zero PubDate means an hour ago.
type PostOpts struct {
	Title     string
	Author    *models.User
	Category  *models.Category
	Location  *models.Location
	PubDate   time.Time
	Published bool
}

func CreatePost(t *testing.T, db *gorm.DB, o PostOpts) *models.Post {
	t.Helper()

	if o.Title == "" {
		o.Title = "Post " + uuid.NewString()[:8]
	}
	if o.PubDate.IsZero() {
		o.PubDate = time.Now().Add(-time.Hour)
	}

	post := &models.Post{
		Title:          o.Title,
		Slug:           "post-" + uuid.NewString(),
		Text:           "Text of " + o.Title,
		PubDate:        o.PubDate.UTC(),
		AuthorID:       o.Author.ID,
		PublishedModel: models.PublishedModel{IsPublished: o.Published},
	}
	if o.Category != nil {
		post.CategoryID = &o.Category.ID
	}
	if o.Location != nil {
		post.LocationID = &o.Location.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(post).Error)
	return post
}

// PublicPost is a post that every visitor can see.
func PublicPost(t *testing.T, db *gorm.DB, author *models.User, cat *models.Category, title string) *models.Post {
	t.Helper()
	return CreatePost(t, db, PostOpts{Title: title, Author: author, Category: cat, Published: true})
}

func CreateComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Text:           text,
		PostID:         post.ID,
		AuthorID:       author.ID,
		PublishedModel: models.PublishedModel{IsPublished: true},
	}
	require.NoError(t, db.Omit(clause.Associations).Create(comment).Error)
	return comment
}
