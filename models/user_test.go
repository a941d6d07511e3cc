package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Password(t *testing.T) {
	u := &User{Password: "s3cret-pass"}
	require.NoError(t, u.HashPassword())

	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "ivan", (&User{Username: "ivan"}).FullName())
	assert.Equal(t, "Ivan Petrov", (&User{Username: "ivan", FirstName: "Ivan", LastName: "Petrov"}).FullName())
	assert.Equal(t, "Ivan", (&User{Username: "ivan", FirstName: "Ivan"}).FullName())
}

func TestPost_IsAuthor(t *testing.T) {
	p := &Post{ID: 4, AuthorID: 7}

	assert.True(t, p.IsAuthor(7))
	assert.False(t, p.IsAuthor(8))
	assert.False(t, (&Post{}).IsAuthor(0))
	assert.Equal(t, "/posts/4/", p.URL())
}

func TestPublishedModel(t *testing.T) {
	var p Publishable = Comment{PublishedModel: PublishedModel{IsPublished: true}}
	assert.True(t, p.Published())
	assert.True(t, p.Created().IsZero())
}
