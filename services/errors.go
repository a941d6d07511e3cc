package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both missing rows and rows a lookup filter excluded.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the requester does not own the resource.
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
