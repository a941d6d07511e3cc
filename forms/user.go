package forms

import (
	"strings"

	"blogicum/models"
)

type ProfileForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Email     string `form:"email" validate:"omitempty,max=254,email"`
}

func ProfileFormFrom(u *models.User) ProfileForm {
	return ProfileForm{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func (f *ProfileForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	return Validate(f)
}

type RegistrationForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

func (f *RegistrationForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return Validate(f)
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func (f *LoginForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return Validate(f)
}
