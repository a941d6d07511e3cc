package forms

import "strings"

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

func (f *CommentForm) Validate() Errors {
	f.Text = strings.TrimSpace(f.Text)
	return Validate(f)
}
