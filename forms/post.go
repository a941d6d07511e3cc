package forms

import (
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"blogicum/models"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type PostForm struct {
	Title    string                `form:"title" validate:"required,max=256"`
	Text     string                `form:"text" validate:"required"`
	PubDate  string                `form:"pub_date" validate:"required"`
	Category string                `form:"category" validate:"required"`
	Location string                `form:"location"`
	Image    *multipart.FileHeader `form:"image" validate:"-"`

	// Filled by Validate.
	PubDateTime time.Time `form:"-" validate:"-"`
	CategoryID  uint      `form:"-" validate:"-"`
	LocationID  *uint     `form:"-" validate:"-"`
}

// PostFormFrom pre-fills the form with a stored post.
func PostFormFrom(p *models.Post) PostForm {
	f := PostForm{
		Title:       p.Title,
		Text:        p.Text,
		PubDate:     p.PubDate.UTC().Format(DateTimeInputLayout),
		PubDateTime: p.PubDate,
		LocationID:  p.LocationID,
	}
	if p.CategoryID != nil {
		f.Category = strconv.FormatUint(uint64(*p.CategoryID), 10)
		f.CategoryID = *p.CategoryID
	}
	if p.LocationID != nil {
		f.Location = strconv.FormatUint(uint64(*p.LocationID), 10)
	}
	return f
}

func (f *PostForm) Validate() Errors {
	f.Title = strings.TrimSpace(f.Title)
	f.Text = strings.TrimSpace(f.Text)
	f.Category = strings.TrimSpace(f.Category)
	f.Location = strings.TrimSpace(f.Location)

	errs := Validate(f)

	if !errs.Has("pub_date") {
		t, err := ParseDateTime(f.PubDate)
		if err != nil {
			errs.Add("pub_date", MsgInvalidDate)
		} else {
			f.PubDateTime = t
		}
	}

	if !errs.Has("category") {
		id, ok := parseID(f.Category)
		if !ok {
			errs.Add("category", MsgInvalidChoice)
		} else {
			f.CategoryID = id
		}
	}

	f.LocationID = nil
	if f.Location != "" {
		id, ok := parseID(f.Location)
		if !ok {
			errs.Add("location", MsgInvalidChoice)
		} else {
			f.LocationID = &id
		}
	}

	if f.Image != nil && !imageExtensions[strings.ToLower(filepath.Ext(f.Image.Filename))] {
		errs.Add("image", MsgInvalidImage)
	}

	return errs
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
