// Package forms binds and validates user input, returning field-keyed errors
// that handlers attach to re-rendered pages.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"blogicum/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonField collects errors that do not belong to a single input.
const NonField = "__all__"

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator("form")

func init() {
	// gin binds the JSON admin API with its own engine; teach it the same rules.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerRules(v, "json")
	}
}

func newValidator(tag string) *validator.Validate {
	v := validator.New()
	registerRules(v, tag)
	return v
}

func registerRules(v *validator.Validate, tag string) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || utils.IsValidSlug(s)
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// Errors maps an input name to its first error message. The zero value is
// not usable; build one with make or a composite literal.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string { return e[field] }

func (e Errors) Valid() bool { return len(e) == 0 }

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Field builds a single-field error, mostly for store-side checks such as
// uniqueness or foreign key existence.
func Field(field, message string) Errors {
	return Errors{field: message}
}

// AsErrors extracts validation errors from an error chain.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// Validate runs the struct's validate tags.
func Validate(s any) Errors {
	return translate(validate.Struct(s))
}

// FromBindError converts a gin binding failure into field errors.
func FromBindError(err error) Errors {
	return translate(err)
}

func translate(err error) Errors {
	errs := Errors{}
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonField, err.Error())
		return errs
	}

	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "slug":
		return "Enter a valid “slug” consisting of letters, numbers, underscores or hyphens."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "eqfield":
		return "The two password fields didn’t match."
	default:
		return "Enter a valid value."
	}
}

const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidDate   = "Enter a valid date/time."
	MsgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// DateTimeInputLayout matches the browser's datetime-local input.
const DateTimeInputLayout = "2006-01-02T15:04"

// ParseDateTime accepts the datetime-local format and a few common
// variants. Values without an offset are read as UTC.
func ParseDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date/time %q", raw)
}
