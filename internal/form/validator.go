// Package form binds submitted HTML form fields into typed structs and
// validates them with go-playground/validator. Validation failures are
// reported as Errors keyed by form field name so templates can show them
// next to the offending input.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var phonePattern = regexp.MustCompile(`^[0-9]{3}-?[0-9]{3}-?[0-9]{4}$`)

// GetValidator returns the shared validator with the custom rules
// registered. It is safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		must(v.RegisterValidation("usstate", func(fl validator.FieldLevel) bool {
			return IsState(fl.Field().String())
		}))
		must(v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
			return IsGenre(fl.Field().String())
		}))
		must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		}))
		must(v.RegisterValidation("datetime_local", func(fl validator.FieldLevel) bool {
			_, err := ParseTime(fl.Field().String())
			return err == nil
		}))
		must(v.RegisterValidation("seconds", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
			return err == nil && n >= 1
		}))
		validate = v
	})
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Errors maps a form field name to its validation messages.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], ", "))
	}
	return strings.Join(parts, "; ")
}

// Add records msg against field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Validate checks s against its validate tags. It returns nil when s is
// valid and Errors otherwise.
func Validate(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := Errors{}
	for _, fe := range verrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		out.Add(field, translateError(fe))
	}
	return out
}

var errorMessages = map[string]string{
	"required":       "This field is required.",
	"url":            "Invalid URL.",
	"usstate":        "Not a valid choice.",
	"genre":          "Not a valid choice.",
	"phone":          "Invalid phone number, use xxx-xxx-xxxx.",
	"number":         "Must be a number.",
	"datetime_local": "Not a valid datetime value.",
	"seconds":        "Must be a whole number of seconds, at least 1.",
}

func translateError(fe validator.FieldError) string {
	if msg, ok := errorMessages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Select at least %s.", fe.Param())
		}
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}

// timeLayouts are accepted for submitted date/time values. Values without
// an offset are read as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses a submitted date/time value.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date/time %q", s)
}
