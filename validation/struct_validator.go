package validation

import (
	stderrors "errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/fgakit/errors"
)

// Custom struct tags.
const (
	TagUser     = "fga_user"
	TagRelation = "fga_relation"
)

var (
	userPattern     = regexp.MustCompile(`^[^:#@\s]+:[^#\s]+(#[^:#@\s]+)?$`)
	relationPattern = regexp.MustCompile(`^[^:#@\s]+$`)

	tagMessages = map[string]string{
		"required":    "is required",
		"url":         "must be a valid URL",
		"oneof":       "must be one of: ",
		"min":         "must be at least ",
		"gte":         "must be at least ",
		"max":         "must be at most ",
		"lte":         "must be at most ",
		"excludesall": "must not contain any of ",
		TagUser:       "must look like type:id or type:id#relation",
		TagRelation:   "must be a relation name without ':', '#', '@' or spaces",
	}
)

// IsUser reports whether s is a subject identifier: type:id, type:*, or
// type:id#relation.
func IsUser(s string) bool {
	return userPattern.MatchString(s)
}

// IsRelation reports whether s can be used as a relation name.
func IsRelation(s string) bool {
	return relationPattern.MatchString(s)
}

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation(TagUser, func(fl validator.FieldLevel) bool {
		return IsUser(fl.Field().String())
	})
	_ = v.RegisterValidation(TagRelation, func(fl validator.FieldLevel) bool {
		return IsRelation(fl.Field().String())
	})
	return v
})

// Validate checks a struct against its `validate` tags, which may use the
// fga_user and fga_relation tags besides the validator built-ins. Fields
// are reported under their json or mapstructure name.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation("validation failed").WithCause(err)
	}

	problems := make(FieldErrors, 0, len(verrs))
	for _, e := range verrs {
		problems = append(problems, FieldError{Field: e.Field(), Message: describe(e)})
	}
	return problems.Err()
}

func describe(e validator.FieldError) string {
	msg, ok := tagMessages[e.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.HasSuffix(msg, " ") {
		return msg + e.Param()
	}
	return msg
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "mapstructure"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return snakeCase(fld.Name)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
