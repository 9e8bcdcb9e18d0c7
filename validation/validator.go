package validation

import (
	"strings"

	"github.com/kbukum/fgakit/errors"
)

// FieldError is one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the ordered set of problems found in one input.
type FieldErrors []FieldError

// Err folds the problems into a single INVALID_INPUT error listing every
// field, or returns nil when there are none. The individual entries are
// kept under the "fields" detail.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	parts := make([]string, len(fe))
	for i, e := range fe {
		parts[i] = e.Field + ": " + e.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).
		WithDetail("fields", []FieldError(fe))
}

// Validator checks request arguments one field at a time and reports all
// problems together.
//
//	err := validation.New().
//		Required("entity_name", name).
//		User("user", user).
//		Validate()
type Validator struct {
	problems FieldErrors
}

func New() *Validator {
	return &Validator{}
}

// Check records message against field unless ok holds.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.problems = append(v.problems, FieldError{Field: field, Message: message})
	}
	return v
}

// Required rejects empty and whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	return v.Check(strings.TrimSpace(value) != "", field, tagMessages["required"])
}

// User rejects values that are not type:id, type:* or type:id#relation.
func (v *Validator) User(field, value string) *Validator {
	return v.Check(IsUser(value), field, tagMessages[TagUser])
}

// Relation rejects values that cannot be used as a relation name.
func (v *Validator) Relation(field, value string) *Validator {
	return v.Check(IsRelation(value), field, tagMessages[TagRelation])
}

func (v *Validator) HasErrors() bool { return len(v.problems) > 0 }

func (v *Validator) Errors() FieldErrors { return v.problems }

// Validate returns the collected problems as an INVALID_INPUT error, or nil.
func (v *Validator) Validate() error {
	return v.problems.Err()
}
