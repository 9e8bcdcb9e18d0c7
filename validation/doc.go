// Package validation provides input validation for fgakit.
//
// Struct tag validation is backed by go-playground/validator and adds the
// fga_user and fga_relation tags for tuple fields. The programmatic
// Validator collects several field errors into a single AppError.
//
//	type Settings struct {
//	    BaseURL string `json:"base_url" validate:"required,url"`
//	    Admin   string `json:"admin" validate:"omitempty,fga_user"`
//	}
//	err := validation.Validate(settings)
//
//	v := validation.New()
//	v.Required("entity_name", name).User("user", user)
//	err := v.Validate()
package validation
