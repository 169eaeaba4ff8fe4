package proto

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a payload's required-field constraints before it reaches
// the core.
func Validate(v any) error {
	return validate.Struct(v)
}
