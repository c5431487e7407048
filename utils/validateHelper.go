package utils

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ValidateStruct runs the `validate` struct tags of v.
// Used by model functions that accept input not coming through gin binding
// (seed tooling, internal calls).
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}
