package model

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// tag order used to name a field in error paths
var fieldNameTags = []string{"json", "query", "param", "header"}

func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range fieldNameTags {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return Role(fl.Field().String()).Valid()
		})
	})
	return validate
}

// FormatValidationErrors converts validator errors into a path -> message map.
// The leading struct name is dropped so paths read like "name" or
// "collaborators.0".
func FormatValidationErrors(err error) FieldErrors {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return FieldErrors{"": {Message: err.Error()}}
	}

	out := make(FieldErrors, len(validationErrors))
	for _, e := range validationErrors {
		out[fieldPath(e.Namespace())] = FieldError{Message: describe(e)}
	}
	return out
}

func fieldPath(namespace string) string {
	parts := strings.SplitN(namespace, ".", 2)
	if len(parts) == 2 {
		namespace = parts[1]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Required"
	case "min":
		return "Expected a minimum length of " + e.Param()
	case "max":
		return "Expected a maximum length of " + e.Param()
	case "oneof":
		return "Expected one of: " + e.Param()
	case "email":
		return "Invalid email"
	case "role":
		return "Unknown role"
	case "mongodb":
		return "Expected a valid object id"
	}
	return "Field validation for '" + e.Field() + "' failed on the '" + e.Tag() + "' tag"
}
