package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/school-records-service/internal/models"
)

// ValidationError describes one failed rule on one field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// WithPrefix returns a copy whose field names are prefixed, e.g. "[2].name".
func (ve ValidationErrors) WithPrefix(prefix string) ValidationErrors {
	out := make(ValidationErrors, len(ve))
	for i, e := range ve {
		e.Field = prefix + "." + e.Field
		out[i] = e
	}
	return out
}

// ToValidationErrors converts validator/v10 errors into ValidationErrors.
func ToValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Namespace()[indexAfterRoot(fe.Namespace()):],
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

// indexAfterRoot skips the struct type name at the head of a namespace.
func indexAfterRoot(ns string) int {
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return i + 1
		}
	}
	return 0
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "unique":
		return "must not contain duplicates"
	case "user_role":
		return "must be one of admin, user"
	case "password_bytes":
		return fmt.Sprintf("must be at most %d bytes", models.MaxPasswordBytes)
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
