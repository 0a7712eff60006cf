package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/school-records-service/internal/models"
)

// BusinessValidator handles rules that span a whole request rather than one field.
type BusinessValidator struct {
	validate *validator.Validate
}

func newBusinessValidator(validate *validator.Validate) *BusinessValidator {
	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()
	return bv
}

// ValidateBatch validates every item of a payload. Field names in the result
// carry the item index for batches.
func ValidateBatch[T any](bv *BusinessValidator, items []T, batch bool, maxItems int) ValidationErrors {
	var errs ValidationErrors

	if len(items) == 0 {
		return ValidationErrors{{
			Field:   "items",
			Message: "at least one item is required",
			Rule:    "min_items",
		}}
	}

	if maxItems > 0 && len(items) > maxItems {
		errs = append(errs, ValidationError{
			Field:   "items",
			Message: fmt.Sprintf("cannot contain more than %d items", maxItems),
			Value:   len(items),
			Rule:    "max_items",
		})
	}

	for i := range items {
		if err := bv.validate.Struct(&items[i]); err != nil {
			itemErrs := ToValidationErrors(err)
			if batch {
				itemErrs = itemErrs.WithPrefix(fmt.Sprintf("[%d]", i))
			}
			errs = append(errs, itemErrs...)
		}
	}

	return errs
}

// ValidateStudentDeletes rejects a batch that names the same student twice.
func (bv *BusinessValidator) ValidateStudentDeletes(reqs []models.StudentDeleteRequest) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[uint]int, len(reqs))
	for i, req := range reqs {
		if first, ok := seen[req.ID]; ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("[%d].id", i),
				Message: fmt.Sprintf("duplicates item %d", first),
				Value:   req.ID,
				Rule:    "unique",
			})
			continue
		}
		seen[req.ID] = i
	}
	return errs
}

func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})
	bv.validate.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= models.MaxPasswordBytes
	})
}
