package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

const passwordSpecials = "!@#$%^&*"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	// max counts runes; bcrypt limits input by bytes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// isStrongPassword requires at least one digit and one special character.
func isStrongPassword(s string) bool {
	return strings.ContainsAny(s, "0123456789") && strings.ContainsAny(s, passwordSpecials)
}

// Validate checks s against its validate tags and returns a validation
// DomainError listing every offending field.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewBadRequest("invalid payload")
	}

	details := make(map[string]any, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = msgForTag(fe)
	}
	return apperrors.NewValidationError("Validation failed", details)
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "password":
		return "Password must contain at least one number and one special character"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
