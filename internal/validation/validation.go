// Package validation checks request payloads against their schemas and
// reports every violation in a single apperror.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
)

// Validator wraps a configured go-playground validator.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that names fields by their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns a KindValidation *apperror.Error listing
// every failed rule, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Internal(fmt.Errorf("validate: %w", err))
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return apperror.Validation(msgs...)
}

// ID parses a path identifier. It must be a positive integer.
func (v *Validator) ID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperror.Validation(fmt.Sprintf("%q must be a number", name))
	}
	if id <= 0 {
		return 0, apperror.Validation(fmt.Sprintf("%q must be a positive number", name))
	}
	return id, nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := kindOf(fe) == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		if isString {
			if fe.Param() == "1" {
				return fmt.Sprintf("%q is not allowed to be empty", field)
			}
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

func kindOf(fe validator.FieldError) reflect.Kind {
	k := fe.Kind()
	if k == reflect.Ptr && fe.Type() != nil {
		return fe.Type().Elem().Kind()
	}
	return k
}
