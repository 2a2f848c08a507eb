// Package validate carries the field-error accumulation contract shared
// by listing-parameter validation and write-payload validation: every
// rule for every field runs, and all failures come back together.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to the messages accumulated for it.
// It is returned as a plain error value and unwrapped at the
// transport boundary into a 422 response.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// OrNil lets callers return the accumulated result directly:
// nil when no rule failed, the map itself otherwise.
func (e Errors) OrNil() error {
	if e.Empty() {
		return nil
	}

	return e
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))

	for field, msgs := range e {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}

	return strings.Join(parts, ", ")
}

// AsErrors reports whether err carries field errors.
func AsErrors(err error) (Errors, bool) {
	var e Errors
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

var payloadValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Struct runs validator/v10 over s and folds every violation into
// the shared field-error map.
func Struct(s interface{}) Errors {
	errs := Errors{}

	err := payloadValidator.Struct(s)
	if err == nil {
		return errs
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		errs.Add("payload", err.Error())

		return errs
	}

	for _, fe := range vErrs {
		errs.Add(fe.Field(), message(fe))
	}

	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The '%s' field is required", fe.Field())
	case "max":
		return fmt.Sprintf("The '%s' field may not be greater than %s characters", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("The '%s' field must be at least %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("The '%s' field must be a valid email address", fe.Field())
	case "datetime":
		return fmt.Sprintf("The '%s' field must be a valid date", fe.Field())
	default:
		return fmt.Sprintf("The '%s' field is invalid", fe.Field())
	}
}
