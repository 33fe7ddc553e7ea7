package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks s against its `validate` tags. Failures are returned
// as a *ValidationError located in the request body.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	fields := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, fieldErrorFrom(fe))
	}
	return NewValidationError(fields...)
}

// BodyFieldError builds a FieldError for a single body field.
func BodyFieldError(field, msg, typ string) FieldError {
	return FieldError{Loc: []string{"body", field}, Msg: msg, Type: typ}
}

// QueryFieldError builds a FieldError for a single query parameter.
func QueryFieldError(param, msg, typ string) FieldError {
	return FieldError{Loc: []string{"query", param}, Msg: msg, Type: typ}
}

func fieldErrorFrom(fe validator.FieldError) FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return BodyFieldError(field, "field required", "value_error.missing")
	case "email":
		return BodyFieldError(field, "value is not a valid email address", "value_error.email")
	case "oneof":
		permitted := strings.Fields(fe.Param())
		for i, p := range permitted {
			permitted[i] = "'" + p + "'"
		}
		return BodyFieldError(field,
			"value is not a valid enumeration member; permitted: "+strings.Join(permitted, ", "),
			"type_error.enum")
	case "max":
		return BodyFieldError(field, "ensure this value has at most "+fe.Param()+" characters", "value_error.any_str.max_length")
	}
	return BodyFieldError(field, "invalid value", "value_error")
}
