// Package schema validates marketplace payloads against the shapes the
// backend and the clients agree on, applying the documented defaults.
//
// Every parser is pure: it takes raw JSON and returns either a fully
// populated record or a *errors.ValidationError naming the first failing
// field. Callers never receive a partially built record.
package schema

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/menna-app/menna-go/pkg/errors"
)

// Validator wraps go-playground validator with json field naming.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their json names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{validate: v}
}

var errNilPayload = stderrors.New("payload is nil")

var (
	defaultValidator     *Validator
	defaultValidatorOnce sync.Once
)

// Default returns the shared validator. Validators are safe for concurrent use.
func Default() *Validator {
	defaultValidatorOnce.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator
}

// Struct validates a tagged struct and converts failures to a ValidationError.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return toValidationError(err, "")
	}
	return nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// decode unmarshals data into dst, turning decoding failures into validation errors.
func decode(data []byte, dst any, path string) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return errors.NewValidationError("empty body", path, nil)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			field := joinPath(path, typeErr.Field)
			return errors.NewValidationError(
				fmt.Sprintf("%s: expected %s, got %s", displayField(field), typeErr.Type.String(), typeErr.Value),
				field,
				typeErr.Value,
			).WithCause(err)
		}
		return errors.NewValidationError("malformed JSON", path, nil).WithCause(err)
	}
	return nil
}

func toValidationError(err error, path string) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.NewValidationError(err.Error(), path, nil).WithCause(err)
	}

	issues := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, describe(joinPath(path, fieldPath(fe)), fe))
	}

	first := fieldErrs[0]
	field := joinPath(path, fieldPath(first))
	verr := errors.NewValidationError(issues[0], field, first.Value())
	verr.Context["issues"] = issues
	return verr
}

// fieldPath drops the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func describe(field string, fe validator.FieldError) string {
	name := displayField(field)
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "email":
		return name + " must be a valid email address"
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func joinPath(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}

func displayField(field string) string {
	if field == "" {
		return "body"
	}
	return field
}
