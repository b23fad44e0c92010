package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deppfellow/autotrader/internal/errs"
)

// BodyLoc is the location prefix of every request body field.
const BodyLoc = "body"

// Validatable is implemented by request payloads that know how to validate
// themselves.
type Validatable interface {
	Validate() error
}

// Kind is a machine-readable validation error category.
type Kind string

const (
	KindMissing             Kind = "missing"
	KindStringType          Kind = "string_type"
	KindFloatType           Kind = "float_type"
	KindFloatParsing        Kind = "float_parsing"
	KindFiniteNumber        Kind = "finite_number"
	KindModelAttributesType Kind = "model_attributes_type"
	KindJSONInvalid         Kind = "json_invalid"
	KindInvalid             Kind = "value_error"
)

// FieldError is a single failing field. Field is empty for errors about the
// body as a whole.
type FieldError struct {
	Field   string
	Kind    Kind
	Message string
}

// Loc returns the path of the field inside the request.
func (f FieldError) Loc() []string {
	if f.Field == "" {
		return []string{BodyLoc}
	}
	return []string{BodyLoc, f.Field}
}

// ValidationError lists every field of a payload that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc(), "."), f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a failing field.
func (e *ValidationError) Add(field string, kind Kind, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Kind: kind, Message: message})
}

// Has reports whether field already failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ErrOrNil returns e when it holds at least one field, nil otherwise.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// BindAndValidate binds the request body into payload and validates it.
//
// payload must be a pointer. Bodies without a Content-Type or with a +json
// media type are decoded as JSON too. Any binding failure, including
// malformed JSON and unsupported content types, is reported as a 422 on the
// body.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := bind(c, payload); err != nil {
		return errs.ValidationError([]errs.FieldError{
			toHTTPFieldError(FieldError{Kind: KindJSONInvalid, Message: bindErrorMessage(err)}),
		})
	}

	if fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.ValidationError(fieldErrors)
	}

	return nil
}

func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return "JSON decode error: " + msg
		}
	}
	return "JSON decode error"
}

func validateStruct(v Validatable) []errs.FieldError {
	if err := v.Validate(); err != nil {
		return ExtractFieldErrors(err)
	}
	return nil
}

// ExtractFieldErrors converts a *ValidationError or validator.ValidationErrors
// into response field errors. Any other error becomes a body-level error.
func ExtractFieldErrors(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		for _, f := range validationErr.Fields {
			fieldErrors = append(fieldErrors, toHTTPFieldError(f))
		}
		return fieldErrors
	}

	var tagErrors validator.ValidationErrors
	if !errors.As(err, &tagErrors) {
		return []errs.FieldError{toHTTPFieldError(FieldError{Kind: KindInvalid, Message: err.Error()})}
	}

	for _, f := range FromValidator(tagErrors) {
		fieldErrors = append(fieldErrors, toHTTPFieldError(f))
	}

	return fieldErrors
}

// FromValidator converts struct tag failures into FieldErrors named after
// the field's json tag.
func FromValidator(tagErrors validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(tagErrors))

	for _, err := range tagErrors {
		kind := KindInvalid
		var msg string

		switch err.Tag() {
		case "required":
			kind = KindMissing
			msg = "Field required"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s:%s", err.Tag(), err.Param())
			} else {
				msg = err.Tag()
			}
		}

		fields = append(fields, FieldError{
			Field:   err.Field(),
			Kind:    kind,
			Message: msg,
		})
	}

	return fields
}

func toHTTPFieldError(f FieldError) errs.FieldError {
	loc := f.Loc()
	return errs.FieldError{
		Loc:   loc,
		Field: loc[len(loc)-1],
		Type:  string(f.Kind),
		Error: f.Message,
	}
}
