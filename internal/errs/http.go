package errs

import (
	"net/http"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusForbidden),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
func NewMethodNotAllowedError(message string) *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusMethodNotAllowed),
		Message: message,
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewUnprocessableEntityError creates a 422 Unprocessable Entity HTTPError
// carrying the failing fields of a request payload.
func NewUnprocessableEntityError(message string, errors []FieldError) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusUnprocessableEntity),
		Message:  message,
		Status:   http.StatusUnprocessableEntity,
		Override: true,
		Errors:   errors,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusTooManyRequests),
		Message: http.StatusText(http.StatusTooManyRequests),
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is always the generic status text so internal details never
// reach the client.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts failing fields into a 422 HTTPError.
//
//	return errs.ValidationError(fieldErrors)
func ValidationError(fieldErrors []FieldError) *HTTPError {
	return NewUnprocessableEntityError("Validation failed", fieldErrors)
}
