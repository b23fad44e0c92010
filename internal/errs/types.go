package errs

import "strings"

// FieldError describes a single failing field of a request payload.
//
// Example:
//
//	{ "loc": ["body", "price"], "field": "price", "type": "missing", "error": "Field required" }
type FieldError struct {
	// Loc is the path of the field inside the request, starting with "body".
	Loc []string `json:"loc"`

	// Field is the last element of Loc.
	Field string `json:"field"`

	// Type is a machine-readable error kind (e.g. "missing", "float_parsing").
	Type string `json:"type"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect somewhere.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional instruction for the client.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type serialized to API clients.
//
//   - Code: machine-friendly error code (e.g. "UNPROCESSABLE_ENTITY").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: whether the client may show Message as-is.
//   - Errors: per-field validation errors.
//   - Action: optional client instruction.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Code and Status are not
// compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
