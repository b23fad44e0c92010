// Package validation binds request payloads and validates them.
//
// Payloads either carry `validate` struct tags checked by
// go-playground/validator, or report their own failures as a
// *ValidationError. Both are translated into a single 422 response listing
// every failing field.
package validation
