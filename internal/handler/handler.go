// Package handler is the HTTP layer.
//
// Handlers bind and validate request payloads through the validation
// package, call the service layer and write JSON responses. Errors are
// returned to the global error handler rather than written here.
package handler
