// Package middleware holds the echo middleware that wraps every request:
// request ids, request-scoped logging, tracing, rate limiting, panic
// recovery, CORS, secure headers and the global error handler.
package middleware
