// Package errs defines the error types returned to API clients.
//
// Every failure that reaches the HTTP boundary is turned into an HTTPError,
// so clients always receive the same JSON shape whatever went wrong.
package errs
