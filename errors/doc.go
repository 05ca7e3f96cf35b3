// Package errors defines the service's error taxonomy.
//
// Every expected failure is an *AppError carrying a machine-readable code,
// the HTTP status it maps to, and a client-safe message. Anything else is
// wrapped with Internal before it reaches a response.
package errors
