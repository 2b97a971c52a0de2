// Package service implements the domain/service layer: validation,
// invariant enforcement, and state transitions for projects and tasks.
// Services speak only to the store contracts and raise typed domain
// errors; the HTTP layer maps those to status codes.
package service
