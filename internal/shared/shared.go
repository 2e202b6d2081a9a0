// Package shared holds the Redis-backed request session, its CSRF guard and
// the error values that cross package boundaries.
package shared

import "errors"

var (
	// ErrNotFound is returned by lookups that matched nothing.
	ErrNotFound = errors.New("shared: not found")
	// ErrInvalidCredentials covers every rejected login, whatever the cause.
	ErrInvalidCredentials = errors.New("shared: invalid credentials")
)
