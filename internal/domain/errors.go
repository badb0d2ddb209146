package domain

import "errors"

var (
	// ErrInvalidInput is returned when a request is missing required fields
	// or carries a malformed value. No store access happens after this.
	ErrInvalidInput = errors.New("invalid input")

	// ErrVisitorNotFound is returned when an identify call references a
	// fingerprint that never produced a session beacon
	ErrVisitorNotFound = errors.New("visitor not found")

	// ErrSessionNotFound is returned when a session id does not resolve to a row
	ErrSessionNotFound = errors.New("session not found")

	// ErrCustomerNotFound is returned when a customer lookup by id or email finds nothing
	ErrCustomerNotFound = errors.New("customer not found")
)
