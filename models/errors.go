package models

import "errors"

// Sentinel errors returned by the repositories. The routing layer maps
// them to status codes; anything else is treated as an internal error.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is full")
	ErrNotRegistered     = errors.New("not registered for this event")
	ErrCapacityTooSmall  = errors.New("capacity below current registrations")
)
