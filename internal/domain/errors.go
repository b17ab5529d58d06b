package domain

import "errors"

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrCapacityExceeded       = errors.New("event capacity reached")
	ErrDuplicateParticipation = errors.New("person already registered for event")
	ErrDuplicateEmail         = errors.New("email already in use")
)
