package service

import "errors"

var (
	// ErrNoQueryParameters is returned when a lookup arrives with zero query
	// keys. Every filter has a usable default, but a caller must still ask
	// for something.
	ErrNoQueryParameters = errors.New("no query parameters supplied")

	// ErrMissingArguments is returned when any of the four required booking
	// fields is absent.
	ErrMissingArguments = errors.New("missing booking arguments")

	// ErrInvalidCredentials covers unknown emails, wrong passwords, and
	// deactivated accounts alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
