package model

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrInvalidRange = errors.New("invalid range")
	ErrSlotConflict = errors.New("slot conflict")
	ErrMalformedKey = errors.New("malformed key")

	// ErrAIUnavailable marks operations that need generated text when the
	// provider returned nothing usable. Callers treat absence as a normal,
	// degraded outcome.
	ErrAIUnavailable = errors.New("ai unavailable")
)
