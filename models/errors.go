package models

import "errors"

var (
	// ErrValidation marks malformed caller input (bad date, hour out of range, ...)
	ErrValidation = errors.New("validation failed")

	// ErrZoneNotFound is returned when a zone id is not part of the catalog
	ErrZoneNotFound = errors.New("zone not found")

	// ErrEventNotFound is returned when an event id is unknown
	ErrEventNotFound = errors.New("event not found")

	// ErrModelUnavailable signals that the external model cannot serve a call.
	// It never reaches HTTP callers; the predictor falls back instead.
	ErrModelUnavailable = errors.New("model unavailable")
)
