package model

import "errors"

// ErrValidation is returned when local input is missing or malformed
// (empty survey field, empty question, no destination to save or export).
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned when a favorite for the same destination exists.
var ErrDuplicate = errors.New("duplicate favorite")

// ErrNotFound is returned when a favorite id is unknown.
var ErrNotFound = errors.New("not found")

// ErrConnectivity is returned when a remote call got no response,
// including timeouts.
var ErrConnectivity = errors.New("cannot reach server")

// ErrService is returned when a remote call got a failure status.
var ErrService = errors.New("service error")

// ErrRender is returned when the itinerary document could not be assembled.
var ErrRender = errors.New("render error")

// ErrPersistenceParse marks stored favorites data that could not be decoded.
// It is logged and absorbed, never shown to the user.
var ErrPersistenceParse = errors.New("malformed persisted data")
