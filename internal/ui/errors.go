package ui

import (
	"errors"
	"strings"

	"viajeia/internal/model"
	"viajeia/internal/planner"
)

// userMessage turns an error into the one-line banner shown to the user.
func userMessage(err error) string {
	var se *planner.ServiceError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrConnectivity):
		return "Could not connect to the server. Check that the planning service is running."
	case errors.As(err, &se):
		detail := se.Detail
		if detail == "" {
			detail = "unknown error"
		}
		return "Server error: " + detail
	case errors.Is(err, model.ErrService):
		return "Server error: unknown error"
	case errors.Is(err, model.ErrDuplicate):
		return "This destination is already in your favorites."
	case errors.Is(err, model.ErrNotFound):
		return "That favorite no longer exists."
	case errors.Is(err, model.ErrRender):
		return "There was an error generating the PDF. Please try again."
	case errors.Is(err, model.ErrValidation):
		msg := strings.TrimSuffix(err.Error(), ": "+model.ErrValidation.Error())
		return capitalize(msg) + "."
	default:
		return "Error: " + err.Error()
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
