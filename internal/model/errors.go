package model

import "errors"

// Common errors used across the application
var (
	// Argument errors: programmer mistakes, distinct from policy denials
	ErrInvalidPlayer   = errors.New("invalid player id")
	ErrInvalidArgument = errors.New("invalid argument")

	// Policy errors
	ErrActionNotAllowed = errors.New("action not allowed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownEvent    = errors.New("unknown event type")
)
