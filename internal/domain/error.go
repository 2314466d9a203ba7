package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDisconnected is the named condition for the peer closing its
	// connection. It is not an I/O failure: the lifecycle controller uses it
	// as the trigger for post-session summarization.
	ErrDisconnected = errors.New("connection disconnected")
)
