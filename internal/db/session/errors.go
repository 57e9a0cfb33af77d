package session

import "errors"

var (
	// ErrPoolTimeout is returned when no pooled connection became free within the pool timeout.
	ErrPoolTimeout = errors.New("timed out waiting for a database connection")

	// ErrDBNil is returned when the factory has no engine.
	ErrDBNil = errors.New("database connection is nil")
)
